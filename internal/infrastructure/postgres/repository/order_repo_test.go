package repository

import (
	"testing"
	"time"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, repo *DefaultOrderRepository, status domain.OrderStatus) *domain.Order {
	t.Helper()
	userID := uuid.New().String()
	order := &domain.Order{
		ID:        uuid.New().String(),
		UserID:    &userID,
		UserEmail: "buyer@example.com",
		Status:    status,
		Amount:    5000,
		Currency:  "USD",
		ExpiresAt: time.Now().Add(time.Hour),
		Items: []*domain.OrderItem{
			{
				ID:        uuid.New().String(),
				ProductID: uuid.New().String(),
				Quantity:  1,
				Amount:    5000,
			},
		},
	}
	require.NoError(t, repo.CreateOrder(order))
	return order
}

func TestSetItemCommission_OnlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultOrderRepository(db)

	order := seedOrder(t, repo, domain.StatusSucceeded)
	itemID := order.Items[0].ID

	require.NoError(t, repo.SetItemCommission(itemID, 500, "seller-1"))

	// A replayed calculation must leave the first write untouched.
	require.NoError(t, repo.SetItemCommission(itemID, 9999, "seller-2"))

	reloaded, err := repo.GetOrderByID(order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Items[0].CommissionAmount)
	assert.Equal(t, int64(500), *reloaded.Items[0].CommissionAmount)
	require.NotNil(t, reloaded.Items[0].CommissionRecipient)
	assert.Equal(t, "seller-1", *reloaded.Items[0].CommissionRecipient)
}

func TestUpdateStagedCodes_Roundtrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultOrderRepository(db)

	order := seedOrder(t, repo, domain.StatusPending)

	require.NoError(t, repo.UpdateStagedCodes(order.ID, []string{"GIFT-AAAA-BBBB", "PROMO-CCCC-DDDD"}))

	reloaded, err := repo.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"GIFT-AAAA-BBBB", "PROMO-CCCC-DDDD"}, reloaded.StagedCodes)

	require.NoError(t, repo.UpdateStagedCodes(order.ID, nil))
	reloaded, err = repo.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.StagedCodes)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultOrderRepository(db)

	err := repo.UpdateOrderStatus(uuid.New().String(), domain.StatusSucceeded)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestFindExpiredOrders(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultOrderRepository(db)

	expired := seedOrder(t, repo, domain.StatusPending)
	require.NoError(t, db.Model(&models.OrderModel{}).
		Where("id = ?", expired.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	// Pending but not expired, and expired but already succeeded: neither
	// should be picked up.
	seedOrder(t, repo, domain.StatusPending)
	done := seedOrder(t, repo, domain.StatusSucceeded)
	require.NoError(t, db.Model(&models.OrderModel{}).
		Where("id = ?", done.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	found, err := repo.FindExpiredOrders()
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, expired.ID, found[0].ID)
}

func TestUpdateOrderRefundDetails(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultOrderRepository(db)

	order := seedOrder(t, repo, domain.StatusSucceeded)
	require.NoError(t, repo.UpdateOrderRefundDetails(order.ID, "requested_by_customer", "buyer changed their mind"))

	reloaded, err := repo.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "requested_by_customer", reloaded.RefundReason)
	assert.Equal(t, "buyer changed their mind", reloaded.RefundNotes)
}
