package usecase

import (
	"context"
	"testing"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCalculate_RecordsCommissionPerEligibleItem(t *testing.T) {
	catalog := newFakeCatalogRepo()
	catalog.products["prod-commissioned"] = &domain.Product{
		ID:             "prod-commissioned",
		SellerID:       strPtr("seller-1"),
		CommissionRate: 0.10,
	}
	catalog.products["prod-house"] = &domain.Product{
		ID:             "prod-house",
		CommissionRate: 0.10, // no seller: platform-owned
	}
	catalog.products["prod-free"] = &domain.Product{
		ID:       "prod-free",
		SellerID: strPtr("seller-1"),
		// zero rate
	}

	order := testOrder("ord-1", domain.StatusSucceeded)
	order.Items = []*domain.OrderItem{
		{ID: "item-1", OrderID: "ord-1", ProductID: "prod-commissioned", Quantity: 1, Amount: 1000},
		{ID: "item-2", OrderID: "ord-1", ProductID: "prod-house", Quantity: 1, Amount: 1000},
		{ID: "item-3", OrderID: "ord-1", ProductID: "prod-free", Quantity: 1, Amount: 1000},
	}
	orders := newFakeOrderRepo(order)

	mailer := &fakeMailer{}
	directory := &fakeDirectory{emails: map[string]string{"seller-1": "seller@example.com"}}
	uc := NewDefaultCommissionUsecase(orders, catalog, directory, mailer, nil)

	require.NoError(t, uc.Calculate(context.Background(), "ord-1"))

	assert.Equal(t, map[string]int64{"item-1": 100}, orders.commissionWrites)
	assert.Equal(t, "seller-1", orders.commissionSellers["item-1"])
}

func TestCalculate_ReplayWritesNothing(t *testing.T) {
	catalog := newFakeCatalogRepo()
	catalog.products["prod-1"] = &domain.Product{
		ID:             "prod-1",
		SellerID:       strPtr("seller-1"),
		CommissionRate: 0.10,
	}

	already := int64(100)
	order := testOrder("ord-1", domain.StatusSucceeded)
	order.Items = []*domain.OrderItem{
		{ID: "item-1", OrderID: "ord-1", ProductID: "prod-1", Quantity: 1, Amount: 1000, CommissionAmount: &already},
	}
	orders := newFakeOrderRepo(order)

	mailer := &fakeMailer{}
	directory := &fakeDirectory{emails: map[string]string{"seller-1": "seller@example.com"}}
	uc := NewDefaultCommissionUsecase(orders, catalog, directory, mailer, nil)

	require.NoError(t, uc.Calculate(context.Background(), "ord-1"))

	assert.Empty(t, orders.commissionWrites)
	assert.Empty(t, mailer.sent)
}

func TestCalculate_OneNotificationPerSeller(t *testing.T) {
	catalog := newFakeCatalogRepo()
	catalog.products["prod-a"] = &domain.Product{ID: "prod-a", SellerID: strPtr("seller-1"), CommissionRate: 0.10}
	catalog.products["prod-b"] = &domain.Product{ID: "prod-b", SellerID: strPtr("seller-1"), CommissionRate: 0.20}
	catalog.products["prod-c"] = &domain.Product{ID: "prod-c", SellerID: strPtr("seller-2"), CommissionRate: 0.10}

	order := testOrder("ord-1", domain.StatusSucceeded)
	order.Items = []*domain.OrderItem{
		{ID: "item-1", OrderID: "ord-1", ProductID: "prod-a", Quantity: 1, Amount: 1000},
		{ID: "item-2", OrderID: "ord-1", ProductID: "prod-b", Quantity: 1, Amount: 2000},
		{ID: "item-3", OrderID: "ord-1", ProductID: "prod-c", Quantity: 1, Amount: 500},
	}
	orders := newFakeOrderRepo(order)

	mailer := &fakeMailer{}
	directory := &fakeDirectory{emails: map[string]string{
		"seller-1": "one@example.com",
		"seller-2": "two@example.com",
	}}
	uc := NewDefaultCommissionUsecase(orders, catalog, directory, mailer, nil)

	require.NoError(t, uc.Calculate(context.Background(), "ord-1"))

	// Two sellers, two mails, regardless of item count.
	require.Len(t, mailer.sent, 2)
	recipients := []string{mailer.sent[0].To, mailer.sent[1].To}
	assert.ElementsMatch(t, []string{"one@example.com", "two@example.com"}, recipients)
}

func TestCalculate_MailFailureDoesNotFailCalculation(t *testing.T) {
	catalog := newFakeCatalogRepo()
	catalog.products["prod-1"] = &domain.Product{ID: "prod-1", SellerID: strPtr("seller-1"), CommissionRate: 0.10}

	order := testOrder("ord-1", domain.StatusSucceeded)
	order.Items = []*domain.OrderItem{
		{ID: "item-1", OrderID: "ord-1", ProductID: "prod-1", Quantity: 1, Amount: 1000},
	}
	orders := newFakeOrderRepo(order)

	mailer := &fakeMailer{err: assert.AnError}
	directory := &fakeDirectory{emails: map[string]string{"seller-1": "seller@example.com"}}
	uc := NewDefaultCommissionUsecase(orders, catalog, directory, mailer, nil)

	// Commission is the record of truth; the mail is best-effort.
	require.NoError(t, uc.Calculate(context.Background(), "ord-1"))
	assert.Equal(t, int64(100), orders.commissionWrites["item-1"])
}
