package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.Create(orderModel).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) UpdateOrderStatus(orderID string, newStatus domain.OrderStatus) error {
	res := r.DB.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("status", newStatus)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *DefaultOrderRepository) UpdateOrderRefundDetails(orderID, reason, notes string) error {
	return r.DB.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"refund_reason": reason,
			"refund_notes":  notes,
		}).Error
}

func (r *DefaultOrderRepository) UpdateOrderConfirmationURL(orderID, url string) error {
	return r.DB.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("confirmation_url", url).Error
}

func (r *DefaultOrderRepository) UpdateStagedCodes(orderID string, codes []string) error {
	encoded := ""
	if len(codes) > 0 {
		b, err := json.Marshal(codes)
		if err != nil {
			return err
		}
		encoded = string(b)
	}
	return r.DB.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("staged_codes", encoded).Error
}

// SetItemCommission writes the commission exactly once: the guard on the
// still-unset column makes concurrent or replayed calculations no-ops.
func (r *DefaultOrderRepository) SetItemCommission(itemID string, amount int64, recipient string) error {
	res := r.DB.Model(&models.OrderItemModel{}).
		Where("id = ? AND commission_amount IS NULL", itemID).
		Updates(map[string]interface{}{
			"commission_amount":    amount,
			"commission_recipient": recipient,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to set item commission: %w", res.Error)
	}
	return nil
}

func (r *DefaultOrderRepository) FindExpiredOrders() ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.Preload("Items").
		Where("status = ? AND expires_at < ?", domain.StatusPending, time.Now()).
		Find(&orderModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired orders: %w", err)
	}

	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders, nil
}
