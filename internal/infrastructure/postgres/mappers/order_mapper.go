package mappers

import (
	"encoding/json"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	var codes []string
	if model.StagedCodes != "" {
		_ = json.Unmarshal([]byte(model.StagedCodes), &codes)
	}
	items := make([]*domain.OrderItem, len(model.Items))
	for i := range model.Items {
		items[i] = ToDomainOrderItem(&model.Items[i])
	}
	return &domain.Order{
		ID:              model.ID,
		UserID:          model.UserID,
		UserEmail:       model.UserEmail,
		Status:          model.Status,
		Amount:          model.Amount,
		AmountDue:       model.AmountDue,
		AmountPaid:      model.AmountPaid,
		AmountRemaining: model.AmountRemaining,
		AmountOverpaid:  model.AmountOverpaid,
		Currency:        model.Currency,
		RefundReason:    model.RefundReason,
		RefundNotes:     model.RefundNotes,
		ConfirmationURL: model.ConfirmationURL,
		StagedCodes:     codes,
		Items:           items,
		ExpiresAt:       model.ExpiresAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToDomainOrderItem(model *models.OrderItemModel) *domain.OrderItem {
	return &domain.OrderItem{
		ID:                  model.ID,
		OrderID:             model.OrderID,
		ProductID:           model.ProductID,
		PriceID:             model.PriceID,
		Quantity:            model.Quantity,
		Amount:              model.Amount,
		CommissionAmount:    model.CommissionAmount,
		CommissionRecipient: model.CommissionRecipient,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	var codes string
	if len(order.StagedCodes) > 0 {
		b, _ := json.Marshal(order.StagedCodes)
		codes = string(b)
	}
	items := make([]models.OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = *ToGORMOrderItem(item)
	}
	return &models.OrderModel{
		ID:              order.ID,
		UserID:          order.UserID,
		UserEmail:       order.UserEmail,
		Status:          order.Status,
		Amount:          order.Amount,
		AmountDue:       order.AmountDue,
		AmountPaid:      order.AmountPaid,
		AmountRemaining: order.AmountRemaining,
		AmountOverpaid:  order.AmountOverpaid,
		Currency:        order.Currency,
		RefundReason:    order.RefundReason,
		RefundNotes:     order.RefundNotes,
		ConfirmationURL: order.ConfirmationURL,
		StagedCodes:     codes,
		Items:           items,
		ExpiresAt:       order.ExpiresAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func ToGORMOrderItem(item *domain.OrderItem) *models.OrderItemModel {
	return &models.OrderItemModel{
		ID:                  item.ID,
		OrderID:             item.OrderID,
		ProductID:           item.ProductID,
		PriceID:             item.PriceID,
		Quantity:            item.Quantity,
		Amount:              item.Amount,
		CommissionAmount:    item.CommissionAmount,
		CommissionRecipient: item.CommissionRecipient,
	}
}
