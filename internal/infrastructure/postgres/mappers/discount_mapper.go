package mappers

import (
	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainDiscount(model *models.DiscountModel) *domain.Discount {
	return &domain.Discount{
		ID:             model.ID,
		Code:           model.Code,
		Kind:           model.Kind,
		Mode:           model.Mode,
		Value:          model.Value,
		CurrentBalance: model.CurrentBalance,
		MaxUses:        model.MaxUses,
		TimesUsed:      model.TimesUsed,
		MinOrderAmount: model.MinOrderAmount,
		ExpiresAt:      model.ExpiresAt,
		ActivatedAt:    model.ActivatedAt,
		ProductID:      model.ProductID,
		UserID:         model.UserID,
		RecipientEmail: model.RecipientEmail,
		SourceOrderID:  model.SourceOrderID,
		SourceItemID:   model.SourceItemID,
		ExternalID:     model.ExternalID,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMDiscount(d *domain.Discount) *models.DiscountModel {
	return &models.DiscountModel{
		ID:             d.ID,
		Code:           d.Code,
		Kind:           d.Kind,
		Mode:           d.Mode,
		Value:          d.Value,
		CurrentBalance: d.CurrentBalance,
		MaxUses:        d.MaxUses,
		TimesUsed:      d.TimesUsed,
		MinOrderAmount: d.MinOrderAmount,
		ExpiresAt:      d.ExpiresAt,
		ActivatedAt:    d.ActivatedAt,
		ProductID:      d.ProductID,
		UserID:         d.UserID,
		RecipientEmail: d.RecipientEmail,
		SourceOrderID:  d.SourceOrderID,
		SourceItemID:   d.SourceItemID,
		ExternalID:     d.ExternalID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func ToDomainOrderDiscount(model *models.OrderDiscountModel) *domain.OrderDiscount {
	return &domain.OrderDiscount{
		ID:                 model.ID,
		OrderID:            model.OrderID,
		DiscountID:         model.DiscountID,
		AmountApplied:      model.AmountApplied,
		BalanceBefore:      model.BalanceBefore,
		BalanceAfter:       model.BalanceAfter,
		ExternalDiscountID: model.ExternalDiscountID,
		CreatedAt:          model.CreatedAt,
	}
}

func ToGORMOrderDiscount(od *domain.OrderDiscount) *models.OrderDiscountModel {
	return &models.OrderDiscountModel{
		ID:                 od.ID,
		OrderID:            od.OrderID,
		DiscountID:         od.DiscountID,
		AmountApplied:      od.AmountApplied,
		BalanceBefore:      od.BalanceBefore,
		BalanceAfter:       od.BalanceAfter,
		ExternalDiscountID: od.ExternalDiscountID,
		CreatedAt:          od.CreatedAt,
	}
}
