package mappers

import (
	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainProduct(model *models.ProductModel) *domain.Product {
	return &domain.Product{
		ID:             model.ID,
		Name:           model.Name,
		Description:    model.Description,
		SellerID:       model.SellerID,
		CommissionRate: model.CommissionRate,
		GroupID:        model.GroupID,
		Active:         model.Active,
		ExternalID:     model.ExternalID,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMProduct(p *domain.Product) *models.ProductModel {
	return &models.ProductModel{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		SellerID:       p.SellerID,
		CommissionRate: p.CommissionRate,
		GroupID:        p.GroupID,
		Active:         p.Active,
		ExternalID:     p.ExternalID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func ToDomainPrice(model *models.PriceModel) *domain.Price {
	return &domain.Price{
		ID:         model.ID,
		ProductID:  model.ProductID,
		UnitAmount: model.UnitAmount,
		Currency:   model.Currency,
		Recurring:  model.Recurring,
		ExternalID: model.ExternalID,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func ToGORMPrice(pr *domain.Price) *models.PriceModel {
	return &models.PriceModel{
		ID:         pr.ID,
		ProductID:  pr.ProductID,
		UnitAmount: pr.UnitAmount,
		Currency:   pr.Currency,
		Recurring:  pr.Recurring,
		ExternalID: pr.ExternalID,
		CreatedAt:  pr.CreatedAt,
		UpdatedAt:  pr.UpdatedAt,
	}
}
