package repository

import (
	"fmt"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCatalogRepository struct {
	DB *gorm.DB
}

func NewDefaultCatalogRepository(db *gorm.DB) *DefaultCatalogRepository {
	return &DefaultCatalogRepository{DB: db}
}

func (r *DefaultCatalogRepository) GetProductByID(id string) (*domain.Product, error) {
	var model models.ProductModel
	if err := r.DB.First(&model, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return mappers.ToDomainProduct(&model), nil
}

func (r *DefaultCatalogRepository) GetPriceByID(id string) (*domain.Price, error) {
	var model models.PriceModel
	if err := r.DB.First(&model, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get price %s: %w", id, err)
	}
	return mappers.ToDomainPrice(&model), nil
}

func (r *DefaultCatalogRepository) SaveProduct(p *domain.Product) error {
	model := mappers.ToGORMProduct(p)
	return r.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
}

func (r *DefaultCatalogRepository) SavePrice(pr *domain.Price) error {
	model := mappers.ToGORMPrice(pr)
	return r.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
}

func (r *DefaultCatalogRepository) SetProductExternalID(id, externalID string) error {
	return r.DB.Model(&models.ProductModel{}).
		Where("id = ?", id).
		Update("external_id", externalID).Error
}

func (r *DefaultCatalogRepository) SetPriceExternalID(id, externalID string) error {
	return r.DB.Model(&models.PriceModel{}).
		Where("id = ?", id).
		Update("external_id", externalID).Error
}
