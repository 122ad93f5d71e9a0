package repository

import (
	"fmt"
	"time"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultDiscountRepository struct {
	DB *gorm.DB
}

func NewDefaultDiscountRepository(db *gorm.DB) *DefaultDiscountRepository {
	return &DefaultDiscountRepository{DB: db}
}

func (r *DefaultDiscountRepository) CreateDiscount(d *domain.Discount) error {
	model := mappers.ToGORMDiscount(d)
	if err := r.DB.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create discount: %w", err)
	}
	return nil
}

func (r *DefaultDiscountRepository) GetDiscountByID(id string) (*domain.Discount, error) {
	var model models.DiscountModel
	if err := r.DB.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDiscountNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDiscount(&model), nil
}

func (r *DefaultDiscountRepository) GetDiscountByCode(code string) (*domain.Discount, error) {
	var model models.DiscountModel
	if err := r.DB.First(&model, "code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDiscountNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDiscount(&model), nil
}

// GetTemplateByProductID resolves the template discount of a purchasable
// gift-card product: attached to the product and owned by nobody.
func (r *DefaultDiscountRepository) GetTemplateByProductID(productID string) (*domain.Discount, error) {
	var model models.DiscountModel
	err := r.DB.First(&model, "product_id = ? AND user_id IS NULL", productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDiscountNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDiscount(&model), nil
}

func (r *DefaultDiscountRepository) CodeExists(code string) (bool, error) {
	var count int64
	if err := r.DB.Model(&models.DiscountModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultDiscountRepository) SetExternalID(discountID, externalID string) error {
	return r.DB.Model(&models.DiscountModel{}).
		Where("id = ?", discountID).
		Update("external_id", externalID).Error
}

func (r *DefaultDiscountRepository) GetOrderDiscount(orderID, discountID string) (*domain.OrderDiscount, error) {
	var model models.OrderDiscountModel
	err := r.DB.First(&model, "order_id = ? AND discount_id = ?", orderID, discountID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainOrderDiscount(&model), nil
}

func (r *DefaultDiscountRepository) ListOrderDiscounts(orderID string) ([]*domain.OrderDiscount, error) {
	var rows []models.OrderDiscountModel
	if err := r.DB.Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list order discounts: %w", err)
	}
	out := make([]*domain.OrderDiscount, len(rows))
	for i := range rows {
		out[i] = mappers.ToDomainOrderDiscount(&rows[i])
	}
	return out, nil
}

// SettleOrderDiscounts applies the computed discount stack of one order as a
// single transaction. Gift-card rows are re-read under FOR UPDATE and the
// applied amount is re-capped to the live balance, so two orders spending the
// same card serialize on it instead of both settling a stale snapshot. An
// existing (order, discount) row short-circuits that discount: settlement
// replays never double-spend.
func (r *DefaultDiscountRepository) SettleOrderDiscounts(orderID string, applied []*domain.AppliedDiscount) ([]*domain.OrderDiscount, error) {
	var settled []*domain.OrderDiscount

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, ad := range applied {
			var existing models.OrderDiscountModel
			err := tx.First(&existing, "order_id = ? AND discount_id = ?", orderID, ad.Discount.ID).Error
			if err == nil {
				settled = append(settled, mappers.ToDomainOrderDiscount(&existing))
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}

			row := models.OrderDiscountModel{
				ID:                 uuid.New().String(),
				OrderID:            orderID,
				DiscountID:         ad.Discount.ID,
				AmountApplied:      ad.Amount,
				ExternalDiscountID: ad.Discount.ExternalID,
				CreatedAt:          time.Now(),
			}

			if ad.Discount.BalanceBearing() {
				// Row lock serializes concurrent settlements spending the
				// same card. SQLite (tests) serializes whole transactions
				// and has no FOR UPDATE.
				q := tx
				if tx.Dialector.Name() == "postgres" {
					q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
				}
				var card models.DiscountModel
				if err := q.First(&card, "id = ?", ad.Discount.ID).Error; err != nil {
					return fmt.Errorf("failed to lock gift card %s: %w", ad.Discount.ID, err)
				}

				balanceBefore := int64(0)
				if card.CurrentBalance != nil {
					balanceBefore = *card.CurrentBalance
				}
				// The stack was priced from a snapshot; another order may
				// have spent the card since. Only the live balance counts.
				amount := ad.Amount
				if amount > balanceBefore {
					amount = balanceBefore
				}
				if amount <= 0 {
					continue
				}
				balanceAfter := balanceBefore - amount
				row.AmountApplied = amount
				row.BalanceBefore = &balanceBefore
				row.BalanceAfter = &balanceAfter

				if err := tx.Model(&models.DiscountModel{}).
					Where("id = ?", card.ID).
					Updates(map[string]interface{}{
						"current_balance": balanceAfter,
						"times_used":      gorm.Expr("times_used + 1"),
					}).Error; err != nil {
					return fmt.Errorf("failed to decrement gift card balance: %w", err)
				}
			} else {
				if err := tx.Model(&models.DiscountModel{}).
					Where("id = ?", ad.Discount.ID).
					Update("times_used", gorm.Expr("times_used + 1")).Error; err != nil {
					return fmt.Errorf("failed to bump discount usage: %w", err)
				}
			}

			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create order discount: %w", err)
			}
			settled = append(settled, mappers.ToDomainOrderDiscount(&row))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("settlement failed for order %s: %w", orderID, err)
	}

	return settled, nil
}

func (r *DefaultDiscountRepository) CountMintedCards(orderID, itemID string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.DiscountModel{}).
		Where("source_order_id = ? AND source_item_id = ?", orderID, itemID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count minted cards: %w", err)
	}
	return count, nil
}
