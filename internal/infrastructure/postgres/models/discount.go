package models

import (
	"time"

	"github.com/craftplace/settlement-service/internal/domain"
)

type DiscountModel struct {
	ID             string              `gorm:"primaryKey;type:uuid"`
	Code           string              `gorm:"uniqueIndex;not null"`
	Kind           domain.DiscountKind `gorm:"not null;index"`
	Mode           domain.DiscountMode `gorm:"not null"`
	Value          int64               `gorm:"not null"`
	CurrentBalance *int64
	MaxUses        *int32
	TimesUsed      int32 `gorm:"not null;default:0"`
	MinOrderAmount *int64
	ExpiresAt      *time.Time
	ActivatedAt    *time.Time
	ProductID      *string `gorm:"index"`
	UserID         *string `gorm:"type:uuid;index"`
	RecipientEmail string
	SourceOrderID  *string `gorm:"type:uuid;index:idx_minted_source"`
	SourceItemID   *string `gorm:"type:uuid;index:idx_minted_source"`
	ExternalID     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type OrderDiscountModel struct {
	ID                 string `gorm:"primaryKey;type:uuid"`
	OrderID            string `gorm:"type:uuid;not null;uniqueIndex:ux_order_discount"`
	DiscountID         string `gorm:"type:uuid;not null;uniqueIndex:ux_order_discount"`
	AmountApplied      int64  `gorm:"not null"`
	BalanceBefore      *int64
	BalanceAfter       *int64
	ExternalDiscountID string
	CreatedAt          time.Time
}
