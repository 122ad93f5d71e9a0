package models

import (
	"time"

	"github.com/craftplace/settlement-service/internal/domain"
)

type OrderModel struct {
	ID              string  `gorm:"primaryKey;type:uuid"`
	UserID          *string `gorm:"type:uuid;index"`
	UserEmail       string
	Status          domain.OrderStatus `gorm:"index:idx_status_expires"`
	Amount          int64
	AmountDue       *int64
	AmountPaid      *int64
	AmountRemaining *int64
	AmountOverpaid  *int64
	Currency        string
	RefundReason    string
	RefundNotes     string
	ConfirmationURL string
	StagedCodes     string           `gorm:"type:text"` // JSON array of discount codes
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ExpiresAt       time.Time        `gorm:"index:idx_status_expires"`
	CreatedAt       time.Time        `gorm:"index:idx_created_at"`
	UpdatedAt       time.Time
}

type OrderItemModel struct {
	ID                  string `gorm:"primaryKey;type:uuid"`
	OrderID             string `gorm:"type:uuid;not null;index"`
	ProductID           string `gorm:"not null;index"`
	PriceID             string
	Quantity            int32 `gorm:"not null"`
	Amount              int64 `gorm:"not null"`
	CommissionAmount    *int64
	CommissionRecipient *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
