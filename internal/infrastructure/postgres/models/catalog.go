package models

import "time"

type ProductModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Name           string `gorm:"not null"`
	Description    string
	SellerID       *string `gorm:"type:uuid;index"`
	CommissionRate float64 `gorm:"not null;default:0"`
	GroupID        *string
	Active         bool `gorm:"not null;default:true"`
	ExternalID     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PriceModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	ProductID  string `gorm:"type:uuid;not null;index"`
	UnitAmount int64  `gorm:"not null"`
	Currency   string `gorm:"not null"`
	Recurring  bool   `gorm:"not null;default:false"`
	ExternalID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
