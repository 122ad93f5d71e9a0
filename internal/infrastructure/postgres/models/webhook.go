package models

import "time"

type WebhookModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	URL             string `gorm:"not null"`
	Method          string `gorm:"not null;default:POST"`
	Secret          string
	Headers         string `gorm:"type:text"` // JSON object
	PayloadTemplate string `gorm:"type:text"`
	EventTypes      string `gorm:"type:text"` // JSON array
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type WebhookLogModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	WebhookID      string `gorm:"type:uuid;not null;index"`
	Endpoint       string `gorm:"not null"`
	Method         string `gorm:"not null"`
	RequestBody    string `gorm:"type:text"`
	RequestHeaders string `gorm:"type:text"` // JSON object
	CreatedAt      time.Time
}
