package domain

import "time"

// Product is the read-model of the catalog this service consumes: enough to
// compute commissions, mint template gift cards and mirror records to the
// payment provider. The catalog itself is owned elsewhere.
type Product struct {
	ID             string
	Name           string
	Description    string
	SellerID       *string
	CommissionRate float64 // fraction of the item amount owed to the seller
	GroupID        *string // entitlement group granted on purchase
	Active         bool
	ExternalID     string // product id at the payment provider
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Price struct {
	ID         string
	ProductID  string
	UnitAmount int64
	Currency   string
	Recurring  bool
	ExternalID string // price id at the payment provider
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
