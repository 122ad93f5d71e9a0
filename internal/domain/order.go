package domain

import "time"

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusProcessing     OrderStatus = "processing"
	StatusRequiresAction OrderStatus = "requires_action"
	StatusSucceeded      OrderStatus = "succeeded"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRefunded       OrderStatus = "refunded"
)

// Order is a purchase transaction tracked through the status lifecycle.
// All monetary fields are minor currency units.
type Order struct {
	ID              string
	UserID          *string // nil for guest/system orders
	UserEmail       string
	Status          OrderStatus
	Amount          int64
	AmountDue       *int64
	AmountPaid      *int64
	AmountRemaining *int64
	AmountOverpaid  *int64
	Currency        string
	RefundReason    string
	RefundNotes     string
	ConfirmationURL string
	StagedCodes     []string // discount codes submitted at checkout, settled on success
	Items           []*OrderItem
	ExpiresAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID                  string
	OrderID             string
	ProductID           string
	PriceID             string
	Quantity            int32
	Amount              int64
	CommissionAmount    *int64  // set exactly once by the commission calculator
	CommissionRecipient *string // seller credited for this line
}

func (o *Order) IsGuest() bool {
	return o.UserID == nil
}

// Terminal reports whether the status may not be re-entered. Succeeded is
// terminal except for the Succeeded -> Refunded edge.
func (s OrderStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusCancelled || s == StatusRefunded
}
