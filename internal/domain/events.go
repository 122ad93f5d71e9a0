package domain

import "time"

// Domain event types carried on the event bus. Each status transition of an
// order emits exactly one of the order.* events.
const (
	EventOrderPending        = "order.pending"
	EventOrderProcessing     = "order.processing"
	EventOrderRequiresAction = "order.requires_action"
	EventOrderSucceeded      = "order.succeeded"
	EventOrderCancelled      = "order.cancelled"
	EventOrderRefunded       = "order.refunded"

	EventDiscountCreated = "discount.created"

	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"

	EventCustomerUpdated = "customer.updated"
	EventCustomerDeleted = "customer.deleted"

	EventDisputeCreated = "dispute.created"
)

type Event struct {
	ID           string             `json:"id"`
	Type         string             `json:"type"`
	OccurredAt   time.Time          `json:"occurred_at"`
	Order        *OrderEventData    `json:"order,omitempty"`
	Discount     *DiscountEventData `json:"discount,omitempty"`
	Subscription *SubscriptionData  `json:"subscription,omitempty"`
	Customer     *CustomerData      `json:"customer,omitempty"`
	Dispute      *DisputeData       `json:"dispute,omitempty"`
}

type OrderEventData struct {
	OrderID         string      `json:"order_id"`
	UserID          *string     `json:"user_id,omitempty"`
	UserEmail       string      `json:"user_email,omitempty"`
	PreviousStatus  OrderStatus `json:"previous_status"`
	NewStatus       OrderStatus `json:"new_status"`
	Amount          int64       `json:"amount"`
	Currency        string      `json:"currency"`
	ConfirmationURL string      `json:"confirmation_url,omitempty"`
	RefundReason    string      `json:"refund_reason,omitempty"`
	RefundNotes     string      `json:"refund_notes,omitempty"`
}

type DiscountEventData struct {
	DiscountID     string       `json:"discount_id"`
	Code           string       `json:"code"`
	Kind           DiscountKind `json:"kind"`
	Value          int64        `json:"value"`
	RecipientEmail string       `json:"recipient_email,omitempty"`
}

type SubscriptionData struct {
	SubscriptionID string  `json:"subscription_id"`
	UserID         *string `json:"user_id,omitempty"`
	ProductID      string  `json:"product_id,omitempty"`
	Status         string  `json:"status,omitempty"`
}

type CustomerData struct {
	CustomerID string  `json:"customer_id"`
	UserID     *string `json:"user_id,omitempty"`
	Email      string  `json:"email,omitempty"`
}

type DisputeData struct {
	DisputeID string  `json:"dispute_id"`
	OrderID   string  `json:"order_id"`
	UserID    *string `json:"user_id,omitempty"`
	Amount    int64   `json:"amount"`
	Reason    string  `json:"reason,omitempty"`
}
