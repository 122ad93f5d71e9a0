package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/craftplace/settlement-service/internal/domain"
	publisher "github.com/craftplace/settlement-service/internal/infrastructure/kafka"
	"github.com/craftplace/settlement-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// OrderUsecase is the authoritative order state machine: every status change
// routes through SetStatus, which computes the before/after delta itself and
// emits exactly one domain event per actual change.
type OrderUsecase interface {
	GetOrderByID(orderID string) (*domain.Order, error)
	SetStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error
	HandleProviderEvent(ctx context.Context, eventType string, payload []byte) error
	CancelExpiredOrders(ctx context.Context) error
}

type DefaultOrderUsecase struct {
	OrderRepo domain.OrderRepository
	Publisher domain.PublisherPort
	Metrics   *metrics.SettlementMetrics
	Clock     domain.Clock
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	pub domain.PublisherPort,
	m *metrics.SettlementMetrics,
	clock domain.Clock) *DefaultOrderUsecase {

	return &DefaultOrderUsecase{
		OrderRepo: orderRepo,
		Publisher: pub,
		Metrics:   m,
		Clock:     clock,
	}
}

// eventTypeForStatus maps a new status to the single event it emits. Unknown
// statuses map to "" and emit nothing, so newer status values flow through
// without breaking older deployments.
func eventTypeForStatus(s domain.OrderStatus) string {
	switch s {
	case domain.StatusPending:
		return domain.EventOrderPending
	case domain.StatusProcessing:
		return domain.EventOrderProcessing
	case domain.StatusRequiresAction:
		return domain.EventOrderRequiresAction
	case domain.StatusSucceeded:
		return domain.EventOrderSucceeded
	case domain.StatusCancelled:
		return domain.EventOrderCancelled
	case domain.StatusRefunded:
		return domain.EventOrderRefunded
	}
	return ""
}

func (uc *DefaultOrderUsecase) GetOrderByID(orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(orderID)
}

// transitionAllowed is the lifecycle rule for leaving a state: non-terminal
// states move freely, terminal states only on the Succeeded -> Refunded edge.
func transitionAllowed(from, to domain.OrderStatus) bool {
	if !from.Terminal() {
		return true
	}
	return from == domain.StatusSucceeded && to == domain.StatusRefunded
}

func (uc *DefaultOrderUsecase) SetStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}

	previous := order.Status
	if previous == newStatus {
		// Idempotent no-op: replayed notifications land here.
		return nil
	}
	if !transitionAllowed(previous, newStatus) {
		// Out-of-order notification. Terminal states only move again on
		// Succeeded -> Refunded; anything else is dropped, not applied.
		slog.Warn("ignoring transition out of terminal state",
			"order_id", orderID, "from", string(previous), "to", string(newStatus))
		return nil
	}

	if err := uc.OrderRepo.UpdateOrderStatus(orderID, newStatus); err != nil {
		return fmt.Errorf("failed to transition order %s: %w", orderID, err)
	}

	if uc.Metrics != nil {
		uc.Metrics.OrderTransitionsTotal.WithLabelValues(string(previous), string(newStatus)).Inc()
	}

	eventType := eventTypeForStatus(newStatus)
	if eventType == "" {
		return nil
	}

	order.Status = newStatus
	return uc.publishOrderEvent(eventType, order, previous)
}

func (uc *DefaultOrderUsecase) publishOrderEvent(eventType string, order *domain.Order, previous domain.OrderStatus) error {
	event := domain.Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: uc.Clock.Now(),
		Order: &domain.OrderEventData{
			OrderID:         order.ID,
			UserID:          order.UserID,
			UserEmail:       order.UserEmail,
			PreviousStatus:  previous,
			NewStatus:       order.Status,
			Amount:          order.Amount,
			Currency:        order.Currency,
			ConfirmationURL: order.ConfirmationURL,
			RefundReason:    order.RefundReason,
			RefundNotes:     order.RefundNotes,
		},
	}

	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	if err := uc.Publisher.Publish(publisher.TopicOrderEvents, domain.Message{Key: []byte(order.ID), Value: v}); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// Provider notification payload. The processor's protocol is consumed as an
// opaque event source; only the fields the pipeline needs are decoded.
type ProviderEventPayload struct {
	OrderID         string  `json:"order_id"`
	CustomerID      string  `json:"customer_id"`
	SubscriptionID  string  `json:"subscription_id"`
	ProductID       string  `json:"product_id"`
	UserID          *string `json:"user_id"`
	Email           string  `json:"email"`
	Status          string  `json:"status"`
	ConfirmationURL string  `json:"confirmation_url"`
	Reason          string  `json:"reason"`
	Notes           string  `json:"notes"`
	Amount          int64   `json:"amount"`
	DisputeID       string  `json:"dispute_id"`
}

// Inbound event types consumed from the payment processor.
const (
	ProviderPaymentSucceeded      = "invoice.payment_succeeded"
	ProviderPaymentActionRequired = "invoice.payment_action_required"
	ProviderRefundCreated         = "charge.refunded"
	ProviderDisputeCreated        = "charge.dispute.created"
	ProviderSubscriptionCreated   = "customer.subscription.created"
	ProviderSubscriptionUpdated   = "customer.subscription.updated"
	ProviderSubscriptionDeleted   = "customer.subscription.deleted"
	ProviderCustomerUpdated       = "customer.updated"
	ProviderCustomerDeleted       = "customer.deleted"
)

// HandleProviderEvent reconciles the local state machine against an inbound
// processor notification. The comparison against the current status is the
// idempotency guard: replays of an already-applied notification are no-ops.
func (uc *DefaultOrderUsecase) HandleProviderEvent(ctx context.Context, eventType string, payload []byte) error {
	var p ProviderEventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("failed to decode provider event %s: %w", eventType, err)
	}

	outcome := "applied"
	var err error

	switch eventType {
	case ProviderPaymentSucceeded:
		outcome, err = uc.reconcileStatus(ctx, p.OrderID, domain.StatusSucceeded, nil)

	case ProviderPaymentActionRequired:
		outcome, err = uc.reconcileStatus(ctx, p.OrderID, domain.StatusRequiresAction, func() error {
			return uc.OrderRepo.UpdateOrderConfirmationURL(p.OrderID, p.ConfirmationURL)
		})

	case ProviderRefundCreated:
		outcome, err = uc.reconcileStatus(ctx, p.OrderID, domain.StatusRefunded, func() error {
			return uc.OrderRepo.UpdateOrderRefundDetails(p.OrderID, p.Reason, p.Notes)
		})

	case ProviderDisputeCreated:
		err = uc.publishEvent(publisher.TopicDisputeEvents, domain.Event{
			ID:         uuid.New().String(),
			Type:       domain.EventDisputeCreated,
			OccurredAt: uc.Clock.Now(),
			Dispute: &domain.DisputeData{
				DisputeID: p.DisputeID,
				OrderID:   p.OrderID,
				UserID:    p.UserID,
				Amount:    p.Amount,
				Reason:    p.Reason,
			},
		})

	case ProviderSubscriptionCreated, ProviderSubscriptionUpdated, ProviderSubscriptionDeleted:
		err = uc.publishEvent(publisher.TopicSubscriptionEvents, domain.Event{
			ID:         uuid.New().String(),
			Type:       subscriptionEventType(eventType),
			OccurredAt: uc.Clock.Now(),
			Subscription: &domain.SubscriptionData{
				SubscriptionID: p.SubscriptionID,
				UserID:         p.UserID,
				ProductID:      p.ProductID,
				Status:         p.Status,
			},
		})

	case ProviderCustomerUpdated, ProviderCustomerDeleted:
		t := domain.EventCustomerUpdated
		if eventType == ProviderCustomerDeleted {
			t = domain.EventCustomerDeleted
		}
		err = uc.publishEvent(publisher.TopicSubscriptionEvents, domain.Event{
			ID:         uuid.New().String(),
			Type:       t,
			OccurredAt: uc.Clock.Now(),
			Customer: &domain.CustomerData{
				CustomerID: p.CustomerID,
				UserID:     p.UserID,
				Email:      p.Email,
			},
		})

	default:
		// Forward-compatible: newer processor event types are not an error.
		slog.Debug("ignoring unknown provider event", "event_type", eventType)
		outcome = "ignored"
	}

	if uc.Metrics != nil {
		uc.Metrics.ProviderEventsTotal.WithLabelValues(eventType, outcome).Inc()
	}
	return err
}

// reconcileStatus drives the order to target unless it is already there.
// beforeTransition captures event-specific fields on the order row first so
// the emitted event carries them.
func (uc *DefaultOrderUsecase) reconcileStatus(ctx context.Context, orderID string, target domain.OrderStatus, beforeTransition func() error) (string, error) {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return "error", err
	}
	if order.Status == target {
		return "noop", nil
	}
	if !transitionAllowed(order.Status, target) {
		// Replayed or out-of-order notification for a terminal order.
		return "noop", nil
	}
	if beforeTransition != nil {
		if err := beforeTransition(); err != nil {
			return "error", err
		}
	}
	if err := uc.SetStatus(ctx, orderID, target); err != nil {
		return "error", err
	}
	return "applied", nil
}

func (uc *DefaultOrderUsecase) publishEvent(topic string, event domain.Event) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return uc.Publisher.Publish(topic, domain.Message{Key: publisher.EventKey(event), Value: v})
}

func subscriptionEventType(providerType string) string {
	switch providerType {
	case ProviderSubscriptionCreated:
		return domain.EventSubscriptionCreated
	case ProviderSubscriptionUpdated:
		return domain.EventSubscriptionUpdated
	default:
		return domain.EventSubscriptionDeleted
	}
}

// CancelExpiredOrders drives pending orders past their expiry window to
// Cancelled. Run from a ticker in main.
func (uc *DefaultOrderUsecase) CancelExpiredOrders(ctx context.Context) error {
	orders, err := uc.OrderRepo.FindExpiredOrders()
	if err != nil {
		return err
	}
	for _, order := range orders {
		if err := uc.SetStatus(ctx, order.ID, domain.StatusCancelled); err != nil {
			slog.Error("failed to cancel expired order", "order_id", order.ID, "error", err.Error())
		}
	}
	return nil
}
