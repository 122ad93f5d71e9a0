package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/craftplace/settlement-service/internal/domain"
	publisher "github.com/craftplace/settlement-service/internal/infrastructure/kafka"
	"github.com/craftplace/settlement-service/internal/infrastructure/metrics"
)

// EventWorker consumes domain events from the bus and fans them out to the
// registered reactors. Reactors are independent: one failing is logged and
// counted but never blocks the others. The queue redelivers on failure, so
// every reactor is written to tolerate replays.
type EventWorker struct {
	Subscriber domain.SubscriberPort
	GroupID    string
	Metrics    *metrics.SettlementMetrics

	reactors map[string][]Reactor
}

func NewEventWorker(sub domain.SubscriberPort, groupID string, m *metrics.SettlementMetrics) *EventWorker {
	return &EventWorker{
		Subscriber: sub,
		GroupID:    groupID,
		Metrics:    m,
		reactors:   make(map[string][]Reactor),
	}
}

func (w *EventWorker) Register(reactors ...Reactor) {
	for _, r := range reactors {
		for _, t := range r.EventTypes() {
			w.reactors[t] = append(w.reactors[t], r)
		}
	}
}

var workerTopics = []string{
	publisher.TopicOrderEvents,
	publisher.TopicDiscountEvents,
	publisher.TopicSubscriptionEvents,
	publisher.TopicDisputeEvents,
}

func (w *EventWorker) Start(ctx context.Context) {
	for _, topic := range workerTopics {
		msgs, err := w.Subscriber.Subscribe(topic, w.GroupID)
		if err != nil {
			slog.Error("failed to subscribe", "topic", topic, "error", err.Error())
			continue
		}
		go w.consume(ctx, topic, msgs)
	}
}

func (w *EventWorker) consume(ctx context.Context, topic string, msgs <-chan domain.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				slog.Warn("event stream closed", "topic", topic)
				return
			}
			var event domain.Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				slog.Error("failed to decode event", "topic", topic, "error", err.Error())
				continue
			}
			w.HandleEvent(ctx, event)
		}
	}
}

// eventPayloadPresent reports whether the envelope carries the object its
// type promises. Reactors dereference that object, so an event missing it is
// dropped before fan-out instead of panicking the consumer.
func eventPayloadPresent(event domain.Event) bool {
	switch {
	case strings.HasPrefix(event.Type, "order."):
		return event.Order != nil
	case strings.HasPrefix(event.Type, "discount."):
		return event.Discount != nil
	case strings.HasPrefix(event.Type, "subscription."):
		return event.Subscription != nil
	case strings.HasPrefix(event.Type, "customer."):
		return event.Customer != nil
	case strings.HasPrefix(event.Type, "dispute."):
		return event.Dispute != nil
	}
	return true
}

// HandleEvent runs every reactor registered for the event type. Exported for
// in-process dispatch in tests.
func (w *EventWorker) HandleEvent(ctx context.Context, event domain.Event) {
	if !eventPayloadPresent(event) {
		slog.Error("dropping event without payload", "event_type", event.Type, "event_id", event.ID)
		return
	}
	for _, r := range w.reactors[event.Type] {
		if err := r.Handle(ctx, event); err != nil {
			slog.Error("reactor failed",
				"reactor", r.Name(),
				"event_type", event.Type,
				"event_id", event.ID,
				"error", err.Error(),
			)
			if w.Metrics != nil {
				w.Metrics.ReactorErrorsTotal.WithLabelValues(r.Name()).Inc()
			}
		}
	}
}

// ProviderWorker consumes the payment processor's inbound notifications and
// feeds them to the order state machine for reconciliation.
type ProviderWorker struct {
	Subscriber domain.SubscriberPort
	GroupID    string
	Orders     OrderUsecase
}

func NewProviderWorker(sub domain.SubscriberPort, groupID string, orders OrderUsecase) *ProviderWorker {
	return &ProviderWorker{
		Subscriber: sub,
		GroupID:    groupID,
		Orders:     orders,
	}
}

type providerNotification struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (w *ProviderWorker) Start(ctx context.Context) error {
	msgs, err := w.Subscriber.Subscribe(publisher.TopicProviderEvents, w.GroupID)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Warn("provider event stream closed")
					return
				}
				var n providerNotification
				if err := json.Unmarshal(msg.Value, &n); err != nil {
					slog.Error("failed to decode provider notification", "error", err.Error())
					continue
				}
				if err := w.Orders.HandleProviderEvent(ctx, n.Type, n.Data); err != nil {
					slog.Error("failed to handle provider event", "event_type", n.Type, "error", err.Error())
				}
			}
		}
	}()
	return nil
}
