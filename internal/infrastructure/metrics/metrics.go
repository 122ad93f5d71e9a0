package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the settlement pipeline end to end: transitions,
// discount settlements, commissions, mirror sync and webhook delivery.
type SettlementMetrics struct {
	OrderTransitionsTotal prometheus.CounterVec
	ProviderEventsTotal   prometheus.CounterVec

	DiscountsSettledTotal       prometheus.CounterVec
	DiscountsSettledAmountTotal prometheus.CounterVec
	GiftCardsMintedTotal        prometheus.Counter
	SettleDuration              prometheus.Histogram

	CommissionsRecordedTotal prometheus.Counter
	CommissionsAmountTotal   prometheus.Counter

	MirrorSyncTotal       prometheus.CounterVec
	MirrorSyncErrorsTotal prometheus.CounterVec

	WebhookDeliveriesTotal prometheus.CounterVec

	ReactorErrorsTotal prometheus.CounterVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		OrderTransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Order status transitions, by previous and new status",
			},
			[]string{"previous_status", "new_status"},
		),

		ProviderEventsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_events_total",
				Help: "Inbound payment provider notifications, by type and outcome",
			},
			[]string{"event_type", "outcome"},
		),

		DiscountsSettledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discounts_settled_total",
				Help: "OrderDiscount rows created, by discount kind",
			},
			[]string{"kind"},
		),

		DiscountsSettledAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discounts_settled_amount_total",
				Help: "Total amount applied through discounts, minor units",
			},
			[]string{"kind"},
		),

		GiftCardsMintedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gift_cards_minted_total",
				Help: "Per-recipient gift cards minted from succeeded orders",
			},
		),

		SettleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "discount_settle_duration_seconds",
				Help:    "Duration of the per-order settlement transaction",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
		),

		CommissionsRecordedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "commissions_recorded_total",
				Help: "Order items with a commission written",
			},
		),

		CommissionsAmountTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "commissions_amount_total",
				Help: "Total commission amount recorded, minor units",
			},
		),

		MirrorSyncTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_mirror_sync_total",
				Help: "Catalog records mirrored to the payment provider",
			},
			[]string{"entity", "action"},
		),

		MirrorSyncErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_mirror_sync_errors_total",
				Help: "Failed mirror calls, by entity and action",
			},
			[]string{"entity", "action"},
		),

		WebhookDeliveriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_deliveries_total",
				Help: "Outbound webhook deliveries, by event type and outcome",
			},
			[]string{"event_type", "outcome"},
		),

		ReactorErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactor_errors_total",
				Help: "Reactor failures, by reactor name",
			},
			[]string{"reactor"},
		),
	}
}
