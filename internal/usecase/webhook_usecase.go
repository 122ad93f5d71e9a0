package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"text/template"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/metrics"
	"github.com/craftplace/settlement-service/internal/infrastructure/notifier"
	"github.com/google/uuid"
)

// WebhookUsecase delivers subscription lifecycle events to third-party
// registered endpoints. The payload is the subscriber's own template
// evaluated against the event; an empty evaluation means the subscriber
// declined to fire for this event shape and is skipped without error. The
// WebhookLog row is written before the delivery attempt so a crash
// mid-delivery still leaves the audit trail of intent.
type WebhookUsecase interface {
	Dispatch(ctx context.Context, event domain.Event) error
}

type DefaultWebhookUsecase struct {
	WebhookRepo domain.WebhookRepository
	Client      *http.Client
	Metrics     *metrics.SettlementMetrics
	Clock       domain.Clock
}

func NewDefaultWebhookUsecase(
	webhookRepo domain.WebhookRepository,
	client *http.Client,
	m *metrics.SettlementMetrics,
	clock domain.Clock) *DefaultWebhookUsecase {

	return &DefaultWebhookUsecase{
		WebhookRepo: webhookRepo,
		Client:      client,
		Metrics:     m,
		Clock:       clock,
	}
}

func (uc *DefaultWebhookUsecase) Dispatch(ctx context.Context, event domain.Event) error {
	hooks, err := uc.WebhookRepo.GetWebhooksByEventType(event.Type)
	if err != nil {
		return err
	}

	var firstErr error
	for _, hook := range hooks {
		if err := uc.deliver(ctx, hook, event); err != nil {
			slog.Error("webhook delivery failed",
				"webhook_id", hook.ID,
				"event_type", event.Type,
				"endpoint", hook.URL,
				"error", err.Error(),
			)
			uc.countDelivery(event.Type, "error")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
	}
	return firstErr
}

func (uc *DefaultWebhookUsecase) deliver(ctx context.Context, hook *domain.Webhook, event domain.Event) error {
	body, err := uc.renderPayload(hook, event)
	if err != nil {
		return fmt.Errorf("failed to render payload template: %w", err)
	}
	if len(body) == 0 {
		// Subscriber's template produced nothing for this event shape.
		uc.countDelivery(event.Type, "skipped")
		return nil
	}

	logRow := &domain.WebhookLog{
		ID:             uuid.New().String(),
		WebhookID:      hook.ID,
		Endpoint:       hook.URL,
		Method:         hook.Method,
		RequestBody:    string(body),
		RequestHeaders: notifier.RequestHeaders(hook, body),
		CreatedAt:      uc.Clock.Now(),
	}
	if err := uc.WebhookRepo.CreateWebhookLog(logRow); err != nil {
		return fmt.Errorf("failed to log webhook delivery: %w", err)
	}

	if err := notifier.Deliver(ctx, uc.Client, hook, body); err != nil {
		return err
	}
	uc.countDelivery(event.Type, "delivered")
	return nil
}

func (uc *DefaultWebhookUsecase) renderPayload(hook *domain.Webhook, event domain.Event) ([]byte, error) {
	tmpl, err := template.New("payload").Parse(hook.PayloadTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, event); err != nil {
		return nil, err
	}

	rendered := strings.TrimSpace(buf.String())
	if rendered == "" {
		return nil, nil
	}
	return []byte(rendered), nil
}

func (uc *DefaultWebhookUsecase) countDelivery(eventType, outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.WebhookDeliveriesTotal.WithLabelValues(eventType, outcome).Inc()
	}
}
