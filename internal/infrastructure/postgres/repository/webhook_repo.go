package repository

import (
	"fmt"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultWebhookRepository struct {
	DB *gorm.DB
}

func NewDefaultWebhookRepository(db *gorm.DB) *DefaultWebhookRepository {
	return &DefaultWebhookRepository{DB: db}
}

func (r *DefaultWebhookRepository) CreateWebhook(w *domain.Webhook) error {
	model := mappers.ToGORMWebhook(w)
	if err := r.DB.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	return nil
}

// GetWebhooksByEventType matches on the JSON-encoded event type list. The
// subscriber set is small; filtering happens in memory after a coarse LIKE.
func (r *DefaultWebhookRepository) GetWebhooksByEventType(eventType string) ([]*domain.Webhook, error) {
	var rows []models.WebhookModel
	if err := r.DB.Where("event_types LIKE ?", "%"+eventType+"%").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find webhooks: %w", err)
	}

	var hooks []*domain.Webhook
	for i := range rows {
		hook := mappers.ToDomainWebhook(&rows[i])
		if hook.SubscribedTo(eventType) {
			hooks = append(hooks, hook)
		}
	}
	return hooks, nil
}

func (r *DefaultWebhookRepository) CreateWebhookLog(l *domain.WebhookLog) error {
	model := mappers.ToGORMWebhookLog(l)
	if err := r.DB.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create webhook log: %w", err)
	}
	return nil
}

func (r *DefaultWebhookRepository) ListWebhookLogs(webhookID string) ([]*domain.WebhookLog, error) {
	var rows []models.WebhookLogModel
	if err := r.DB.Where("webhook_id = ?", webhookID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list webhook logs: %w", err)
	}
	logs := make([]*domain.WebhookLog, len(rows))
	for i := range rows {
		logs[i] = mappers.ToDomainWebhookLog(&rows[i])
	}
	return logs, nil
}
