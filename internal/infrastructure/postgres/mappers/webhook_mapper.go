package mappers

import (
	"encoding/json"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainWebhook(model *models.WebhookModel) *domain.Webhook {
	var headers map[string]string
	if model.Headers != "" {
		_ = json.Unmarshal([]byte(model.Headers), &headers)
	}
	var eventTypes []string
	if model.EventTypes != "" {
		_ = json.Unmarshal([]byte(model.EventTypes), &eventTypes)
	}
	return &domain.Webhook{
		ID:              model.ID,
		URL:             model.URL,
		Method:          model.Method,
		Secret:          model.Secret,
		Headers:         headers,
		PayloadTemplate: model.PayloadTemplate,
		EventTypes:      eventTypes,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMWebhook(w *domain.Webhook) *models.WebhookModel {
	var headers, eventTypes string
	if len(w.Headers) > 0 {
		b, _ := json.Marshal(w.Headers)
		headers = string(b)
	}
	if len(w.EventTypes) > 0 {
		b, _ := json.Marshal(w.EventTypes)
		eventTypes = string(b)
	}
	return &models.WebhookModel{
		ID:              w.ID,
		URL:             w.URL,
		Method:          w.Method,
		Secret:          w.Secret,
		Headers:         headers,
		PayloadTemplate: w.PayloadTemplate,
		EventTypes:      eventTypes,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func ToDomainWebhookLog(model *models.WebhookLogModel) *domain.WebhookLog {
	var headers map[string]string
	if model.RequestHeaders != "" {
		_ = json.Unmarshal([]byte(model.RequestHeaders), &headers)
	}
	return &domain.WebhookLog{
		ID:             model.ID,
		WebhookID:      model.WebhookID,
		Endpoint:       model.Endpoint,
		Method:         model.Method,
		RequestBody:    model.RequestBody,
		RequestHeaders: headers,
		CreatedAt:      model.CreatedAt,
	}
}

func ToGORMWebhookLog(l *domain.WebhookLog) *models.WebhookLogModel {
	var headers string
	if len(l.RequestHeaders) > 0 {
		b, _ := json.Marshal(l.RequestHeaders)
		headers = string(b)
	}
	return &models.WebhookLogModel{
		ID:             l.ID,
		WebhookID:      l.WebhookID,
		Endpoint:       l.Endpoint,
		Method:         l.Method,
		RequestBody:    l.RequestBody,
		RequestHeaders: headers,
		CreatedAt:      l.CreatedAt,
	}
}
