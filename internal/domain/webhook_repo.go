package domain

type WebhookRepository interface {
	CreateWebhook(w *Webhook) error
	GetWebhooksByEventType(eventType string) ([]*Webhook, error)
	CreateWebhookLog(l *WebhookLog) error
	ListWebhookLogs(webhookID string) ([]*WebhookLog, error)
}
