package domain

import "time"

// Webhook is a third-party-registered delivery target with its own payload
// template and signing secret.
type Webhook struct {
	ID              string
	URL             string
	Method          string
	Secret          string
	Headers         map[string]string
	PayloadTemplate string
	EventTypes      []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (w *Webhook) SubscribedTo(eventType string) bool {
	for _, t := range w.EventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

// WebhookLog is one row per delivery attempt: an audit trail, not a retry
// queue. Written before the outbound call so a crash mid-delivery still
// leaves a record of intent.
type WebhookLog struct {
	ID             string
	WebhookID      string
	Endpoint       string
	Method         string
	RequestBody    string
	RequestHeaders map[string]string
	CreatedAt      time.Time
}
