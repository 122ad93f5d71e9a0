package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/craftplace/settlement-service/internal/domain"
)

// Deliver performs one signed webhook delivery. The caller has already
// written the WebhookLog row; this function only talks to the subscriber.
func Deliver(ctx context.Context, client *http.Client, hook *domain.Webhook, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, hook.Method, hook.URL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range hook.Headers {
		req.Header.Set(k, v)
	}
	if hook.Secret != "" {
		req.Header.Set("X-Signature", Sign(hook.Secret, body))
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery to %s failed: %w", hook.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned status %d", hook.URL, resp.StatusCode)
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 of the payload under the subscriber's
// secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// RequestHeaders reproduces the header set of a delivery for the audit log.
func RequestHeaders(hook *domain.Webhook, body []byte) map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range hook.Headers {
		headers[k] = v
	}
	if hook.Secret != "" {
		headers["X-Signature"] = Sign(hook.Secret, body)
	}
	return headers
}
