// Package notification delivers outbound event notifications to an
// automation webhook (n8n or similar). Delivery is fire-and-forget: a
// failed notification is logged and dropped, never retried into the
// request path.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/marealta/backend/internal/infrastructure/config"
	"github.com/marealta/backend/internal/infrastructure/logger"
)

// Event is the envelope posted to the webhook
type Event struct {
	Type      string      `json:"type"`
	TenantID  string      `json:"tenant_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Notifier posts events to the configured webhook
type Notifier struct {
	url     string
	enabled bool
	client  *http.Client
}

// NewNotifier creates a Notifier from webhook configuration
func NewNotifier(cfg *config.WebhookConfig) *Notifier {
	return &Notifier{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Notify posts an event asynchronously. The caller's context is only
// used for logging; delivery runs on its own timeout so a finished
// request cannot cancel it.
func (n *Notifier) Notify(ctx context.Context, eventType string, payload interface{}) {
	if !n.enabled {
		return
	}

	event := Event{
		Type:      eventType,
		TenantID:  logger.GetTenantID(ctx).String(),
		Timestamp: time.Now(),
		Payload:   payload,
	}
	log := logger.L(ctx).Zap()

	go func() {
		body, err := json.Marshal(event)
		if err != nil {
			log.Warn("failed to encode webhook event", zap.String("event", eventType), zap.Error(err))
			return
		}

		sendCtx, cancel := context.WithTimeout(context.Background(), n.client.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			log.Warn("failed to build webhook request", zap.String("event", eventType), zap.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			log.Warn("webhook delivery failed", zap.String("event", eventType), zap.Error(err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			log.Warn("webhook delivery rejected",
				zap.String("event", eventType),
				zap.Int("status", resp.StatusCode))
		}
	}()
}

// Event types published by the workflows
const (
	EventOrderCompleted = "order.completed"
	EventOrderCanceled  = "order.canceled"
	EventQuickSale      = "sale.completed"
	EventLowStock       = "stock.below_minimum"
)
