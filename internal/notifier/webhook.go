// Package notifier delivers lifecycle events to the configured outbound
// webhook sink. Delivery is fire-and-forget: a failed or slow webhook must
// never make a lifecycle transition appear to fail.
package notifier

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"motoride/internal/config"
	"motoride/pkg/logger"

	"github.com/google/uuid"
)

const (
	EventRideRequested = "ride_requested"
	EventRideAccepted  = "ride_accepted"
	EventRideCompleted = "ride_completed"
	EventRideCancelled = "ride_cancelled"
)

type Notifier interface {
	Trigger(event string, payload map[string]interface{})
}

type WebhookNotifier struct {
	url     string
	enabled bool
	client  *http.Client
	log     *logger.Logger
}

func NewWebhookNotifier(cfg *config.WebhookConfig, log *logger.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

func (n *WebhookNotifier) Trigger(event string, payload map[string]interface{}) {
	if !n.enabled {
		return
	}

	go n.deliver(event, payload)
}

func (n *WebhookNotifier) deliver(event string, payload map[string]interface{}) {
	deliveryID := uuid.New().String()

	body := map[string]interface{}{
		"event":       event,
		"delivery_id": deliveryID,
		"sent_at":     time.Now().UTC(),
		"data":        payload,
	}

	data, err := json.Marshal(body)
	if err != nil {
		n.log.WithError(err).WithField("event", event).Warn("Failed to encode webhook payload")
		return
	}

	req, err := http.NewRequest(http.MethodPost, n.url, bytes.NewReader(data))
	if err != nil {
		n.log.WithError(err).WithField("event", event).Warn("Failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-ID", deliveryID)

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.WithError(err).WithFields(map[string]interface{}{
			"event":       event,
			"delivery_id": deliveryID,
		}).Warn("Webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.log.WithFields(map[string]interface{}{
			"event":       event,
			"delivery_id": deliveryID,
			"status_code": resp.StatusCode,
		}).Warn("Webhook sink rejected event")
	}
}

// NoopNotifier discards every event. Used when the sink is not configured.
type NoopNotifier struct{}

func (NoopNotifier) Trigger(event string, payload map[string]interface{}) {}
