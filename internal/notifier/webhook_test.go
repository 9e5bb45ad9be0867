package notifier

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"motoride/internal/config"
	"motoride/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestWebhookDelivery(t *testing.T) {
	type delivery struct {
		body    map[string]interface{}
		headers http.Header
	}
	received := make(chan delivery, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("bad webhook body: %v", err)
		}
		received <- delivery{body: body, headers: r.Header.Clone()}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(&config.WebhookConfig{
		URL:     server.URL,
		Enabled: true,
		Timeout: 2 * time.Second,
	}, testLogger(t))

	n.Trigger(EventRideAccepted, map[string]interface{}{"ride_id": "abc123"})

	select {
	case got := <-received:
		if got.body["event"] != EventRideAccepted {
			t.Fatalf("expected event %s, got %v", EventRideAccepted, got.body["event"])
		}
		data, ok := got.body["data"].(map[string]interface{})
		if !ok || data["ride_id"] != "abc123" {
			t.Fatalf("payload not forwarded: %v", got.body["data"])
		}
		deliveryID, _ := got.body["delivery_id"].(string)
		if deliveryID == "" {
			t.Fatal("expected a delivery id in the body")
		}
		if got.headers.Get("X-Delivery-ID") != deliveryID {
			t.Fatal("header delivery id must match the body")
		}
		if got.headers.Get("Content-Type") != "application/json" {
			t.Fatalf("unexpected content type %q", got.headers.Get("Content-Type"))
		}
	case <-time.After(3 * time.Second):
		t.Fatal("webhook was never delivered")
	}
}

func TestWebhookDisabled(t *testing.T) {
	hits := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
	}))
	defer server.Close()

	n := NewWebhookNotifier(&config.WebhookConfig{
		URL:     server.URL,
		Enabled: false,
		Timeout: time.Second,
	}, testLogger(t))

	n.Trigger(EventRideRequested, map[string]interface{}{"ride_id": "abc123"})

	select {
	case <-hits:
		t.Fatal("disabled notifier must not deliver")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebhookFailureIsSwallowed(t *testing.T) {
	// nothing listens on this address; Trigger must still return immediately
	n := NewWebhookNotifier(&config.WebhookConfig{
		URL:     "http://127.0.0.1:1/webhook",
		Enabled: true,
		Timeout: 200 * time.Millisecond,
	}, testLogger(t))

	done := make(chan struct{})
	go func() {
		n.Trigger(EventRideCancelled, map[string]interface{}{"ride_id": "abc123"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Trigger must not block on delivery")
	}
}
