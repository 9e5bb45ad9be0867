package websocket

import (
	"net/http/httptest"
	"testing"
	"time"

	"motoride/internal/realtime"
	"motoride/pkg/logger"
)

func testHub(t *testing.T, cfg *Config) *Hub {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewHub(realtime.NewLocalChannel(), cfg, log)
}

func TestCheckOrigin(t *testing.T) {
	hub := testHub(t, &Config{AllowedOrigins: []string{"https://app.motoride.example"}})

	cases := []struct {
		name   string
		origin string
		want   bool
	}{
		{"allowed origin", "https://app.motoride.example", true},
		{"allowed origin case-insensitive", "https://APP.motoride.example", true},
		{"other origin", "https://elsewhere.example", false},
		{"no origin header", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ws/rides/abc/location", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if got := hub.checkOrigin(req); got != tc.want {
				t.Fatalf("checkOrigin(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}

func TestCheckOriginWildcard(t *testing.T) {
	hub := testHub(t, &Config{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest("GET", "/ws/rides/abc/location", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	if !hub.checkOrigin(req) {
		t.Fatal("wildcard must admit every origin")
	}
}

func TestConfigDefaults(t *testing.T) {
	hub := testHub(t, nil)

	if hub.config.ReadBufferSize != 1024 || hub.config.WriteBufferSize != 1024 {
		t.Fatalf("unexpected buffer defaults: %+v", hub.config)
	}
	if hub.config.PingInterval != 54*time.Second || hub.config.PongTimeout != 60*time.Second {
		t.Fatalf("unexpected keepalive defaults: %+v", hub.config)
	}
	if hub.config.WriteTimeout != 10*time.Second {
		t.Fatalf("unexpected write timeout default: %+v", hub.config)
	}
	if len(hub.config.AllowedOrigins) != 1 || hub.config.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origin default: %+v", hub.config)
	}

	partial := testHub(t, &Config{ReadBufferSize: 4096})
	if partial.config.ReadBufferSize != 4096 || partial.config.PongTimeout != 60*time.Second {
		t.Fatalf("partial config must keep remaining defaults: %+v", partial.config)
	}
}
