package config

import (
	"time"
)

type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Enabled bool          `yaml:"enabled"`
}

func loadWebhookConfig() *WebhookConfig {
	return &WebhookConfig{
		URL:     getEnv("WEBHOOK_URL", ""),
		Timeout: getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		Enabled: getEnvAsBool("WEBHOOK_ENABLED", true),
	}
}
