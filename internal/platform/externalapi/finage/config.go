// Package finage provides a client for the Finage stock market API.
package finage

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds configuration for the Finage API client.
type Config struct {
	APIKey  string        `env:"FINAGE_API_KEY"`                                     // API key for authentication
	BaseURL string        `env:"FINAGE_BASE_URL, default=https://api.finage.co.uk"` // Base URL for the API
	Timeout time.Duration `env:"FINAGE_TIMEOUT, default=10s"`                        // HTTP request timeout
}

// LoadConfig loads Finage configuration from environment variables.
func LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("load finage config: %w", err)
	}
	return cfg, nil
}
