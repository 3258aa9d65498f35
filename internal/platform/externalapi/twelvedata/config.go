// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey string        `env:"TWELVE_DATA_API_KEY"`                                      // API key for authentication
	BaseURL          string        `env:"TWELVE_DATA_BASE_URL, default=https://api.twelvedata.com"` // Base URL for the API
	Timeout          time.Duration `env:"TWELVE_DATA_TIMEOUT, default=10s"`                         // HTTP request timeout
}

// LoadConfig loads Twelve Data configuration from environment variables.
func LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("load twelvedata config: %w", err)
	}
	return cfg, nil
}
