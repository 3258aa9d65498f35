// Package yahoo provides clients for the Yahoo Finance autocomplete and search endpoints.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds configuration for the Yahoo Finance endpoints.
type Config struct {
	AutocompleteURL string        `env:"YAHOO_AUTOCOMPLETE_URL, default=https://autoc.finance.yahoo.com/autoc"`
	SearchURL       string        `env:"YAHOO_SEARCH_URL, default=https://query1.finance.yahoo.com/v1/finance/search"`
	Timeout         time.Duration `env:"YAHOO_TIMEOUT, default=10s"`
}

// LoadConfig loads Yahoo configuration from environment variables.
func LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("load yahoo config: %w", err)
	}
	return cfg, nil
}
