// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"stock_advisor/internal/feature/advisor/usecase"
	"stock_advisor/internal/feature/knowledge/vectorindex"
)

// Provider names accepted by MARKET_PROVIDER, LLM_PROVIDER and EMBEDDING_PROVIDER.
const (
	ProviderFinage     = "finage"
	ProviderYahoo      = "yahoo"
	ProviderTwelveData = "twelvedata"
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderHashing    = "hashing"
)

// Config selects the adapters wired into the application.
type Config struct {
	ServerPort string `env:"SERVER_PORT, default=8080"`

	MarketProvider    string `env:"MARKET_PROVIDER, default=finage"`
	LLMProvider       string `env:"LLM_PROVIDER, default=gemini"`
	EmbeddingProvider string `env:"EMBEDDING_PROVIDER, default=hashing"`
	EmbeddingDim      int    `env:"EMBEDDING_DIMENSION, default=384"`

	GeminiAPIKey         string `env:"GEMINI_API_KEY"`
	GeminiModel          string `env:"GEMINI_MODEL"`
	GeminiEmbeddingModel string `env:"GEMINI_EMBEDDING_MODEL"`
	OpenAIAPIKey         string `env:"OPENAI_API_KEY"`
	OpenAIModel          string `env:"OPENAI_MODEL"`
	OpenAIEmbeddingModel string `env:"OPENAI_EMBEDDING_MODEL"`

	IndexDir     string        `env:"INDEX_DIR, default=data/index"`
	FetchTimeout time.Duration `env:"ADVISOR_FETCH_TIMEOUT, default=20s"`

	// EmbedRate bounds embedding calls during ingestion (calls per EmbedInterval).
	EmbedRate     int           `env:"EMBED_RATE_LIMIT, default=60"`
	EmbedInterval time.Duration `env:"EMBED_RATE_INTERVAL, default=1m"`

	LogoDetection bool `env:"LOGO_DETECTION_ENABLED, default=false"`
}

// LoadConfig loads the application configuration from environment variables.
func LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("load app config: %w", err)
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = vectorindex.DefaultDimension
	}
	if cfg.FetchTimeout < 0 {
		cfg.FetchTimeout = usecase.DefaultFetchTimeout
	}
	return cfg, nil
}
