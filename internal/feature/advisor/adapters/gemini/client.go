// Package gemini はGoogle Gemini APIを使用した回答生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"stock_advisor/internal/feature/advisor/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DefaultTemperature は回答生成の温度です。
	DefaultTemperature = float32(0.1)
)

// GeminiModel はGoogle Gemini APIを使用して回答を生成します。
type GeminiModel struct {
	client *genai.Client
	model  string
}

// GeminiModelがLanguageModelを実装していることをコンパイル時に検証します。
var _ usecase.LanguageModel = (*GeminiModel)(nil)

// NewClient はGeminiのクライアントを生成します。
// apiKey が空の場合はADCと環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT,
// GOOGLE_CLOUD_LOCATION の設定を使います。
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	var cfg *genai.ClientConfig
	if apiKey != "" {
		cfg = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiModel は GeminiModel を生成します。model が空の場合は DefaultModel を使います。
func NewGeminiModel(client *genai.Client, model string) *GeminiModel {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiModel{client: client, model: model}
}

// Generate はシステム指示付きで回答を生成します。
func (g *GeminiModel) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(DefaultTemperature),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}
