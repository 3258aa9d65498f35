package embedder

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"stock_advisor/internal/feature/knowledge/vectorindex"
)

// DefaultGeminiModel はGeminiの既定埋め込みモデルです。
const DefaultGeminiModel = "gemini-embedding-001"

var _ vectorindex.Embedder = (*GeminiEmbedder)(nil)

// GeminiEmbedder はGemini APIで埋め込みを計算します。
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	dim    int
}

// NewGeminiEmbedder は出力次元を dim に固定した GeminiEmbedder を生成します。
func NewGeminiEmbedder(client *genai.Client, model string, dim int) *GeminiEmbedder {
	if model == "" {
		model = DefaultGeminiModel
	}
	if dim <= 0 {
		dim = vectorindex.DefaultDimension
	}
	return &GeminiEmbedder{client: client, model: model, dim: dim}
}

func (e *GeminiEmbedder) Dimension() int { return e.dim }

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(e.dim)),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("gemini embed: empty response")
	}
	return resp.Embeddings[0].Values, nil
}
