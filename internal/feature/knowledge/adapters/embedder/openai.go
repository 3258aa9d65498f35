package embedder

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"stock_advisor/internal/feature/knowledge/vectorindex"
)

var _ vectorindex.Embedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder はOpenAI Embeddings APIで埋め込みを計算します。
type OpenAIEmbedder struct {
	client openai.Client
	model  openai.EmbeddingModel
	dim    int
}

// NewOpenAIEmbedder は OpenAIEmbedder を生成します。model が空の場合は text-embedding-3-small を使います。
func NewOpenAIEmbedder(client openai.Client, model string, dim int) *OpenAIEmbedder {
	m := openai.EmbeddingModelTextEmbedding3Small
	if model != "" {
		m = openai.EmbeddingModel(model)
	}
	if dim <= 0 {
		dim = vectorindex.DefaultDimension
	}
	return &OpenAIEmbedder{client: client, model: m, dim: dim}
}

func (e *OpenAIEmbedder) Dimension() int { return e.dim }

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:      e.model,
		Dimensions: openai.Int(int64(e.dim)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai embed: empty response")
	}

	src := resp.Data[0].Embedding
	out := make([]float32, len(src))
	for i, x := range src {
		out[i] = float32(x)
	}
	return out, nil
}
