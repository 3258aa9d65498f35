package di

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"

	"stock_advisor/internal/feature/advisor/adapters/gemini"
	"stock_advisor/internal/feature/advisor/adapters/openaichat"
	"stock_advisor/internal/feature/advisor/usecase"
	"stock_advisor/internal/feature/knowledge/adapters/embedder"
	"stock_advisor/internal/feature/knowledge/vectorindex"
)

// Models lazily creates provider clients so that one client is shared by the
// language model and the embedder.
type Models struct {
	cfg    Config
	genai  *genai.Client
	openai *openai.Client
}

// NewModels creates a Models factory for cfg.
func NewModels(cfg Config) *Models {
	return &Models{cfg: cfg}
}

func (m *Models) geminiClient(ctx context.Context) (*genai.Client, error) {
	if m.genai == nil {
		c, err := gemini.NewClient(ctx, m.cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		m.genai = c
	}
	return m.genai, nil
}

func (m *Models) openaiClient() openai.Client {
	if m.openai == nil {
		c := openai.NewClient(option.WithAPIKey(m.cfg.OpenAIAPIKey))
		m.openai = &c
	}
	return *m.openai
}

// LanguageModel returns the answer generator selected by LLM_PROVIDER.
func (m *Models) LanguageModel(ctx context.Context) (usecase.LanguageModel, error) {
	switch m.cfg.LLMProvider {
	case ProviderGemini:
		c, err := m.geminiClient(ctx)
		if err != nil {
			return nil, err
		}
		return gemini.NewGeminiModel(c, m.cfg.GeminiModel), nil
	case ProviderOpenAI:
		return openaichat.NewChatModel(m.openaiClient(), m.cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", m.cfg.LLMProvider)
	}
}

// Embedder returns the embedder selected by EMBEDDING_PROVIDER.
// The index snapshot records the dimension, so switching providers requires re-populating the index.
func (m *Models) Embedder(ctx context.Context) (vectorindex.Embedder, error) {
	switch m.cfg.EmbeddingProvider {
	case ProviderHashing:
		return embedder.NewHashingEmbedder(m.cfg.EmbeddingDim), nil
	case ProviderGemini:
		c, err := m.geminiClient(ctx)
		if err != nil {
			return nil, err
		}
		return embedder.NewGeminiEmbedder(c, m.cfg.GeminiEmbeddingModel, m.cfg.EmbeddingDim), nil
	case ProviderOpenAI:
		return embedder.NewOpenAIEmbedder(m.openaiClient(), m.cfg.OpenAIEmbeddingModel, m.cfg.EmbeddingDim), nil
	default:
		return nil, fmt.Errorf("unsupported EMBEDDING_PROVIDER %q", m.cfg.EmbeddingProvider)
	}
}
