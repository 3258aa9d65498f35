package di

import (
	"context"

	"stock_advisor/internal/feature/knowledge/adapters/pdf"
	"stock_advisor/internal/feature/knowledge/usecase"
	"stock_advisor/internal/feature/knowledge/vectorindex"
	"stock_advisor/internal/shared/ratelimiter"
)

// NewKnowledge opens the embedding index under INDEX_DIR and creates the usecase around it.
// A missing or unreadable snapshot yields an empty index.
func NewKnowledge(ctx context.Context, cfg Config, models *Models) (*vectorindex.Index, *usecase.KnowledgeUsecase, error) {
	emb, err := models.Embedder(ctx)
	if err != nil {
		return nil, nil, err
	}
	ix := vectorindex.Open(cfg.IndexDir, emb)
	uc := usecase.NewKnowledgeUsecase(ix, pdf.NewExtractor(), ratelimiter.NewRateLimiter(cfg.EmbedRate, cfg.EmbedInterval))
	return ix, uc, nil
}
