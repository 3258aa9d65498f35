package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	advisor "stock_advisor/internal/feature/advisor/domain/entity"
	advisoruc "stock_advisor/internal/feature/advisor/usecase"
	"stock_advisor/internal/feature/symbollist/domain/entity"
)

// LocalResolver は銘柄マスターから会社名・ティッカーをオフラインで解決します。
// ティッカーの完全一致を優先し、なければ銘柄名の全文検索で最上位の銘柄を返します。
type LocalResolver struct {
	index  bleve.Index
	byCode map[string]entity.Symbol
}

var _ advisoruc.TickerResolver = (*LocalResolver)(nil)

// NewLocalResolver は symbols からメモリ上の検索インデックスを構築します。
func NewLocalResolver(symbols []entity.Symbol) (*LocalResolver, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create symbol index: %w", err)
	}

	byCode := make(map[string]entity.Symbol, len(symbols))
	batch := idx.NewBatch()
	for _, s := range symbols {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		if code == "" {
			continue
		}
		byCode[code] = s
		if err := batch.Index(code, map[string]any{
			"symbol": strings.ToLower(code),
			"name":   s.Name,
		}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index symbol %s: %w", code, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("build symbol index: %w", err)
	}

	return &LocalResolver{index: idx, byCode: byCode}, nil
}

// Resolve は見つからない場合 (nil, nil) を返します。
func (r *LocalResolver) Resolve(ctx context.Context, query string) (*advisor.TickerResolution, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	if s, ok := r.byCode[strings.ToUpper(q)]; ok {
		return toResolution(s), nil
	}

	match := bleve.NewMatchQuery(q)
	match.SetField("name")
	req := bleve.NewSearchRequestOptions(match, 1, 0, false)
	res, err := r.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("symbol search: %w", err)
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}
	s, ok := r.byCode[res.Hits[0].ID]
	if !ok {
		return nil, nil
	}
	return toResolution(s), nil
}

// Len は索引済みの銘柄数を返します。
func (r *LocalResolver) Len() int { return len(r.byCode) }

// Close はインデックスを解放します。
func (r *LocalResolver) Close() error { return r.index.Close() }

func toResolution(s entity.Symbol) *advisor.TickerResolution {
	return &advisor.TickerResolution{
		Symbol:      strings.ToUpper(s.Code),
		DisplayName: s.Name,
		Exchange:    s.Market,
		Kind:        s.Kind,
	}
}
