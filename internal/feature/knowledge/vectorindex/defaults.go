package vectorindex

import (
	"context"
	"fmt"
	"log/slog"

	"stock_advisor/internal/feature/knowledge/domain/entity"
)

// DefaultDocuments は初回起動時に投入する金融分析ノートです。
var DefaultDocuments = []entity.Document{
	{
		Content:  "Tesla (TSLA) is a leading electric vehicle manufacturer with strong growth potential in the EV market. The company has shown consistent revenue growth and expanding global presence.",
		Metadata: map[string]string{"ticker": "TSLA", "type": "analysis", "date": "2024"},
	},
	{
		Content:  "Apple (AAPL) maintains strong fundamentals with robust cash flow, innovative product pipeline, and dominant market position in consumer electronics.",
		Metadata: map[string]string{"ticker": "AAPL", "type": "analysis", "date": "2024"},
	},
	{
		Content:  "Microsoft (MSFT) benefits from cloud computing growth through Azure, strong enterprise software sales, and AI integration across products.",
		Metadata: map[string]string{"ticker": "MSFT", "type": "analysis", "date": "2024"},
	},
	{
		Content:  "NVIDIA (NVDA) is positioned well for AI boom with dominant GPU market share, data center growth, and strong partnerships in AI infrastructure.",
		Metadata: map[string]string{"ticker": "NVDA", "type": "analysis", "date": "2024"},
	},
	{
		Content:  "Amazon (AMZN) shows diversified revenue streams through e-commerce, AWS cloud services, and advertising business with strong competitive moats.",
		Metadata: map[string]string{"ticker": "AMZN", "type": "analysis", "date": "2024"},
	},
	{
		Content:  "Market volatility in 2024 has been driven by inflation concerns, interest rate changes, and geopolitical tensions affecting global supply chains.",
		Metadata: map[string]string{"ticker": "MARKET", "type": "market_analysis", "date": "2024"},
	},
	{
		Content:  "Electric vehicle adoption is accelerating globally with government incentives, improving battery technology, and expanding charging infrastructure.",
		Metadata: map[string]string{"ticker": "EV_SECTOR", "type": "sector_analysis", "date": "2024"},
	},
	{
		Content:  "Technology sector outlook remains positive despite short-term headwinds, with AI, cloud computing, and digital transformation driving long-term growth.",
		Metadata: map[string]string{"ticker": "TECH_SECTOR", "type": "sector_analysis", "date": "2024"},
	},
}

// PopulateDefaults は DefaultDocuments を順に追加します。
// インデックスが空かどうかの判定と保存は呼び出し側の責務です。
func (ix *Index) PopulateDefaults(ctx context.Context) error {
	for i, d := range DefaultDocuments {
		if err := ix.Add(ctx, d.Content, d.Metadata); err != nil {
			return fmt.Errorf("add default document %d: %w", i, err)
		}
	}
	slog.Info("vector index populated with default documents", "count", len(DefaultDocuments))
	return nil
}

// Bootstrap は空のインデックスに既定文書を投入して保存します。
// 保存の失敗はログのみで、インデックスはメモリ上で利用可能なままです。
func Bootstrap(ctx context.Context, ix *Index) error {
	if !ix.IsEmpty() {
		return nil
	}
	if err := ix.PopulateDefaults(ctx); err != nil {
		return err
	}
	_ = ix.Save()
	return nil
}
