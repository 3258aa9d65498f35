package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/advisor/usecase"
	"stock_advisor/internal/platform/cache"
	"stock_advisor/internal/platform/externalapi/finage"
	"stock_advisor/internal/platform/externalapi/twelvedata"
	"stock_advisor/internal/platform/externalapi/yahoo"
	"stock_advisor/internal/platform/externalapi/yahoofinance"
	infrahttp "stock_advisor/internal/platform/http"
)

// Market groups the upstream market data sources.
// Company info and market status always come from Finage; MARKET_PROVIDER switches quotes and history.
type Market struct {
	Quotes    usecase.QuoteFetcher
	Companies usecase.CompanyFetcher
	History   usecase.HistoryFetcher
	Status    *finage.FinageMarket
}

// GetQuote delegates to the quote source.
func (m *Market) GetQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	return m.Quotes.GetQuote(ctx, symbol)
}

// GetCompanyInfo delegates to the company source.
func (m *Market) GetCompanyInfo(ctx context.Context, symbol string) (entity.CompanyInfo, error) {
	return m.Companies.GetCompanyInfo(ctx, symbol)
}

// GetHistory delegates to the history source.
func (m *Market) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error) {
	return m.History.GetHistory(ctx, symbol, from, to)
}

// NewMarket creates the market data sources for the configured provider.
// When rdb is non-nil, history and company lookups are cached in Redis until the next market open.
func NewMarket(ctx context.Context, cfg Config, rdb *redis.Client) (*Market, error) {
	fcfg, err := finage.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	fin := finage.NewFinageMarket(fcfg, infrahttp.NewHTTPClient(fcfg.Timeout))

	m := &Market{Companies: fin, Status: fin}
	switch cfg.MarketProvider {
	case ProviderFinage:
		m.Quotes, m.History = fin, fin
	case ProviderYahoo:
		yf := yahoofinance.NewMarket()
		m.Quotes, m.History = yf, yf
	case ProviderTwelveData:
		tcfg, err := twelvedata.LoadConfig(ctx)
		if err != nil {
			return nil, err
		}
		td := twelvedata.NewTwelveDataMarket(tcfg, infrahttp.NewHTTPClient(tcfg.Timeout))
		m.Quotes, m.History = td, td
	default:
		return nil, fmt.Errorf("unsupported MARKET_PROVIDER %q", cfg.MarketProvider)
	}

	if rdb != nil {
		cached := cache.NewCachingMarket(rdb, m.History, m.Companies, nil, cache.DefaultNamespace)
		m.History, m.Companies = cached, cached
	}
	return m, nil
}

// NewYahoo creates the Yahoo Finance client used for ticker resolution and news.
func NewYahoo(ctx context.Context) (*yahoo.YahooClient, error) {
	cfg, err := yahoo.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return yahoo.NewYahooClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout)), nil
}
