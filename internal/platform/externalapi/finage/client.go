package finage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/advisor/usecase"
	"stock_advisor/internal/platform/externalapi/finage/dto"
)

// FinageMarket はFinage APIから現在値・日足・企業情報を取得します。
type FinageMarket struct {
	cfg    Config
	client *http.Client
}

// FinageMarketが各Fetcherを実装していることをコンパイル時に検証します。
var (
	_ usecase.QuoteFetcher   = (*FinageMarket)(nil)
	_ usecase.CompanyFetcher = (*FinageMarket)(nil)
	_ usecase.HistoryFetcher = (*FinageMarket)(nil)
)

// NewFinageMarket は指定された設定とHTTPクライアントでFinageMarketを生成します。
func NewFinageMarket(cfg Config, client *http.Client) *FinageMarket {
	return &FinageMarket{cfg: cfg, client: client}
}

// GetQuote は最新の約定価格と前日終値から騰落を計算した Quote を返します。
// 前日終値の取得に失敗した場合は騰落を 0 とします。
func (f *FinageMarket) GetQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	symbol = strings.ToUpper(symbol)

	var last dto.LastStockResponse
	if err := f.get(ctx, "/last/stock/"+url.PathEscape(symbol), &last); err != nil {
		return entity.Quote{}, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}

	prevClose, err := f.previousClose(ctx, symbol)
	if err != nil {
		slog.Warn("failed to fetch previous close", "symbol", symbol, "error", err)
	}

	var ts time.Time
	if last.Timestamp > 0 {
		ts = time.UnixMilli(last.Timestamp).UTC()
	}
	return entity.NewQuote(symbol, last.Price, prevClose, last.Volume, ts), nil
}

func (f *FinageMarket) previousClose(ctx context.Context, symbol string) (float64, error) {
	var body dto.PrevCloseResponse
	if err := f.get(ctx, "/agg/stock/prev-close/"+url.PathEscape(symbol), &body); err != nil {
		return 0, err
	}
	if len(body.Results) > 0 {
		return body.Results[0].Close, nil
	}
	return body.Close, nil
}

// GetHistory は [from, to] の日足を日付昇順で返します。
func (f *FinageMarket) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error) {
	symbol = strings.ToUpper(symbol)
	path := fmt.Sprintf("/agg/stock/%s/1/day/%s/%s",
		url.PathEscape(symbol), from.Format("2006-01-02"), to.Format("2006-01-02"))

	var body dto.AggResponse
	if err := f.get(ctx, path, &body); err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}

	bars := make([]entity.HistoricalBar, 0, len(body.Results))
	for _, r := range body.Results {
		t := time.UnixMilli(r.Time).UTC()
		bars = append(bars, entity.HistoricalBar{
			Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: int64(r.Volume),
		})
	}
	return entity.NormalizeBars(bars), nil
}

// GetCompanyInfo は企業の詳細情報を返します。欠落した数値項目は nil になります。
func (f *FinageMarket) GetCompanyInfo(ctx context.Context, symbol string) (entity.CompanyInfo, error) {
	symbol = strings.ToUpper(symbol)

	var body dto.DetailResponse
	if err := f.get(ctx, "/detail/stock/"+url.PathEscape(symbol), &body); err != nil {
		return entity.CompanyInfo{}, fmt.Errorf("fetch company info %s: %w", symbol, err)
	}

	info := entity.CompanyInfo{
		Symbol:        symbol,
		Name:          body.Name,
		Sector:        body.Sector,
		Industry:      body.Industry,
		MarketCap:     body.MarketCap.Value,
		PERatio:       body.PERatio.Value,
		DividendYield: body.DividendYield.Value,
		Beta:          body.Beta.Value,
	}
	if d := strings.TrimSpace(body.Description); d != "" {
		info.Description = &d
	}
	return info, nil
}

// GetMarketStatus は米国市場の開閉状態を返します。
func (f *FinageMarket) GetMarketStatus(ctx context.Context) (entity.MarketStatus, error) {
	var body dto.MarketStatusResponse
	if err := f.get(ctx, "/market/status", &body); err != nil {
		return entity.MarketStatus{Market: "US", Session: "unknown"}, fmt.Errorf("fetch market status: %w", err)
	}
	if body.Market == "" {
		body.Market = "US"
	}
	if body.Session == "" {
		body.Session = "unknown"
	}
	return entity.MarketStatus{IsOpen: body.IsOpen, Market: body.Market, Session: body.Session}, nil
}

// get は path にGETリクエストを送り、JSONレスポンスを out にデコードします。
func (f *FinageMarket) get(ctx context.Context, path string, out any) error {
	q := url.Values{}
	q.Set("apikey", f.cfg.APIKey)
	u := fmt.Sprintf("%s%s?%s", strings.TrimRight(f.cfg.BaseURL, "/"), path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("finage http %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode finage response: %w", err)
	}
	return nil
}
