package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/advisor/usecase"
	"stock_advisor/internal/platform/externalapi/yahoo/dto"
)

// resolvableTypes は銘柄解決の対象とする種別です。
var resolvableTypes = map[string]bool{
	"Equity":     true,
	"Equity ETF": true,
	"ETF":        true,
}

// YahooClient は会社名からのティッカー解決とニュース検索を行います。
type YahooClient struct {
	cfg    Config
	client *http.Client
}

var (
	_ usecase.TickerResolver = (*YahooClient)(nil)
	_ usecase.NewsSearcher   = (*YahooClient)(nil)
)

// NewYahooClient は YahooClient を生成します。
func NewYahooClient(cfg Config, client *http.Client) *YahooClient {
	return &YahooClient{cfg: cfg, client: client}
}

// Resolve はオートコンプリートの候補のうち最初の株式/ETFを返します。
// 該当がない場合は (nil, nil) を返します。
func (y *YahooClient) Resolve(ctx context.Context, query string) (*entity.TickerResolution, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("region", "1")
	q.Set("lang", "en")

	var body dto.AutocompleteResponse
	if err := y.get(ctx, y.cfg.AutocompleteURL, q, &body); err != nil {
		return nil, fmt.Errorf("resolve ticker %q: %w", query, err)
	}

	for _, r := range body.ResultSet.Result {
		if !resolvableTypes[r.TypeDisp] || r.Symbol == "" {
			continue
		}
		return &entity.TickerResolution{
			Symbol:      strings.ToUpper(r.Symbol),
			DisplayName: r.Name,
			Exchange:    r.ExchDisp,
			Kind:        r.TypeDisp,
		}, nil
	}
	return nil, nil
}

// SearchNews はクエリに関する最新ニュースを最大 count 件返します。
func (y *YahooClient) SearchNews(ctx context.Context, query string, count int) ([]entity.NewsItem, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("quotesCount", "0")
	q.Set("newsCount", strconv.Itoa(count))
	q.Set("listsCount", "0")

	var body dto.SearchResponse
	if err := y.get(ctx, y.cfg.SearchURL, q, &body); err != nil {
		return nil, fmt.Errorf("search news %q: %w", query, err)
	}

	items := make([]entity.NewsItem, 0, min(count, len(body.News)))
	for _, n := range body.News {
		if len(items) >= count {
			break
		}
		item := entity.NewsItem{Title: n.Title, Publisher: n.Publisher, Link: n.Link}
		if n.ProviderPublishTime > 0 {
			item.PublishedAt = time.Unix(n.ProviderPublishTime, 0).UTC()
		}
		items = append(items, item)
	}
	return items, nil
}

func (y *YahooClient) get(ctx context.Context, base string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	// Yahoo rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; stock-advisor/1.0)")

	res, err := y.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("yahoo http %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode yahoo response: %w", err)
	}
	return nil
}
