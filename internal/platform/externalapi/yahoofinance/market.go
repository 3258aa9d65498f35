// Package yahoofinance は finance-go を使ってYahoo Financeから現在値と日足を取得します。
// Finage のAPIキーがない環境で使う代替プロバイダーです。
package yahoofinance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/advisor/usecase"
)

// ErrNoQuote は該当するシンボルの気配がない場合に返されます。
var ErrNoQuote = errors.New("yahoofinance: no quote for symbol")

// Market は finance-go をラップした QuoteFetcher / HistoryFetcher です。
type Market struct {
	getQuote  func(symbol string) (*finance.Quote, error)
	chartBars func(params *chart.Params) ([]*finance.ChartBar, error)
}

var (
	_ usecase.QuoteFetcher   = (*Market)(nil)
	_ usecase.HistoryFetcher = (*Market)(nil)
)

// NewMarket は Market を生成します。
func NewMarket() *Market {
	return &Market{getQuote: quote.Get, chartBars: collectBars}
}

// GetQuote は現在値を返します。finance-go は context を受け付けないため、呼び出し前にのみ確認します。
func (m *Market) GetQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	if err := ctx.Err(); err != nil {
		return entity.Quote{}, err
	}
	symbol = strings.ToUpper(symbol)

	q, err := m.getQuote(symbol)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	if q == nil {
		return entity.Quote{}, fmt.Errorf("%w: %s", ErrNoQuote, symbol)
	}

	var ts time.Time
	if q.RegularMarketTime > 0 {
		ts = time.Unix(int64(q.RegularMarketTime), 0).UTC()
	}
	return entity.NewQuote(symbol, q.RegularMarketPrice, q.RegularMarketPreviousClose,
		int64(q.RegularMarketVolume), ts), nil
}

// GetHistory は [from, to] の日足を日付昇順で返します。
func (m *Market) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(symbol)

	bars, err := m.chartBars(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch chart %s: %w", symbol, err)
	}

	out := make([]entity.HistoricalBar, 0, len(bars))
	for _, b := range bars {
		if b == nil {
			continue
		}
		t := time.Unix(int64(b.Timestamp), 0).UTC()
		out = append(out, entity.HistoricalBar{
			Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Open:   toFloat(b.Open),
			High:   toFloat(b.High),
			Low:    toFloat(b.Low),
			Close:  toFloat(b.Close),
			Volume: int64(b.Volume),
		})
	}
	return entity.NormalizeBars(out), nil
}

func collectBars(params *chart.Params) ([]*finance.ChartBar, error) {
	iter := chart.Get(params)
	var bars []*finance.ChartBar
	for iter.Next() {
		bars = append(bars, iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
