// Package entity はadvisorフィーチャーのドメインモデルを定義します。
package entity

import (
	"sort"
	"time"
)

// TickerResolution は会社名やティッカー文字列を解決した結果です。
// 解決できなかった場合は nil を使い、入力文字列を大文字化してシンボルとして扱います。
type TickerResolution struct {
	Symbol      string `json:"symbol"`       // 正規化済みシンボル (e.g., "TSLA")
	DisplayName string `json:"display_name"` // 表示名 (e.g., "Tesla, Inc.")
	Exchange    string `json:"exchange"`     // 取引所表示名
	Kind        string `json:"kind"`         // 銘柄種別 (Equity / ETF)
}

// Quote は現在値のスナップショットです。
// Err が空でない場合はエラーレコードとして扱い、他のフィールドは意味を持ちません。
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
	Err           string    `json:"error,omitempty"`
}

// NewQuote は前日終値から騰落を導出して Quote を生成します。
// 前日終値が 0 以下の場合、騰落と騰落率は 0 になります。
func NewQuote(symbol string, price, previousClose float64, volume int64, ts time.Time) Quote {
	q := Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: previousClose,
		Volume:        volume,
		Timestamp:     ts,
	}
	if previousClose > 0 {
		q.Change = price - previousClose
		q.ChangePercent = q.Change / previousClose * 100
	}
	return q
}

// QuoteError は取得失敗を表すエラーレコードを返します。
func QuoteError(symbol string, err error) Quote {
	return Quote{Symbol: symbol, Err: errorText(err)}
}

// OK はエラーレコードでなければ true を返します。
func (q Quote) OK() bool { return q.Err == "" }

// HistoricalBar は1取引日分のOHLCVです。
// スライスは日付昇順・日付重複なしに正規化されている前提です。
type HistoricalBar struct {
	Date   time.Time `json:"date"`   // 取引日 (UTC 0:00)
	Open   float64   `json:"open"`   // 始値
	High   float64   `json:"high"`   // 高値
	Low    float64   `json:"low"`    // 安値
	Close  float64   `json:"close"`  // 終値
	Volume int64     `json:"volume"` // 出来高
}

// NewsItem はニュース見出しです。
type NewsItem struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// MarketStatus は市場の開閉状態です。
type MarketStatus struct {
	IsOpen  bool   `json:"is_open"`
	Market  string `json:"market"`
	Session string `json:"session"`
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// NormalizeBars は日付昇順に並べ替え、同じ日付のバーは後に現れたものを残します。
func NormalizeBars(bars []HistoricalBar) []HistoricalBar {
	byDay := make(map[string]int, len(bars))
	out := make([]HistoricalBar, 0, len(bars))
	for _, b := range bars {
		key := b.Date.UTC().Format("2006-01-02")
		if i, ok := byDay[key]; ok {
			out[i] = b
			continue
		}
		byDay[key] = len(out)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
