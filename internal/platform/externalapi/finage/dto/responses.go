// Package dto defines data transfer objects for the Finage API responses.
package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LastStockResponse represents the JSON response from /last/stock/{symbol}.
type LastStockResponse struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
	Timestamp int64   `json:"timestamp"` // unix millis
}

// AggBar is a single OHLCV aggregate.
type AggBar struct {
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
	Time   int64   `json:"t"` // unix millis
}

// PrevCloseResponse represents the JSON response from /agg/stock/prev-close/{symbol}.
// Finage returns the bar either inline or inside results.
type PrevCloseResponse struct {
	Close   float64  `json:"c"`
	Results []AggBar `json:"results"`
}

// AggResponse represents the JSON response from /agg/stock/{symbol}/1/day/{from}/{to}.
type AggResponse struct {
	Symbol       string   `json:"symbol"`
	TotalResults int      `json:"totalResults"`
	Results      []AggBar `json:"results"`
}

// DetailResponse represents the JSON response from /detail/stock/{symbol}.
type DetailResponse struct {
	Name          string    `json:"name"`
	Sector        string    `json:"sector"`
	Industry      string    `json:"industry"`
	MarketCap     FlexFloat `json:"marketCap"`
	PERatio       FlexFloat `json:"peRatio"`
	DividendYield FlexFloat `json:"dividendYield"`
	Beta          FlexFloat `json:"beta"`
	Description   string    `json:"description"`
}

// MarketStatusResponse represents the JSON response from /market/status.
type MarketStatusResponse struct {
	IsOpen  bool   `json:"isOpen"`
	Market  string `json:"market"`
	Session string `json:"session"`
}

// FlexFloat decodes a number that may be sent as a JSON number, a numeric
// string, null or a placeholder such as "N/A". Value is nil when absent.
type FlexFloat struct {
	Value *float64
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	f.Value = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value = &v
	return nil
}
