// Package dto defines data transfer objects for the queryhistory HTTP API.
package dto

import (
	"encoding/json"
	"time"

	"stock_advisor/internal/feature/queryhistory/domain/entity"
)

// QueryItem is a stored query in the API response.
type QueryItem struct {
	ID          uint            `json:"id"`
	Kind        string          `json:"kind"`
	Ticker      string          `json:"ticker"`
	Question    string          `json:"question"`
	Answer      string          `json:"answer"`
	StockData   json.RawMessage `json:"stock_data"`
	CompanyInfo json.RawMessage `json:"company_info"`
	RiskScore   *int            `json:"risk_score,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// HistoryResponse is the body of GET /history and GET /history/:ticker.
type HistoryResponse struct {
	Ticker  string      `json:"ticker,omitempty"`
	Queries []QueryItem `json:"queries"`
	Total   int         `json:"total"`
}

// NewHistoryResponse converts records into a response body.
func NewHistoryResponse(ticker string, recs []entity.QueryRecord) HistoryResponse {
	items := make([]QueryItem, 0, len(recs))
	for _, r := range recs {
		items = append(items, QueryItem{
			ID:          r.ID,
			Kind:        r.Kind,
			Ticker:      r.Ticker,
			Question:    r.Question,
			Answer:      r.Answer,
			StockData:   raw(r.QuoteJSON),
			CompanyInfo: raw(r.CompanyJSON),
			RiskScore:   r.RiskScore,
			Timestamp:   r.CreatedAt,
		})
	}
	return HistoryResponse{Ticker: ticker, Queries: items, Total: len(items)}
}

func raw(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return nil
	}
	return json.RawMessage(s)
}
