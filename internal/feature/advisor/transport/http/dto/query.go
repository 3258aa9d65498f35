// Package dto defines data transfer objects for the advisor HTTP API.
package dto

import (
	"fmt"
	"time"

	"stock_advisor/internal/feature/advisor/domain/entity"
)

// QueryRequest is the body of POST /ask and POST /reports/stock.
type QueryRequest struct {
	Company  string `json:"company" binding:"required"`
	Question string `json:"question" binding:"required"`
}

// QueryResponse is the investment answer returned to clients.
type QueryResponse struct {
	Kind           string                   `json:"kind"`
	Success        bool                     `json:"success"`
	Ticker         string                   `json:"ticker"`
	Question       string                   `json:"question"`
	Answer         string                   `json:"answer"`
	StockData      *entity.Quote            `json:"stock_data"`
	CompanyInfo    *entity.CompanyInfo      `json:"company_info"`
	HistoricalData []entity.HistoricalBar   `json:"historical_data"`
	ContextSources []map[string]string      `json:"context_sources"`
	News           []entity.NewsItem        `json:"news"`
	Resolved       *entity.TickerResolution `json:"resolved"`
	ContextUsed    int                      `json:"context_used"`
	RiskScore      *int                     `json:"risk_score,omitempty"`
	Error          string                   `json:"error,omitempty"`
	Timestamp      time.Time                `json:"timestamp"`
}

// NewQueryResponse converts a QueryResult. Nil slices become empty arrays.
func NewQueryResponse(res entity.QueryResult, now time.Time) QueryResponse {
	out := QueryResponse{
		Kind:           string(res.Kind),
		Success:        res.Success,
		Ticker:         res.Ticker,
		Question:       res.Question,
		Answer:         res.Answer,
		StockData:      res.Quote,
		CompanyInfo:    res.Company,
		HistoricalData: res.History,
		ContextSources: res.Sources,
		News:           res.News,
		Resolved:       res.Resolved,
		ContextUsed:    res.ContextUsed,
		RiskScore:      res.RiskScore,
		Error:          res.Error,
		Timestamp:      now.UTC(),
	}
	if out.HistoricalData == nil {
		out.HistoricalData = []entity.HistoricalBar{}
	}
	if out.ContextSources == nil {
		out.ContextSources = []map[string]string{}
	}
	if out.News == nil {
		out.News = []entity.NewsItem{}
	}
	return out
}

// QuoteResponse is the body of GET /data/quote/:ticker.
type QuoteResponse struct {
	Ticker       string               `json:"ticker"`
	Quote        entity.Quote         `json:"quote"`
	CompanyInfo  entity.CompanyInfo   `json:"company_info"`
	MarketStatus *entity.MarketStatus `json:"market_status,omitempty"`
}

// HistoryResponse is the body of GET /data/history/:ticker.
type HistoryResponse struct {
	Ticker  string                 `json:"ticker"`
	History []entity.HistoricalBar `json:"history"`
	Period  string                 `json:"period"`
}

// NewHistoryResponse builds a HistoryResponse for a window of days.
func NewHistoryResponse(ticker string, bars []entity.HistoricalBar, days int) HistoryResponse {
	if bars == nil {
		bars = []entity.HistoricalBar{}
	}
	return HistoryResponse{Ticker: ticker, History: bars, Period: fmt.Sprintf("%d days", days)}
}
