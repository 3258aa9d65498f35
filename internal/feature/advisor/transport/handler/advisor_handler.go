// Package handler はadvisorフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/advisor/transport/http/dto"
	"stock_advisor/internal/platform/http/middleware"
)

const (
	// DefaultHistoryDays は days 未指定時の履歴日数です。
	DefaultHistoryDays = 30
	// MaxHistoryDays は指定できる最大の履歴日数です。
	MaxHistoryDays = 3650
)

// QueryAdvisor は投資クエリのユースケースです。
type QueryAdvisor interface {
	AnalyzeInvestmentQuery(ctx context.Context, companyOrTicker, question string) entity.QueryResult
	GenerateDetailedReport(ctx context.Context, companyOrTicker, question string) entity.QueryResult
}

// MarketData は生データ取得用のプロバイダーです。
type MarketData interface {
	GetQuote(ctx context.Context, symbol string) (entity.Quote, error)
	GetCompanyInfo(ctx context.Context, symbol string) (entity.CompanyInfo, error)
	GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error)
}

// MarketStatusFetcher は市場の開閉状態を取得します。
type MarketStatusFetcher interface {
	GetMarketStatus(ctx context.Context) (entity.MarketStatus, error)
}

// ResultRecorder は成功したクエリ結果を履歴に保存します。
type ResultRecorder interface {
	Record(ctx context.Context, res entity.QueryResult) error
}

// AdvisorHandler は投資クエリとマーケットデータのHTTPリクエストを処理します。
type AdvisorHandler struct {
	advisor  QueryAdvisor
	market   MarketData
	status   MarketStatusFetcher
	recorder ResultRecorder
	now      func() time.Time
}

// NewAdvisorHandler は新しい AdvisorHandler を作成します。status と recorder は nil でも構いません。
func NewAdvisorHandler(advisor QueryAdvisor, market MarketData, status MarketStatusFetcher, recorder ResultRecorder) *AdvisorHandler {
	return &AdvisorHandler{
		advisor:  advisor,
		market:   market,
		status:   status,
		recorder: recorder,
		now:      time.Now,
	}
}

// Ask は POST /ask を処理します。
// 回答生成に失敗した場合も 200 で success=false と取得済みデータを返します。
func (h *AdvisorHandler) Ask(c *gin.Context) {
	req, ok := bindQuery(c)
	if !ok {
		return
	}

	res := h.advisor.AnalyzeInvestmentQuery(c.Request.Context(), req.Company, req.Question)
	if res.Success {
		h.record(c, res)
	} else {
		slog.Warn("investment query failed",
			"request_id", middleware.GetRequestID(c), "company", req.Company, "error", res.Error)
	}
	c.JSON(http.StatusOK, dto.NewQueryResponse(res, h.now()))
}

// Report は POST /reports/stock を処理し、詳細レポートをJSONで返します。
func (h *AdvisorHandler) Report(c *gin.Context) {
	req, ok := bindQuery(c)
	if !ok {
		return
	}

	res := h.advisor.GenerateDetailedReport(c.Request.Context(), req.Company, req.Question)
	if !res.Success {
		slog.Error("report generation failed",
			"request_id", middleware.GetRequestID(c), "company", req.Company, "error", res.Error)
		msg := res.Error
		if msg == "" {
			msg = "Report generation failed"
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}
	h.record(c, res)
	c.JSON(http.StatusOK, dto.NewQueryResponse(res, h.now()))
}

// Quote は GET /data/quote/:ticker を処理します。
// 企業情報と市場状態の取得失敗はレスポンスに反映し、現在値の取得失敗のみエラーにします。
func (h *AdvisorHandler) Quote(c *gin.Context) {
	ticker := normalizeTicker(c.Param("ticker"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return
	}
	ctx := c.Request.Context()

	quote, err := h.market.GetQuote(ctx, ticker)
	if err != nil {
		slog.Error("failed to fetch quote", "request_id", middleware.GetRequestID(c), "ticker", ticker, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch stock data: " + err.Error()})
		return
	}

	company, err := h.market.GetCompanyInfo(ctx, ticker)
	if err != nil {
		company = entity.CompanyError(ticker, err)
	}

	out := dto.QuoteResponse{Ticker: ticker, Quote: quote, CompanyInfo: company}
	if h.status != nil {
		st, err := h.status.GetMarketStatus(ctx)
		if err != nil {
			slog.Warn("failed to fetch market status", "error", err)
		}
		out.MarketStatus = &st
	}
	c.JSON(http.StatusOK, out)
}

// History は GET /data/history/:ticker?days=N を処理します。
func (h *AdvisorHandler) History(c *gin.Context) {
	ticker := normalizeTicker(c.Param("ticker"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return
	}

	days := DefaultHistoryDays
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxHistoryDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 3650"})
			return
		}
		days = n
	}

	to := h.now().UTC()
	from := to.AddDate(0, 0, -days)
	bars, err := h.market.GetHistory(c.Request.Context(), ticker, from, to)
	if err != nil {
		slog.Error("failed to fetch history", "request_id", middleware.GetRequestID(c), "ticker", ticker, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch historical data: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewHistoryResponse(ticker, bars, days))
}

func (h *AdvisorHandler) record(c *gin.Context, res entity.QueryResult) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.Record(c.Request.Context(), res); err != nil {
		slog.Error("failed to save query history",
			"request_id", middleware.GetRequestID(c), "ticker", res.Ticker, "error", err)
	}
}

func bindQuery(c *gin.Context) (dto.QueryRequest, bool) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Company) == "" || strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both company and question are required"})
		return req, false
	}
	return req, true
}

func normalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
