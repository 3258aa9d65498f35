// Package router builds the gin engine and registers every HTTP route.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	advisorhandler "stock_advisor/internal/feature/advisor/transport/handler"
	knowledgehandler "stock_advisor/internal/feature/knowledge/transport/handler"
	logohandler "stock_advisor/internal/feature/logodetection/transport/handler"
	historyhandler "stock_advisor/internal/feature/queryhistory/transport/handler"
	symbollisthandler "stock_advisor/internal/feature/symbollist/transport/handler"
	"stock_advisor/internal/platform/http/handler"
	"stock_advisor/internal/platform/http/middleware"
)

// Handlers holds the handlers mounted by NewRouter. Logo and Metrics may be nil.
type Handlers struct {
	Health    *handler.HealthHandler
	Advisor   *advisorhandler.AdvisorHandler
	Knowledge *knowledgehandler.KnowledgeHandler
	History   *historyhandler.HistoryHandler
	Symbols   *symbollisthandler.SymbolHandler
	Logo      *logohandler.LogoDetectionHandler
	Metrics   http.Handler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// 投資クエリ
	r.POST("/ask", h.Advisor.Ask)
	r.POST("/reports/stock", h.Advisor.Report)

	// 生データ
	r.GET("/data/quote/:ticker", h.Advisor.Quote)
	r.GET("/data/history/:ticker", h.Advisor.History)

	// 埋め込みインデックス
	r.POST("/search/vector", h.Knowledge.Search)
	r.POST("/documents", h.Knowledge.AddDocument)

	// クエリ履歴
	r.GET("/history", h.History.ListRecent)
	r.GET("/history/:ticker", h.History.ListByTicker)

	r.GET("/symbols", h.Symbols.List)

	if h.Logo != nil {
		v1 := r.Group("/v1/logo")
		v1.POST("/detect", h.Logo.DetectLogos)
		v1.POST("/ask", h.Logo.AskAboutLogo)
	}

	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	return r
}
