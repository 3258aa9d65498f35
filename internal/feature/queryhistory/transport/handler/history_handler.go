// Package handler はqueryhistoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"stock_advisor/internal/feature/queryhistory/domain/entity"
	"stock_advisor/internal/feature/queryhistory/transport/http/dto"
	"stock_advisor/internal/feature/queryhistory/usecase"
)

// HistoryUsecase は履歴参照のユースケースです。
type HistoryUsecase interface {
	ListRecent(ctx context.Context, limit int) ([]entity.QueryRecord, error)
	ListByTicker(ctx context.Context, ticker string) ([]entity.QueryRecord, error)
}

// HistoryHandler は履歴に関するHTTPリクエストを処理します。
type HistoryHandler struct {
	uc HistoryUsecase
}

// NewHistoryHandler は新しい HistoryHandler を作成します。
func NewHistoryHandler(uc HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// ListRecent は GET /history?limit=N を処理します。
func (h *HistoryHandler) ListRecent(c *gin.Context) {
	limit := usecase.DefaultLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	recs, err := h.uc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("failed to list query history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewHistoryResponse("", recs))
}

// ListByTicker は GET /history/:ticker を処理します。
func (h *HistoryHandler) ListByTicker(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return
	}

	recs, err := h.uc.ListByTicker(c.Request.Context(), ticker)
	if err != nil {
		slog.Error("failed to list ticker history", "ticker", ticker, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewHistoryResponse(ticker, recs))
}
