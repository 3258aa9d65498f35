// Package handler はknowledgeフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_advisor/internal/feature/knowledge/domain/entity"
	"stock_advisor/internal/feature/knowledge/transport/http/dto"
	"stock_advisor/internal/feature/knowledge/usecase"
	"stock_advisor/internal/platform/http/middleware"
)

// MaxSearchK は1回の検索で返す最大件数です。
const MaxSearchK = 50

// KnowledgeService は文書検索と追加のユースケースです。
type KnowledgeService interface {
	Search(ctx context.Context, query string, k int) ([]entity.SearchResult, error)
	AddDocument(ctx context.Context, content string, metadata map[string]string) error
}

// KnowledgeHandler は埋め込みインデックスのHTTPリクエストを処理します。
type KnowledgeHandler struct {
	svc KnowledgeService
}

// NewKnowledgeHandler は新しい KnowledgeHandler を作成します。
func NewKnowledgeHandler(svc KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

// Search は POST /search/vector を処理します。
func (h *KnowledgeHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.K < 0 || req.K > MaxSearchK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "k must be between 1 and 50"})
		return
	}

	results, err := h.svc.Search(c.Request.Context(), req.Query, req.K)
	if err != nil {
		slog.Error("vector search failed", "request_id", middleware.GetRequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, dto.NewSearchResponse(results))
}

// AddDocument は POST /documents を処理します。
func (h *KnowledgeHandler) AddDocument(c *gin.Context) {
	var req dto.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	if err := h.svc.AddDocument(c.Request.Context(), req.Content, req.Metadata); err != nil {
		if errors.Is(err, usecase.ErrEmptyContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}
		slog.Error("failed to add document", "request_id", middleware.GetRequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add document"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}
