package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_advisor/internal/feature/queryhistory/domain/entity"
	"stock_advisor/internal/feature/queryhistory/transport/http/dto"
	"stock_advisor/internal/feature/queryhistory/usecase"
)

// mockHistoryUsecase はHistoryUsecaseのモック実装です。
type mockHistoryUsecase struct {
	ListRecentFunc   func(ctx context.Context, limit int) ([]entity.QueryRecord, error)
	ListByTickerFunc func(ctx context.Context, ticker string) ([]entity.QueryRecord, error)
}

func (m *mockHistoryUsecase) ListRecent(ctx context.Context, limit int) ([]entity.QueryRecord, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockHistoryUsecase) ListByTicker(ctx context.Context, ticker string) ([]entity.QueryRecord, error) {
	if m.ListByTickerFunc != nil {
		return m.ListByTickerFunc(ctx, ticker)
	}
	return nil, nil
}

func newRouter(uc HistoryUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHistoryHandler(uc)
	r := gin.New()
	r.GET("/history", h.ListRecent)
	r.GET("/history/:ticker", h.ListByTicker)
	return r
}

var sample = entity.QueryRecord{
	ID:        1,
	Kind:      "analysis",
	Ticker:    "TSLA",
	Question:  "Is Tesla a good investment?",
	Answer:    "Maybe.",
	QuoteJSON: `{"symbol":"TSLA","price":250}`,
	CreatedAt: time.Date(2024, 6, 28, 12, 0, 0, 0, time.UTC),
}

func TestHistoryHandler_ListRecent(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		listFn         func(ctx context.Context, limit int) ([]entity.QueryRecord, error)
		expectedStatus int
		expectedLimit  int
		expectedTotal  int
	}{
		{
			name: "success: default limit",
			listFn: func(_ context.Context, _ int) ([]entity.QueryRecord, error) {
				return []entity.QueryRecord{sample}, nil
			},
			expectedStatus: http.StatusOK,
			expectedLimit:  usecase.DefaultLimit,
			expectedTotal:  1,
		},
		{
			name:  "success: explicit limit",
			query: "?limit=3",
			listFn: func(_ context.Context, _ int) ([]entity.QueryRecord, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedLimit:  3,
		},
		{
			name:           "error: non-integer limit",
			query:          "?limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "error: out of range limit",
			query: "?limit=1000",
			listFn: func(_ context.Context, _ int) ([]entity.QueryRecord, error) {
				return nil, usecase.ErrInvalidLimit
			},
			expectedStatus: http.StatusBadRequest,
			expectedLimit:  1000,
		},
		{
			name: "error: repository failure",
			listFn: func(_ context.Context, _ int) ([]entity.QueryRecord, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedLimit:  usecase.DefaultLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLimit := 0
			uc := &mockHistoryUsecase{ListRecentFunc: func(ctx context.Context, limit int) ([]entity.QueryRecord, error) {
				gotLimit = limit
				return tt.listFn(ctx, limit)
			}}

			w := httptest.NewRecorder()
			newRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedLimit, gotLimit)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var body dto.HistoryResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedTotal, body.Total)
			assert.Len(t, body.Queries, tt.expectedTotal)
		})
	}
}

func TestHistoryHandler_ListByTicker(t *testing.T) {
	t.Run("success: ticker is uppercased and snapshots are embedded", func(t *testing.T) {
		var got string
		uc := &mockHistoryUsecase{ListByTickerFunc: func(_ context.Context, ticker string) ([]entity.QueryRecord, error) {
			got = ticker
			return []entity.QueryRecord{sample}, nil
		}}

		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history/tsla", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "TSLA", got)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "TSLA", body["ticker"])
		assert.Equal(t, 1.0, body["total"])
		item := body["queries"].([]any)[0].(map[string]any)
		assert.Equal(t, map[string]any{"symbol": "TSLA", "price": 250.0}, item["stock_data"])
		assert.Nil(t, item["company_info"])
		assert.Equal(t, "2024-06-28T12:00:00Z", item["timestamp"])
	})

	t.Run("error: repository failure", func(t *testing.T) {
		uc := &mockHistoryUsecase{ListByTickerFunc: func(context.Context, string) ([]entity.QueryRecord, error) {
			return nil, errors.New("db down")
		}}

		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history/TSLA", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"database error"}`, w.Body.String())
	})
}
