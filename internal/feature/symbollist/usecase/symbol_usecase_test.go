package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_advisor/internal/feature/symbollist/domain/entity"
	"stock_advisor/internal/feature/symbollist/usecase"
)

// mockSymbolRepository はSymbolRepositoryインターフェースのモック実装です。
type mockSymbolRepository struct {
	ListActiveFunc  func(ctx context.Context) ([]entity.Symbol, error)
	CountFunc       func(ctx context.Context) (int64, error)
	UpsertBatchFunc func(ctx context.Context, symbols []entity.Symbol) error
}

func (m *mockSymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockSymbolRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockSymbolRepository) UpsertBatch(ctx context.Context, symbols []entity.Symbol) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, symbols)
	}
	return nil
}

// TestSymbolUsecase_ListActiveSymbols はListActiveSymbolsメソッドの各種シナリオをテーブル駆動テストで検証します。
func TestSymbolUsecase_ListActiveSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		mockListActive  func(ctx context.Context) ([]entity.Symbol, error)
		expectedSymbols []entity.Symbol
		errMsg          string
	}{
		{
			name: "success: returns list of active symbols",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{
					{ID: 1, Code: "AAPL", Name: "Apple Inc.", Market: "NASDAQ", IsActive: true, SortKey: 1},
					{ID: 2, Code: "MSFT", Name: "Microsoft Corporation", Market: "NASDAQ", IsActive: true, SortKey: 2},
				}, nil
			},
			expectedSymbols: []entity.Symbol{
				{ID: 1, Code: "AAPL", Name: "Apple Inc.", Market: "NASDAQ", IsActive: true, SortKey: 1},
				{ID: 2, Code: "MSFT", Name: "Microsoft Corporation", Market: "NASDAQ", IsActive: true, SortKey: 2},
			},
		},
		{
			name: "success: returns empty list when no active symbols",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{}, nil
			},
			expectedSymbols: []entity.Symbol{},
		},
		{
			name: "error: repository returns error",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, errors.New("database connection failed")
			},
			errMsg: "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&mockSymbolRepository{ListActiveFunc: tt.mockListActive})
			symbols, err := uc.ListActiveSymbols(context.Background())

			if tt.errMsg != "" {
				assert.EqualError(t, err, tt.errMsg)
				assert.Nil(t, symbols)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSymbols, symbols)
		})
	}
}

// TestSymbolUsecase_SeedDefaults は空のマスターにのみ初期銘柄が登録されることを検証します。
func TestSymbolUsecase_SeedDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		count         int64
		countErr      error
		upsertErr     error
		expectedN     int
		expectUpsert  bool
		expectedError string
	}{
		{
			name:         "success: empty master is seeded",
			count:        0,
			expectedN:    len(usecase.DefaultSymbols),
			expectUpsert: true,
		},
		{
			name:      "success: populated master is left untouched",
			count:     3,
			expectedN: 0,
		},
		{
			name:          "error: count failure",
			countErr:      errors.New("db down"),
			expectedError: "count symbols: db down",
		},
		{
			name:          "error: upsert failure",
			upsertErr:     errors.New("constraint"),
			expectUpsert:  true,
			expectedError: "seed symbols: constraint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var upserted []entity.Symbol
			repo := &mockSymbolRepository{
				CountFunc: func(context.Context) (int64, error) { return tt.count, tt.countErr },
				UpsertBatchFunc: func(_ context.Context, symbols []entity.Symbol) error {
					upserted = symbols
					return tt.upsertErr
				},
			}

			n, err := usecase.NewSymbolUsecase(repo).SeedDefaults(context.Background())
			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedN, n)
			}
			assert.Equal(t, tt.expectUpsert, upserted != nil)
		})
	}
}
