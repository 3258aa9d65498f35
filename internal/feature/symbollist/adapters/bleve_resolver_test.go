package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_advisor/internal/feature/symbollist/domain/entity"
	"stock_advisor/internal/feature/symbollist/usecase"
)

func TestLocalResolver_Resolve(t *testing.T) {
	t.Parallel()

	r, err := NewLocalResolver(usecase.DefaultSymbols)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	assert.Equal(t, len(usecase.DefaultSymbols), r.Len())

	tests := []struct {
		name           string
		query          string
		expectedSymbol string
		expectedName   string
	}{
		{name: "success: exact ticker", query: "TSLA", expectedSymbol: "TSLA", expectedName: "Tesla, Inc."},
		{name: "success: lowercase ticker", query: " nvda ", expectedSymbol: "NVDA", expectedName: "NVIDIA Corporation"},
		{name: "success: company name", query: "Tesla", expectedSymbol: "TSLA", expectedName: "Tesla, Inc."},
		{name: "success: case-insensitive name", query: "microsoft", expectedSymbol: "MSFT"},
		{name: "success: hyphenated name", query: "Coca Cola", expectedSymbol: "KO"},
		{name: "success: etf kind", query: "SPY", expectedSymbol: "SPY"},
		{name: "success: no match", query: "zzzz qqqq"},
		{name: "success: blank input", query: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Resolve(context.Background(), tt.query)
			require.NoError(t, err)
			if tt.expectedSymbol == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expectedSymbol, got.Symbol)
			if tt.expectedName != "" {
				assert.Equal(t, tt.expectedName, got.DisplayName)
			}
		})
	}
}

func TestLocalResolver_Kind(t *testing.T) {
	t.Parallel()

	r, err := NewLocalResolver([]entity.Symbol{
		{Code: "qqq", Name: "Invesco QQQ Trust", Market: "NASDAQ", Kind: "ETF"},
		{Code: "", Name: "ignored"},
	})
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Resolve(context.Background(), "Invesco")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "QQQ", got.Symbol)
	assert.Equal(t, "ETF", got.Kind)
	assert.Equal(t, "NASDAQ", got.Exchange)
	assert.Equal(t, 1, r.Len())
}
