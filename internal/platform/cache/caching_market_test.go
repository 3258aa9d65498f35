package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_advisor/internal/feature/advisor/domain/entity"
)

// mockMarket はテスト用のHistoryFetcher/CompanyFetcherモック実装です。
type mockMarket struct {
	historyFn func(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error)
	companyFn func(ctx context.Context, symbol string) (entity.CompanyInfo, error)
	calls     int
}

func (m *mockMarket) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error) {
	m.calls++
	if m.historyFn != nil {
		return m.historyFn(ctx, symbol, from, to)
	}
	return nil, nil
}

func (m *mockMarket) GetCompanyInfo(ctx context.Context, symbol string) (entity.CompanyInfo, error) {
	m.calls++
	if m.companyFn != nil {
		return m.companyFn(ctx, symbol)
	}
	return entity.CompanyInfo{}, nil
}

func fixedTTL(time.Time) time.Duration { return 5 * time.Minute }

var (
	from = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	bars = []entity.HistoricalBar{
		{Date: time.Date(2024, 6, 27, 0, 0, 0, 0, time.UTC), Close: 10, Volume: 100},
		{Date: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC), Close: 11, Volume: 110},
	}
)

const historyKey = "market:history:TSLA:2024-06-01:2024-06-30"

// TestNewCachingMarket_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingMarket_Defaults(t *testing.T) {
	t.Parallel()

	c := NewCachingMarket(nil, &mockMarket{}, &mockMarket{}, nil, "")
	assert.Equal(t, DefaultNamespace, c.namespace)
	assert.NotNil(t, c.ttl)

	c = NewCachingMarket(nil, &mockMarket{}, &mockMarket{}, fixedTTL, "custom")
	assert.Equal(t, "custom", c.namespace)
	assert.Equal(t, 5*time.Minute, c.ttl(time.Now()))
}

func TestCachingMarket_GetHistory(t *testing.T) {
	t.Parallel()

	t.Run("success: nil redis bypasses cache", func(t *testing.T) {
		t.Parallel()
		inner := &mockMarket{historyFn: func(context.Context, string, time.Time, time.Time) ([]entity.HistoricalBar, error) {
			return bars, nil
		}}
		c := NewCachingMarket(nil, inner, inner, fixedTTL, "")

		got, err := c.GetHistory(context.Background(), "TSLA", from, to)
		require.NoError(t, err)
		assert.Equal(t, bars, got)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("success: cache hit skips inner fetcher", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		cached, _ := json.Marshal(bars)
		mock.ExpectGet(historyKey).SetVal(string(cached))

		inner := &mockMarket{}
		c := NewCachingMarket(rdb, inner, inner, fixedTTL, "")

		got, err := c.GetHistory(context.Background(), "tsla", from, to)
		require.NoError(t, err)
		assert.Equal(t, bars, got)
		assert.Zero(t, inner.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: cache miss fetches and stores", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		expectedJSON, _ := json.Marshal(bars)
		mock.ExpectGet(historyKey).RedisNil()
		mock.ExpectSet(historyKey, expectedJSON, 5*time.Minute).SetVal("OK")

		inner := &mockMarket{historyFn: func(context.Context, string, time.Time, time.Time) ([]entity.HistoricalBar, error) {
			return bars, nil
		}}
		c := NewCachingMarket(rdb, inner, inner, fixedTTL, "")

		got, err := c.GetHistory(context.Background(), "TSLA", from, to)
		require.NoError(t, err)
		assert.Equal(t, bars, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: empty result is not cached", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		mock.ExpectGet(historyKey).RedisNil()

		inner := &mockMarket{}
		c := NewCachingMarket(rdb, inner, inner, fixedTTL, "")

		got, err := c.GetHistory(context.Background(), "TSLA", from, to)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: corrupted entry is deleted and refetched", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		expectedJSON, _ := json.Marshal(bars)
		mock.ExpectGet(historyKey).SetVal("{broken")
		mock.ExpectDel(historyKey).SetVal(1)
		mock.ExpectSet(historyKey, expectedJSON, 5*time.Minute).SetVal("OK")

		inner := &mockMarket{historyFn: func(context.Context, string, time.Time, time.Time) ([]entity.HistoricalBar, error) {
			return bars, nil
		}}
		c := NewCachingMarket(rdb, inner, inner, fixedTTL, "")

		got, err := c.GetHistory(context.Background(), "TSLA", from, to)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: inner failure is returned and not cached", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		mock.ExpectGet(historyKey).RedisNil()

		inner := &mockMarket{historyFn: func(context.Context, string, time.Time, time.Time) ([]entity.HistoricalBar, error) {
			return nil, errors.New("upstream down")
		}}
		c := NewCachingMarket(rdb, inner, inner, fixedTTL, "")

		_, err := c.GetHistory(context.Background(), "TSLA", from, to)
		assert.EqualError(t, err, "upstream down")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCachingMarket_GetCompanyInfo(t *testing.T) {
	t.Parallel()

	beta := 2.1
	info := entity.CompanyInfo{Symbol: "TSLA", Name: "Tesla, Inc.", Beta: &beta}

	t.Run("success: cache miss fetches and stores", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		expectedJSON, _ := json.Marshal(info)
		mock.ExpectGet("market:company:TSLA").RedisNil()
		mock.ExpectSet("market:company:TSLA", expectedJSON, 5*time.Minute).SetVal("OK")

		inner := &mockMarket{companyFn: func(context.Context, string) (entity.CompanyInfo, error) { return info, nil }}
		c := NewCachingMarket(rdb, inner, inner, fixedTTL, "")

		got, err := c.GetCompanyInfo(context.Background(), "TSLA")
		require.NoError(t, err)
		assert.Equal(t, info, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: cache hit keeps optional fields", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		cached, _ := json.Marshal(info)
		mock.ExpectGet("market:company:TSLA").SetVal(string(cached))

		inner := &mockMarket{}
		c := NewCachingMarket(rdb, inner, inner, fixedTTL, "")

		got, err := c.GetCompanyInfo(context.Background(), "TSLA")
		require.NoError(t, err)
		require.NotNil(t, got.Beta)
		assert.Equal(t, 2.1, *got.Beta)
		assert.Nil(t, got.MarketCap)
		assert.Zero(t, inner.calls)
	})

	t.Run("success: error record is not cached", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		mock.ExpectGet("market:company:TSLA").RedisNil()

		inner := &mockMarket{companyFn: func(context.Context, string) (entity.CompanyInfo, error) {
			return entity.CompanyError("TSLA", errors.New("no data")), nil
		}}
		c := NewCachingMarket(rdb, inner, inner, fixedTTL, "")

		got, err := c.GetCompanyInfo(context.Background(), "TSLA")
		require.NoError(t, err)
		assert.False(t, got.OK())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
