// Package cache provides Redis caching decorators for upstream market data fetchers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/advisor/usecase"
)

// DefaultNamespace is the key prefix used when none is given.
const DefaultNamespace = "market"

// TTLFunc returns how long an entry written at now stays valid.
type TTLFunc func(now time.Time) time.Duration

// CachingMarket decorates history and company fetchers with Redis caching.
// Daily bars and fundamentals only change between sessions, so entries expire at the next market open.
// Quotes and news are not cached.
type CachingMarket struct {
	history   usecase.HistoryFetcher
	companies usecase.CompanyFetcher
	rdb       *redis.Client
	ttl       TTLFunc
	namespace string
	now       func() time.Time
}

var (
	_ usecase.HistoryFetcher = (*CachingMarket)(nil)
	_ usecase.CompanyFetcher = (*CachingMarket)(nil)
)

// NewCachingMarket decorates the given fetchers with Redis caching.
// If ttl is nil, entries expire at the next market open. If namespace is empty, it uses "market".
func NewCachingMarket(rdb *redis.Client, history usecase.HistoryFetcher, companies usecase.CompanyFetcher, ttl TTLFunc, namespace string) *CachingMarket {
	if ttl == nil {
		ttl = TimeUntilNextMarketOpen
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingMarket{
		history:   history,
		companies: companies,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// GetHistory returns daily bars, checking the cache first and falling back to the inner fetcher.
func (c *CachingMarket) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error) {
	if c.rdb == nil {
		return c.history.GetHistory(ctx, symbol, from, to)
	}

	key := c.historyKey(symbol, from, to)
	var cached []entity.HistoricalBar
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.history.GetHistory(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		c.store(ctx, key, out)
	}
	return out, nil
}

// GetCompanyInfo returns fundamentals, checking the cache first and falling back to the inner fetcher.
// Error records are never cached.
func (c *CachingMarket) GetCompanyInfo(ctx context.Context, symbol string) (entity.CompanyInfo, error) {
	if c.rdb == nil {
		return c.companies.GetCompanyInfo(ctx, symbol)
	}

	key := c.companyKey(symbol)
	var cached entity.CompanyInfo
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.companies.GetCompanyInfo(ctx, symbol)
	if err != nil {
		return out, err
	}
	if out.OK() {
		c.store(ctx, key, out)
	}
	return out, nil
}

// lookup decodes a cached value into dst. Corrupted entries are deleted.
func (c *CachingMarket) lookup(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		slog.Warn("corrupted cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes a value (best effort).
func (c *CachingMarket) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl(c.now())).Err(); err != nil {
		slog.Warn("failed to write cache entry", "key", key, "error", err)
	}
}

func (c *CachingMarket) historyKey(symbol string, from, to time.Time) string {
	return fmt.Sprintf("%s:history:%s:%s:%s",
		c.namespace,
		safe(strings.ToUpper(symbol)),
		from.UTC().Format("2006-01-02"),
		to.UTC().Format("2006-01-02"),
	)
}

func (c *CachingMarket) companyKey(symbol string) string {
	return fmt.Sprintf("%s:company:%s", c.namespace, safe(strings.ToUpper(symbol)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
