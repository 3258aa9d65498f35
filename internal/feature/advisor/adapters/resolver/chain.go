// Package resolver は複数の銘柄解決手段を順に試すリゾルバーを提供します。
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/advisor/usecase"
)

// Named は名前付きのリゾルバーです。ログ出力に使います。
type Named struct {
	Name     string
	Resolver usecase.TickerResolver
}

// Chain は登録順にリゾルバーを試し、最初に解決できた結果を返します。
type Chain struct {
	links []Named
}

var _ usecase.TickerResolver = (*Chain)(nil)

// NewChain は nil のリゾルバーを除いて Chain を生成します。
func NewChain(links ...Named) *Chain {
	c := &Chain{}
	for _, l := range links {
		if l.Resolver != nil {
			c.links = append(c.links, l)
		}
	}
	return c
}

// Resolve はどのリゾルバーでも解決できなかった場合に nil を返します。
// 途中の失敗は次のリゾルバーへ進み、全滅した場合のみエラーをまとめて返します。
func (c *Chain) Resolve(ctx context.Context, query string) (*entity.TickerResolution, error) {
	var errs []error
	for _, l := range c.links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := l.Resolver.Resolve(ctx, query)
		if err != nil {
			slog.Warn("ticker resolver failed", "resolver", l.Name, "query", query, "error", err)
			errs = append(errs, err)
			continue
		}
		if res != nil {
			return res, nil
		}
	}
	if len(errs) == len(c.links) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
