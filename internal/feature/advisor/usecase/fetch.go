package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrentFetches は独立した取得元の数（quote / company / history / news）です。
const MaxConcurrentFetches = 4

// Outcome はタスクの結果を成功値かエラーのどちらかとして保持します。
// Wait が返るまで読み取ってはいけません。
type Outcome[T any] struct {
	Value T
	Err   error
}

// fetchGroup は同時実行数を制限したタスクグループです。
// 各タスクはエラーを Outcome に閉じ込めるため、兄弟タスクをキャンセルしません。
// ctx の期限を過ぎたタスクは完了を待たずに context のエラーとして確定します。
type fetchGroup struct {
	ctx context.Context
	g   errgroup.Group
	obs Observer
}

func newFetchGroup(ctx context.Context, limit int, obs Observer) *fetchGroup {
	fg := &fetchGroup{ctx: ctx, obs: obs}
	fg.g.SetLimit(limit)
	return fg
}

// submit は fn をグループで実行し、結果の格納先を返します。
func submit[T any](fg *fetchGroup, source string, fn func(ctx context.Context) (T, error)) *Outcome[T] {
	out := &Outcome[T]{}
	fg.g.Go(func() error {
		start := time.Now()
		out.Value, out.Err = race(fg.ctx, source, fn)
		fg.obs.ObserveFetch(source, out.Err, time.Since(start))
		if out.Err != nil {
			slog.Warn("upstream fetch failed", "source", source, "error", out.Err)
		}
		return nil
	})
	return out
}

// wait は全タスクの完了を待つ唯一の合流点です。
func (fg *fetchGroup) wait() {
	_ = fg.g.Wait()
}

// race は fn の完了と ctx の期限のうち早い方を結果とします。
// fn 内の panic はエラーに変換します。
func race[T any](ctx context.Context, source string, fn func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		var r result
		defer func() {
			if p := recover(); p != nil {
				r.err = fmt.Errorf("%s: panic: %v", source, p)
			}
			ch <- r
		}()
		r.v, r.err = fn(ctx)
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%s: %w", source, ctx.Err())
	}
}
