// Package usecase は投資クエリ履歴の保存と参照を実装します。
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	advisor "stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/queryhistory/domain/entity"
)

const (
	// DefaultLimit は件数指定がない場合の取得件数です。
	DefaultLimit = 10
	// MaxLimit は一度に取得できる最大件数です。
	MaxLimit = 100
)

var (
	// ErrInvalidLimit は件数指定が範囲外の場合に返されます。
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
	// ErrUnsuccessfulResult は失敗した結果を保存しようとした場合に返されます。
	ErrUnsuccessfulResult = errors.New("only successful results are recorded")
)

// QueryRepository は履歴の永続化を抽象化します。
type QueryRepository interface {
	Save(ctx context.Context, rec *entity.QueryRecord) error
	ListRecent(ctx context.Context, limit int) ([]entity.QueryRecord, error)
	ListByTicker(ctx context.Context, ticker string) ([]entity.QueryRecord, error)
}

// QueryHistoryUsecase は履歴に関するビジネスロジックを提供します。
type QueryHistoryUsecase struct {
	repo QueryRepository
}

// NewQueryHistoryUsecase は新しい QueryHistoryUsecase を生成します。
func NewQueryHistoryUsecase(repo QueryRepository) *QueryHistoryUsecase {
	return &QueryHistoryUsecase{repo: repo}
}

// Record は成功した QueryResult を履歴として保存します。
func (u *QueryHistoryUsecase) Record(ctx context.Context, res advisor.QueryResult) error {
	if !res.Success {
		return ErrUnsuccessfulResult
	}

	rec := &entity.QueryRecord{
		Kind:      string(res.Kind),
		Ticker:    strings.ToUpper(res.Ticker),
		Question:  res.Question,
		Answer:    res.Answer,
		RiskScore: res.RiskScore,
	}
	if rec.Kind == "" {
		rec.Kind = string(advisor.KindAnalysis)
	}
	if res.Quote != nil {
		b, err := json.Marshal(res.Quote)
		if err != nil {
			return fmt.Errorf("encode quote: %w", err)
		}
		rec.QuoteJSON = string(b)
	}
	if res.Company != nil {
		b, err := json.Marshal(res.Company)
		if err != nil {
			return fmt.Errorf("encode company: %w", err)
		}
		rec.CompanyJSON = string(b)
	}

	if err := u.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("save query record: %w", err)
	}
	return nil
}

// ListRecent は新しい順に最大 limit 件を返します。0 は DefaultLimit として扱います。
func (u *QueryHistoryUsecase) ListRecent(ctx context.Context, limit int) ([]entity.QueryRecord, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 || limit > MaxLimit {
		return nil, ErrInvalidLimit
	}
	return u.repo.ListRecent(ctx, limit)
}

// ListByTicker は指定ティッカーの履歴を新しい順にすべて返します。
func (u *QueryHistoryUsecase) ListByTicker(ctx context.Context, ticker string) ([]entity.QueryRecord, error) {
	return u.repo.ListByTicker(ctx, strings.ToUpper(strings.TrimSpace(ticker)))
}
