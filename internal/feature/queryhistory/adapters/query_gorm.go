// Package adapters はqueryhistoryフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"stock_advisor/internal/feature/queryhistory/domain/entity"
	"stock_advisor/internal/feature/queryhistory/usecase"
)

// queryGorm はQueryRepositoryインターフェースのGORM実装です。
type queryGorm struct {
	db *gorm.DB
}

var _ usecase.QueryRepository = (*queryGorm)(nil)

// NewQueryRepository は指定されたDB接続でリポジトリを生成します。
func NewQueryRepository(db *gorm.DB) *queryGorm {
	return &queryGorm{db: db}
}

// Save は履歴を1件保存し、rec.ID と rec.CreatedAt を設定します。
func (r *queryGorm) Save(ctx context.Context, rec *entity.QueryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListRecent は作成日時の新しい順に最大 limit 件を返します。
func (r *queryGorm) ListRecent(ctx context.Context, limit int) ([]entity.QueryRecord, error) {
	var recs []entity.QueryRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// ListByTicker は指定ティッカーの履歴を新しい順に返します。
func (r *queryGorm) ListByTicker(ctx context.Context, ticker string) ([]entity.QueryRecord, error) {
	var recs []entity.QueryRecord
	if err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("created_at DESC").
		Order("id DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
