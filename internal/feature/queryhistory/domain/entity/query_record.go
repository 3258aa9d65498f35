// Package entity はqueryhistoryフィーチャーのドメインモデルを定義します。
package entity

import "time"

// QueryRecord は成功した投資クエリ1件の履歴です。
// QuoteJSON と CompanyJSON は回答時点のスナップショットをJSON文字列で保持します。
type QueryRecord struct {
	ID          uint      `gorm:"primaryKey"`
	Kind        string    `gorm:"size:20;not null;default:analysis"`
	Ticker      string    `gorm:"size:20;not null;index"`
	Question    string    `gorm:"type:text;not null"`
	Answer      string    `gorm:"type:text;not null"`
	QuoteJSON   string    `gorm:"type:text"`
	CompanyJSON string    `gorm:"type:text"`
	RiskScore   *int
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}
