// Package entity はlogodetectionフィーチャーのドメインモデルを定義します。
package entity

import advisor "stock_advisor/internal/feature/advisor/domain/entity"

// DetectedLogo は画像から検出されたロゴを表します。
type DetectedLogo struct {
	Name       string  // 検出された企業名
	Confidence float32 // 信頼度スコア（0.0 ~ 1.0）
}

// LogoAnswer はロゴから特定した企業に対する投資クエリの結果です。
type LogoAnswer struct {
	Logo   DetectedLogo
	Result advisor.QueryResult
}
