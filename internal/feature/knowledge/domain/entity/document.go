// Package entity はknowledgeフィーチャー（埋め込みインデックス）のドメインモデルを定義します。
package entity

// Document はインデックスに格納された1件の文書です。
// 挿入位置以外の識別子は持たず、追加後は変更されません。
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// SearchResult は類似検索の1件分の結果です。
// Score はコサイン類似度で [-1, 1] の範囲を取ります。
type SearchResult struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}
