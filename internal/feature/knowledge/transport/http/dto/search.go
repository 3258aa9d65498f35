// Package dto はknowledgeフィーチャーのHTTPリクエスト・レスポンス型を定義します。
package dto

import "stock_advisor/internal/feature/knowledge/domain/entity"

// SearchRequest は POST /search/vector のリクエストです。K が 0 の場合は既定件数になります。
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	K     int    `json:"k"`
}

// SearchResponse は類似検索の結果です。
type SearchResponse struct {
	Results []entity.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// NewSearchResponse は検索結果からレスポンスを組み立てます。
func NewSearchResponse(results []entity.SearchResult) SearchResponse {
	if results == nil {
		results = []entity.SearchResult{}
	}
	return SearchResponse{Results: results, Count: len(results)}
}

// AddDocumentRequest は POST /documents のリクエストです。
type AddDocumentRequest struct {
	Content  string            `json:"content" binding:"required"`
	Metadata map[string]string `json:"metadata"`
}
