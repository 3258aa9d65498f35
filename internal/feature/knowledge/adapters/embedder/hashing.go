// Package embedder はvectorindex.Embedderの実装を提供します。
package embedder

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"stock_advisor/internal/feature/knowledge/vectorindex"
)

var _ vectorindex.Embedder = (*HashingEmbedder)(nil)

// HashingEmbedder は単語とバイグラムを特徴ハッシングで固定次元に写像します。
// 外部サービスに依存しない決定的な埋め込みで、オフライン環境やテストで使います。
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder は次元数 dim の HashingEmbedder を返します。dim <= 0 の場合は既定値を使います。
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = vectorindex.DefaultDimension
	}
	return &HashingEmbedder{dim: dim}
}

func (e *HashingEmbedder) Dimension() int { return e.dim }

// Embed は正規化前のベクトルを返します。正規化はインデックス側で行います。
func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, e.dim)
	tokens := tokenize(text)
	for i, tok := range tokens {
		e.accumulate(v, tok, 1.0)
		if i > 0 {
			e.accumulate(v, tokens[i-1]+" "+tok, 0.5)
		}
	}
	return v, nil
}

func (e *HashingEmbedder) accumulate(v []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	v[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
