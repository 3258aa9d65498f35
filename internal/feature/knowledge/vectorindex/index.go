// Package vectorindex は金融文書の埋め込みインデックスを実装します。
// 追記専用で、全件の内積計算による厳密なコサイン類似検索を行います。
package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"stock_advisor/internal/feature/knowledge/domain/entity"
)

// DefaultDimension は埋め込みベクトルの既定次元数です。
const DefaultDimension = 384

var (
	// ErrInvalidK は検索件数 k が 1 未満の場合に返されます。
	ErrInvalidK = errors.New("vectorindex: k must be >= 1")
	// ErrDimensionMismatch は埋め込みの次元がインデックスと一致しない場合に返されます。
	ErrDimensionMismatch = errors.New("vectorindex: embedding dimension mismatch")
)

// Embedder はテキストを固定次元のベクトルに変換します。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Index は正規化済みベクトルと文書・メタデータを位置で対応付けて保持します。
// 検索とスナップショット保存は読み取りロック、追記は書き込みロックで直列化されます。
type Index struct {
	mu       sync.RWMutex
	embedder Embedder
	dim      int
	vectors  []float32 // 行優先の n×dim 行列
	docs     []string
	meta     []map[string]string
	dir      string
}

// New は空のインデックスを生成します。dir はスナップショットの保存先です。
func New(dir string, embedder Embedder) *Index {
	return &Index{embedder: embedder, dim: embedder.Dimension(), dir: dir}
}

// Open はスナップショットを読み込んだインデックスを返します。
// 読み込みに失敗した場合はログを出し、空のインデックスを返します。
// 空の場合に PopulateDefaults を呼ぶかどうかは呼び出し側が決めます。
func Open(dir string, embedder Embedder) *Index {
	ix := New(dir, embedder)
	if err := ix.Load(); err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			slog.Info("vector index snapshot not found, starting empty", "dir", dir)
		} else {
			slog.Warn("failed to load vector index snapshot, starting empty", "dir", dir, "error", err)
		}
	}
	return ix
}

// Dimension はインデックスのベクトル次元を返します。
func (ix *Index) Dimension() int { return ix.dim }

// Len は格納済み文書数を返します。
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// IsEmpty は文書が1件もなければ true を返します。
func (ix *Index) IsEmpty() bool { return ix.Len() == 0 }

// Add は文書を埋め込み、正規化してインデックス末尾に追加します。
// 重複排除は行いません。
func (ix *Index) Add(ctx context.Context, content string, metadata map[string]string) error {
	vec, err := ix.embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}

	meta := copyMeta(metadata)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.appendLocked(vec, content, meta)
	return nil
}

// appendLocked は3つの並列配列を同時に伸ばす唯一の経路です。
func (ix *Index) appendLocked(vec []float32, content string, meta map[string]string) {
	ix.vectors = append(ix.vectors, vec...)
	ix.docs = append(ix.docs, content)
	ix.meta = append(ix.meta, meta)
}

// Search はクエリに最も近い文書を最大 k 件、スコア降順で返します。
// 同スコアの場合は挿入順を保ちます。空のインデックスでは k に関係なく、埋め込みを計算せず空の結果を返します。
func (ix *Index) Search(ctx context.Context, query string, k int) ([]entity.SearchResult, error) {
	if ix.IsEmpty() {
		return []entity.SearchResult{}, nil
	}
	if k < 1 {
		return nil, ErrInvalidK
	}

	q, err := ix.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := len(ix.docs)
	scores := make([]float64, n)
	order := make([]int, n)
	for i := 0; i < n; i++ {
		row := ix.vectors[i*ix.dim : (i+1)*ix.dim]
		scores[i] = dot(q, row)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > n {
		k = n
	}
	results := make([]entity.SearchResult, 0, k)
	for _, i := range order[:k] {
		results = append(results, entity.SearchResult{
			Content:  ix.docs[i],
			Metadata: copyMeta(ix.meta[i]),
			Score:    scores[i],
		})
	}
	return results, nil
}

// Documents は格納済み文書のコピーを挿入順に返します。
func (ix *Index) Documents() []entity.Document {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]entity.Document, len(ix.docs))
	for i := range ix.docs {
		out[i] = entity.Document{Content: ix.docs[i], Metadata: copyMeta(ix.meta[i])}
	}
	return out
}

// copyMeta は呼び出し側とインデックスがマップを共有しないようにコピーを返します。
func copyMeta(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (ix *Index) embed(ctx context.Context, text string) ([]float32, error) {
	v, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(v) != ix.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), ix.dim)
	}
	return normalize(v), nil
}

// normalize は L2 ノルムで正規化したコピーを返します。ゼロベクトルはそのまま返します。
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
