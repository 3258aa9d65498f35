// Package usecase は埋め込みインデックスへの文書投入と検索のユースケースを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"stock_advisor/internal/feature/knowledge/domain/entity"
	"stock_advisor/internal/shared/ratelimiter"
)

// DefaultSearchK は検索件数が指定されなかった場合の既定値です。
const DefaultSearchK = 5

// ErrEmptyContent は空の文書を追加しようとした場合に返されます。
var ErrEmptyContent = errors.New("document content is empty")

// DocumentIndex は埋め込みインデックスの操作を抽象化します。
type DocumentIndex interface {
	Add(ctx context.Context, content string, metadata map[string]string) error
	Search(ctx context.Context, query string, k int) ([]entity.SearchResult, error)
	Save() error
	Len() int
}

// TextExtractor はファイルから本文テキストを取り出します。
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// KnowledgeUsecase は文書の投入・検索を行います。
type KnowledgeUsecase struct {
	index     DocumentIndex
	extractor TextExtractor
	limiter   ratelimiter.Limiter
}

// NewKnowledgeUsecase は KnowledgeUsecase を生成します。
// limiter は埋め込み計算の前に毎回呼ばれます。
func NewKnowledgeUsecase(index DocumentIndex, extractor TextExtractor, limiter ratelimiter.Limiter) *KnowledgeUsecase {
	return &KnowledgeUsecase{index: index, extractor: extractor, limiter: limiter}
}

// Search はクエリに近い文書を返します。k <= 0 は DefaultSearchK として扱います。
func (u *KnowledgeUsecase) Search(ctx context.Context, query string, k int) ([]entity.SearchResult, error) {
	if k <= 0 {
		k = DefaultSearchK
	}
	return u.index.Search(ctx, query, k)
}

// AddDocument は1件の文書を追加し、スナップショットを保存します。
// 保存の失敗はログのみで、追加自体は成功として扱います。
func (u *KnowledgeUsecase) AddDocument(ctx context.Context, content string, metadata map[string]string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	if err := u.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := u.index.Add(ctx, content, metadata); err != nil {
		return err
	}
	_ = u.index.Save()
	return nil
}

// IngestText はテキストをチャンクに分割して追加します。
// 1チャンクの失敗では処理を止めず、追加できた件数を返します。
func (u *KnowledgeUsecase) IngestText(ctx context.Context, text, source string, metadata map[string]string) (int, error) {
	chunks := ChunkText(text, DefaultSentencesPerChunk)
	added := 0
	for i, c := range chunks {
		if err := u.limiter.Wait(ctx); err != nil {
			return added, err
		}

		meta := make(map[string]string, len(metadata)+2)
		for k, v := range metadata {
			meta[k] = v
		}
		meta["source"] = source
		meta["chunk"] = strconv.Itoa(i + 1)

		if err := u.index.Add(ctx, c, meta); err != nil {
			slog.Error("failed to add chunk", "source", source, "chunk", i+1, "error", err)
			continue
		}
		added++
	}
	if added > 0 {
		_ = u.index.Save()
	}
	slog.Info("ingested text", "source", source, "chunks", len(chunks), "added", added, "total", u.index.Len())
	return added, nil
}

// IngestPDF はPDFの本文を抽出して IngestText に渡します。
func (u *KnowledgeUsecase) IngestPDF(ctx context.Context, path string, metadata map[string]string) (int, error) {
	text, err := u.extractor.ExtractText(path)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, fmt.Errorf("no text extracted from %q: %w", path, ErrEmptyContent)
	}
	return u.IngestText(ctx, text, path, metadata)
}
