package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_advisor/internal/feature/knowledge/domain/entity"
	"stock_advisor/internal/feature/knowledge/vectorindex"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestIndexerCommands(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "hashing")
	dir := t.TempDir()

	t.Run("success: populate fills an empty index", func(t *testing.T) {
		out, err := run(t, "populate", "--dir", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "index now has 8 documents")
	})

	t.Run("success: populate skips a non-empty index", func(t *testing.T) {
		out, err := run(t, "populate", "--dir", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "already has 8 documents")
	})

	t.Run("success: add stores metadata", func(t *testing.T) {
		out, err := run(t, "add", "--dir", dir, "--ticker", "msft", "--type", "news",
			"Microsoft", "Azure", "revenue", "accelerates")
		require.NoError(t, err)
		assert.Contains(t, out, "index now has 9 documents")
	})

	t.Run("success: search prints json results", func(t *testing.T) {
		out, err := run(t, "search", "--dir", dir, "--k", "1", "Microsoft Azure revenue accelerates")
		require.NoError(t, err)

		var results []entity.SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "Microsoft Azure revenue accelerates", results[0].Content)
		assert.Equal(t, map[string]string{"ticker": "MSFT", "type": "news"}, results[0].Metadata)
	})

	t.Run("error: add-pdf with a missing file", func(t *testing.T) {
		_, err := run(t, "add-pdf", "--dir", dir, dir+"/missing.pdf")
		assert.Error(t, err)
	})

	t.Run("error: add without content", func(t *testing.T) {
		_, err := run(t, "add", "--dir", dir)
		assert.Error(t, err)
	})
}

func TestMetadata(t *testing.T) {
	assert.Empty(t, metadata("", "", ""))
	assert.Equal(t, map[string]string{"ticker": "AAPL", "date": "2024-Q2"}, metadata("aapl", "", "2024-Q2"))
	assert.Len(t, vectorindex.DefaultDocuments, 8)
}
