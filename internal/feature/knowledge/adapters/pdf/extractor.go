// Package pdf はPDFファイルからプレーンテキストを抽出します。
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor はPDFを読み込み本文テキストを返します。
type Extractor struct{}

// NewExtractor は Extractor を生成します。
func NewExtractor() *Extractor { return &Extractor{} }

// ExtractText は path のPDFから全ページのテキストを連結して返します。
func (e *Extractor) ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %q: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text %q: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", fmt.Errorf("read pdf text %q: %w", path, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
