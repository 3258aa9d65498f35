// Package http は外部API呼び出し用のHTTPクライアントを提供します。
package http

import (
	"log/slog"
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConns / MaxIdleConnsPerHost: 同一プロバイダーへの並行取得で接続を再利用
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 各リクエストはホスト・ステータス・所要時間とともにログ出力されます（APIキーを含むクエリは出力しません）。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: &loggingTransport{next: t}}
}

// loggingTransport は上流APIの呼び出し結果を記録します。
type loggingTransport struct {
	next http.RoundTripper
}

func (l *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.next.RoundTrip(req)
	elapsed := time.Since(start)

	attrs := []any{"method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "elapsed", elapsed}
	switch {
	case err != nil:
		slog.Warn("upstream request failed", append(attrs, "error", err)...)
	case resp.StatusCode >= http.StatusInternalServerError:
		slog.Warn("upstream request returned server error", append(attrs, "status", resp.StatusCode)...)
	default:
		slog.Debug("upstream request", append(attrs, "status", resp.StatusCode)...)
	}
	return resp, err
}
