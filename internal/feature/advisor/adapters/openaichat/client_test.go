package openaichat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
		option.WithMaxRetries(0),
	)
}

func TestChatModel_Generate(t *testing.T) {
	t.Parallel()

	t.Run("success: system and user messages", func(t *testing.T) {
		t.Parallel()
		var got chatRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
				"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hold for now."}}]}`))
		})

		answer, err := NewChatModel(client, "").Generate(context.Background(), "system text", "user text")
		require.NoError(t, err)
		assert.Equal(t, "Hold for now.", answer)
		assert.Equal(t, DefaultModel, got.Model)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, "system text", got.Messages[0].Content)
		assert.Equal(t, "user", got.Messages[1].Role)
		assert.InDelta(t, DefaultTemperature, got.Temperature, 1e-9)
	})

	t.Run("error: no choices", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c2","object":"chat.completion","created":1,"model":"m","choices":[]}`))
		})
		_, err := NewChatModel(client, "m").Generate(context.Background(), "s", "u")
		assert.Error(t, err)
	})

	t.Run("error: http failure", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		})
		_, err := NewChatModel(client, "m").Generate(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "openai API request failed")
	})
}
