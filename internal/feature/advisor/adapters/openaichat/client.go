// Package openaichat はOpenAI Chat Completions APIを使用した回答生成クライアントを提供します。
package openaichat

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"stock_advisor/internal/feature/advisor/usecase"
)

const (
	// DefaultModel はOpenAIのデフォルトモデルです。
	DefaultModel = "gpt-4o-mini"
	// DefaultTemperature は回答生成の温度です。
	DefaultTemperature = 0.1
)

// ChatModel はOpenAI Chat Completions APIで回答を生成します。
type ChatModel struct {
	client openai.Client
	model  string
}

var _ usecase.LanguageModel = (*ChatModel)(nil)

// NewChatModel は ChatModel を生成します。model が空の場合は DefaultModel を使います。
func NewChatModel(client openai.Client, model string) *ChatModel {
	if model == "" {
		model = DefaultModel
	}
	return &ChatModel{client: client, model: model}
}

// Generate はシステムメッセージとユーザーメッセージから回答を生成します。
func (c *ChatModel) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(DefaultTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai API request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
