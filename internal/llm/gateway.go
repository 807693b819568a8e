package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// ToolCompleter is the chat-completion capability used by the conversation
// orchestrator: an OpenAI-compatible endpoint that supports function calling.
type ToolCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewGatewayClient builds a client for an OpenAI-compatible chat gateway.
// baseURL overrides the default API host so hosted gateways can be used.
func NewGatewayClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
