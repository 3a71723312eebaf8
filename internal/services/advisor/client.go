package advisor

import (
	"context"
	"fmt"
	"net/http"

	"cultivate/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter sends a conversation to a chat model and returns the first
// choice's content.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIClient builds a client for the OpenAI API or any compatible
// endpoint set through cfg.BaseURL.
func NewOpenAIClient(cfg config.OpenAI) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Unconfigured fails every request. Used when no API key is set.
type Unconfigured struct{}

func (Unconfigured) Complete(context.Context, []openai.ChatCompletionMessage) (string, error) {
	return "", ErrNotConfigured
}
