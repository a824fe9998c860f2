package llm

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/minhtn/ragchat/internal/config"
)

// OpenAI wraps an OpenAI-compatible chat completion endpoint, which also
// covers self-hosted gateways that speak the same API.
type OpenAI struct {
	cfg    config.LLMConfig
	client *openai.Client
}

// NewOpenAI creates an OpenAI-compatible client.
func NewOpenAI(cfg config.LLMConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (o *OpenAI) Provider() string { return "openai" }

// Generate sends the prompt as a single user message.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if o.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
