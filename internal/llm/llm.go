package llm

import (
	"context"
	"fmt"

	"github.com/minhtn/ragchat/internal/config"
)

// Client is the minimal generation surface the answerer needs; it is easy
// to mock in tests.
type Client interface {
	// Generate returns the model's completion for a fully built prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Provider names the backing provider for the response payload.
	Provider() string
}

// New creates a client for the configured provider. A missing API key is
// not an error here: callers decide whether to fall back (the service warns
// at startup and serves fallback answers).
func New(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGemini(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
