// Package llm implements the conversational judgment service on top of a
// chat-completion backend.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Completer sends one system+user exchange to a model and returns the reply.
// Implementations make a single attempt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var ErrNotConfigured = errors.New("llm: API key not configured")

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config selects and configures a backend.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// NewCompleter builds the backend named by cfg.Provider.
func NewCompleter(ctx context.Context, cfg Config, opts ...OpenAIOption) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg, opts...), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
