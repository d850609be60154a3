// Package providers contains concrete llm.Client implementations for the
// supported completion APIs.
package providers

import (
	"fmt"

	"github.com/linqiu-dev/mingshi/internal/config"
	"github.com/linqiu-dev/mingshi/internal/llm"
)

// NewClientFromConfig creates an llm.Client for the configured provider.
// DeepSeek, Groq and Ollama expose OpenAI-compatible APIs and share the
// OpenAI client with a base URL override.
func NewClientFromConfig(cfg *config.Config) (llm.Client, error) {
	switch cfg.Provider {
	case "anthropic":
		client, err := NewAnthropicClient(cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic client: %w", err)
		}
		return client, nil

	case "openai", "deepseek", "groq", "ollama":
		client, err := NewOpenAIClient(cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
