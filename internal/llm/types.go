package llm

import (
	"context"
	"fmt"
)

// MessageRole represents the role of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is the provider-agnostic message we pass around.
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Validate checks if the ChatMessage is valid.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		// Valid roles
	default:
		return fmt.Errorf("invalid message role: %s", m.Role)
	}
	return nil
}

// Usage holds token accounting returned by providers.
// Total may be zero when the provider reports no usage; callers fall back
// to estimation in that case.
type Usage struct {
	Prompt     int
	Completion int
	Total      int
}

// Reported returns true when the provider actually filled in token counts.
func (u Usage) Reported() bool {
	return u.Total > 0
}

// ChatOptions keeps knobs we forward to the SDK.
type ChatOptions struct {
	Temperature     float32
	MaxOutputTokens int
}

// Response is a normalized result of one chat call.
type Response struct {
	Content string
	Usage   Usage
}

// Client abstracts the chosen SDK (OpenAI, Anthropic, compatible endpoints).
type Client interface {
	Chat(ctx context.Context, model string, messages []ChatMessage, opts ChatOptions) (Response, error)
}
