package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/linqiu-dev/mingshi/internal/llm"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIClient implements llm.Client by calling the OpenAI SDK directly.
// It also serves OpenAI-compatible endpoints (DeepSeek, Groq, Ollama) via
// a base URL override.
type OpenAIClient struct {
	client  *openai.Client
	baseURL string
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey, baseURL string) (*OpenAIClient, error) {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		baseURL: baseURL,
	}, nil
}

// Chat implements llm.Client.Chat.
func (c *OpenAIClient) Chat(ctx context.Context, model string, messages []llm.ChatMessage, opts llm.ChatOptions) (llm.Response, error) {
	openaiMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		if err := msg.Validate(); err != nil {
			return llm.Response{}, err
		}
		switch msg.Role {
		case llm.RoleSystem:
			openaiMsgs = append(openaiMsgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: msg.Content,
			})
		case llm.RoleUser:
			openaiMsgs = append(openaiMsgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Content,
			})
		case llm.RoleAssistant:
			// The SDK may serialize an empty string as null, which the API
			// rejects; a single space is semantically equivalent to empty.
			content := msg.Content
			if content == "" {
				content = " "
			}
			openaiMsgs = append(openaiMsgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			})
		}
	}

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: openaiMsgs,
	}
	if opts.MaxOutputTokens > 0 {
		req.MaxTokens = opts.MaxOutputTokens
	}
	if opts.Temperature > 0 {
		req.Temperature = &opts.Temperature
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return llm.Response{}, llm.WrapProviderError(err, extractHTTPStatus(err))
	}

	if len(resp.Choices) == 0 {
		return llm.Response{}, fmt.Errorf("empty response from OpenAI")
	}

	return llm.Response{
		Content: resp.Choices[0].Message.Content,
		Usage: llm.Usage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
			Total:      resp.Usage.TotalTokens,
		},
	}, nil
}

// extractHTTPStatus extracts an HTTP status code from an SDK error message.
// SDK error types vary across compatible endpoints, so this matches on the
// rendered message.
func extractHTTPStatus(err error) int {
	if err == nil {
		return 0
	}

	errStr := err.Error()
	for _, candidate := range []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusBadRequest,
		http.StatusPaymentRequired,
	} {
		if strings.Contains(errStr, fmt.Sprintf("%d", candidate)) {
			return candidate
		}
	}
	return 0
}
