package llm

import "strings"

// EstimateTokens provides a rough token count estimation.
// Uses a simple heuristic: ~4 characters per token, with a whitespace
// adjustment since whitespace-heavy text has fewer tokens. Actual
// tokenization varies by model; this is only used when the provider does
// not report usage and for pre-call cost gating.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}

	charCount := len([]rune(text))
	whitespaceCount := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")

	estimated := (charCount / 4) + (whitespaceCount / 6)

	if estimated < 1 {
		return 1
	}

	return estimated
}

// EstimateTokensForMessages estimates the total token count for a transcript,
// including a small per-message formatting overhead.
func EstimateTokensForMessages(messages []ChatMessage) int {
	total := 0
	for _, msg := range messages {
		total += EstimateTokens(string(msg.Role))
		total += EstimateTokens(msg.Content)
		// Overhead for message formatting (approximately 4 tokens per message)
		total += 4
	}
	return total
}
