// Package config loads service configuration from the environment.
// A .env file, when present, is loaded by the entrypoint before this runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration for the service.
type Config struct {
	// Provider selection
	Provider string // openai, anthropic, deepseek, groq, ollama
	APIKey   string
	Model    string
	BaseURL  string // Optional override for OpenAI-compatible endpoints

	// HTTP server
	Port string

	// Session limits
	SessionTimeout       time.Duration // Idle expiry
	MaxConversationTurns int
	MaxSessionMessages   int
	MaxTokensPerSession  int

	// Cost accounting (per 1K tokens, USD)
	InputTokenPrice  float64
	OutputTokenPrice float64
	CostThresholdUSD float64

	// Sampling parameters forwarded to the provider
	Temperature     float32
	MaxOutputTokens int

	// Bound on each provider call
	RequestTimeout time.Duration

	// How often the expiry sweep runs
	SweepInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults.
// It fails when the provider API key is missing: the process must not start
// without one.
func Load(log *logrus.Logger) (*Config, error) {
	cfg := &Config{
		Provider:             envString("LLM_PROVIDER", "openai"),
		Port:                 envString("PORT", "5000"),
		SessionTimeout:       time.Duration(envInt(log, "SESSION_TIMEOUT_MINUTES", 30)) * time.Minute,
		MaxConversationTurns: envInt(log, "MAX_CONVERSATION_TURNS", 20),
		MaxSessionMessages:   envInt(log, "MAX_SESSION_MESSAGES", 10),
		MaxTokensPerSession:  envInt(log, "MAX_TOKENS_PER_SESSION", 5000),
		InputTokenPrice:      envFloat(log, "INPUT_TOKEN_PRICE", 0.00015),
		OutputTokenPrice:     envFloat(log, "OUTPUT_TOKEN_PRICE", 0.0006),
		CostThresholdUSD:     envFloat(log, "COST_THRESHOLD_USD", 1.0),
		Temperature:          float32(envFloat(log, "LLM_TEMPERATURE", 0.7)),
		MaxOutputTokens:      envInt(log, "LLM_MAX_OUTPUT_TOKENS", 1000),
		RequestTimeout:       time.Duration(envInt(log, "REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		SweepInterval:        time.Duration(envInt(log, "SWEEP_INTERVAL_MINUTES", 10)) * time.Minute,
	}

	switch cfg.Provider {
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.Model = envString("OPENAI_MODEL", "gpt-4o-mini")
		cfg.BaseURL = os.Getenv("OPENAI_BASE_URL")
	case "anthropic":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		cfg.Model = envString("ANTHROPIC_MODEL", "claude-3-5-haiku-latest")
	case "deepseek":
		cfg.APIKey = os.Getenv("DEEPSEEK_API_KEY")
		cfg.Model = envString("DEEPSEEK_MODEL", "deepseek-chat")
		cfg.BaseURL = envString("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1")
	case "groq":
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
		cfg.Model = envString("GROQ_MODEL", "llama-3.1-70b-versatile")
		cfg.BaseURL = envString("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	case "ollama":
		// Local server; API key can be anything.
		cfg.APIKey = envString("OLLAMA_API_KEY", "ollama")
		cfg.Model = envString("OLLAMA_MODEL", "llama3.1")
		cfg.BaseURL = envString("OLLAMA_BASE_URL", "http://localhost:11434/v1")
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %s (supported: openai, anthropic, deepseek, groq, ollama)", cfg.Provider)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key for provider %q is not set", cfg.Provider)
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(log *logrus.Logger, key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.WithFields(logrus.Fields{"var": key, "value": v}).
			Warnf("invalid value, using default %d", fallback)
		return fallback
	}
	return n
}

func envFloat(log *logrus.Logger, key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.WithFields(logrus.Fields{"var": key, "value": v}).
			Warnf("invalid value, using default %g", fallback)
		return fallback
	}
	return f
}
