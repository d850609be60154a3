// Package prompts holds the prompt templates used to instruct the model
// and the process-wide mutable default template.
package prompts

import (
	"fmt"
	"strings"
	"sync"
)

// Placeholder tokens substituted into templates. Only the first occurrence
// of each is replaced, matching the input format the templates use.
const (
	placeholderName   = "{inputName}"
	placeholderLocale = "{locale}"
)

// DefaultLocale is used when the caller does not supply one.
const DefaultLocale = "en"

// Render substitutes the subject name and locale into a template.
func Render(template, subject, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}
	rendered := strings.Replace(template, placeholderName, subject, 1)
	rendered = strings.Replace(rendered, placeholderLocale, locale, 1)
	return rendered
}

// Store holds the current default prompt template. The default is mutable
// at runtime via the administrative endpoint.
type Store struct {
	mu          sync.RWMutex
	defaultText string
}

// NewStore creates a Store seeded with the surname-phonetic template.
func NewStore() *Store {
	return &Store{defaultText: templates[StrategySurnamePhonetic]}
}

// Default returns the current default template text.
func (s *Store) Default() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultText
}

// SetDefault replaces the default template. Empty text is rejected.
func (s *Store) SetDefault(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("prompt text cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultText = text
	return nil
}

// ForStrategy returns the template registered for a strategy.
func (s *Store) ForStrategy(strategy Strategy) (string, error) {
	tmpl, ok := templates[strategy]
	if !ok {
		return "", fmt.Errorf("unknown prompt strategy: %s", strategy)
	}
	return tmpl, nil
}
