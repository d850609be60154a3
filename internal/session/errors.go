package session

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session id is absent from the
// store, including ids that have expired. Removed sessions are never
// resurrected.
var ErrSessionNotFound = errors.New("session not found")

// InvalidInputError reports a validation failure on a caller-supplied field.
// Always recoverable; rejected before any state mutation or provider call.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// LimitKind identifies which per-session ceiling was hit.
type LimitKind string

const (
	LimitTurns    LimitKind = "turns"
	LimitMessages LimitKind = "messages"
	LimitTokens   LimitKind = "tokens"
	LimitCost     LimitKind = "cost"
)

// LimitError reports that a per-session ceiling has been reached. Terminal
// for the session but not for the process: the caller should start a new
// session. Checked before the provider call so no spend is incurred once a
// ceiling is reached.
type LimitError struct {
	Kind    LimitKind
	Limit   float64
	Current float64
}

func (e *LimitError) Error() string {
	switch e.Kind {
	case LimitCost:
		return fmt.Sprintf("cost limit reached: current $%.4f, ceiling $%.2f", e.Current, e.Limit)
	case LimitTokens:
		return fmt.Sprintf("token limit reached: %d of %d tokens used", int(e.Current), int(e.Limit))
	default:
		return fmt.Sprintf("%s limit reached (max %d)", e.Kind, int(e.Limit))
	}
}

// IsLimitError reports whether err is a LimitError of the given kind.
func IsLimitError(err error, kind LimitKind) bool {
	var limitErr *LimitError
	return errors.As(err, &limitErr) && limitErr.Kind == kind
}

// GenerationError wraps a provider or transport failure. Retryable at the
// caller's discretion; Unwrap exposes the llm.ProviderError classification.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate names: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
