package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/linqiu-dev/mingshi/internal/llm"
)

// Session is one in-memory naming conversation. All state is lost on
// restart; there is no persistence.
//
// Invariant: len(Transcript) == 2*TurnCount. Each committed turn is a
// user/assistant pair; a failed provider call rolls the speculative user
// entry back so the invariant holds between operations.
type Session struct {
	ID           string
	Subject      string // Immutable after creation
	Locale       string
	Transcript   []llm.ChatMessage
	TurnCount    int
	TotalTokens  int
	TotalCostUSD float64
	CreatedAt    time.Time

	// Unix nanos of the most recent successful continuation; zero while
	// the session has never been continued. Atomic so the expiry sweep can
	// read it without taking the session mutex while a continuation holds
	// it across the provider call.
	lastActivityAt atomic.Int64

	// Serializes operations on this session, held across the provider
	// call so the speculative append/rollback sequence never interleaves
	// with a concurrent continuation.
	mu sync.Mutex
}

// Meta is a read-only projection of session state. It never carries the
// rendered prompt or any transcript text.
type Meta struct {
	ID           string    `json:"sessionId"`
	Subject      string    `json:"name"`
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"createdAt"`
	TurnCount    int       `json:"turnCount"`
	MessageCount int       `json:"messageCount"`
}

// LastActivity returns the time of the most recent successful
// continuation, or the zero time if the session has never been continued.
func (s *Session) LastActivity() time.Time {
	if nanos := s.lastActivityAt.Load(); nanos != 0 {
		return time.Unix(0, nanos)
	}
	return time.Time{}
}

// touch records a successful continuation.
func (s *Session) touch(t time.Time) {
	s.lastActivityAt.Store(t.UnixNano())
}

// lastActive returns the timestamp used for idle expiry.
func (s *Session) lastActive() time.Time {
	if nanos := s.lastActivityAt.Load(); nanos != 0 {
		return time.Unix(0, nanos)
	}
	return s.CreatedAt
}
