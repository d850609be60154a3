package session

import (
	"sync"
	"time"
)

// Store owns the map from session id to conversation state. Sessions are
// reachable only through their id; there is no secondary index.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put inserts a session.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns the session for id, or ErrSessionNotFound.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove deletes a session. Idempotent: removing an absent id is not an
// error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepExpired removes every session idle for longer than idleTimeout and
// returns how many were removed. Expired ids are collected under a read
// lock first, then deleted, so concurrent requests to unrelated sessions
// are never iterated over mid-delete.
func (s *Store) SweepExpired(now time.Time, idleTimeout time.Duration) int {
	s.mu.RLock()
	var expired []string
	for id, sess := range s.sessions {
		if now.Sub(sess.lastActive()) > idleTimeout {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, id := range expired {
		if sess, ok := s.sessions[id]; ok {
			// Re-check under the write lock: the session may have seen
			// activity between the two passes.
			if now.Sub(sess.lastActive()) > idleTimeout {
				delete(s.sessions, id)
				removed++
			}
		}
	}
	return removed
}
