package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrStoreFull is returned by Put when the store is at capacity.
var ErrStoreFull = errors.New("session store is full")

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
}

// NewStore creates a store. max <= 0 means unlimited.
func NewStore(ttl time.Duration, max int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
	}
}

func (s *Store) Put(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sess.ID]; !exists && s.max > 0 && len(s.sessions) >= s.max {
		return ErrStoreFull
	}
	s.sessions[sess.ID] = sess
	return nil
}

func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how
// many were evicted. Session locks are never taken under the store lock.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	candidates := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		candidates = append(candidates, sess)
	}
	s.mu.Unlock()

	now := time.Now()
	var idle []*Session
	for _, sess := range candidates {
		if now.Sub(sess.lastUsed()) > s.ttl {
			idle = append(idle, sess)
		}
	}
	if len(idle) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for _, sess := range idle {
		// Skip IDs that were replaced since the snapshot.
		if s.sessions[sess.ID] == sess {
			delete(s.sessions, sess.ID)
			evicted++
		}
	}
	return evicted
}

// Run evicts idle sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				log.Info("evicted idle sessions", "count", n, "remaining", s.Len())
			}
		}
	}
}
