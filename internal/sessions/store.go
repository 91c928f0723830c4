// Package sessions holds the in-memory table of active quiz sessions.
// Sessions live here from creation until the periodic expiry sweep
// removes them; there is no other eviction. A session that outlives the
// max age disappears even if it was never finished, and later calls see
// quiz.ErrNotFound.
package sessions

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lexidrill/backend/internal/domain/quiz"
)

// Store is a concurrent-safe keyed table of sessions. The RWMutex only
// guards the map itself; per-session state is serialized by the
// session's own mutex, so operations on different sessions do not block
// each other.
type Store struct {
	maxAge time.Duration
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

// New creates a store whose sweep removes sessions older than maxAge.
func New(maxAge time.Duration, logger *slog.Logger) *Store {
	return &Store{
		maxAge:   maxAge,
		logger:   logger,
		sessions: make(map[string]*quiz.Session),
	}
}

// Put registers a session under its id.
func (s *Store) Put(sess *quiz.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns the session with the given id, or quiz.ErrNotFound if it
// does not exist or has been swept.
func (s *Store) Get(id string) (*quiz.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, quiz.ErrNotFound
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepExpired removes every session created more than maxAge before
// now, regardless of status, and returns how many were removed. It
// never holds the write lock for more than a single key removal:
// candidates are collected under the read lock and deleted one at a
// time, re-checking age in case of a concurrent replacement.
func (s *Store) SweepExpired(now time.Time) int {
	cutoff := now.Add(-s.maxAge)

	s.mu.RLock()
	expired := make([]string, 0)
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		s.mu.Lock()
		if sess, ok := s.sessions[id]; ok && sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.SweepExpired(now); removed > 0 {
				s.logger.Info("swept expired quiz sessions", "removed", removed)
			}
		}
	}
}
