package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/session"
	"github.com/nekruzvatanshoev/carprice/pkg/metrics"
)

// Store keeps one form session per browser, in memory only
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	newFn    func() *session.Session
	ttl      time.Duration
	log      *slog.Logger
}

// NewStore returns a store that builds sessions with newFn and forgets them
// after ttl of inactivity.
func NewStore(ttl time.Duration, newFn func() *session.Session, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*session.Session),
		newFn:    newFn,
		ttl:      ttl,
		log:      log,
	}
}

// Get returns the session for id, creating one under a fresh id when id is
// empty or unknown.
func (s *Store) Get(id string) (string, *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok && id != "" {
		return id, sess
	}

	id = uuid.NewString()
	sess := s.newFn()
	s.sessions[id] = sess
	metrics.SetActiveSessions(len(s.sessions))

	return id, sess
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops sessions idle since before now-ttl. Busy sessions are kept.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted int
	for id, sess := range s.sessions {
		if sess.Busy() || now.Sub(sess.LastActive()) < s.ttl {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	metrics.SetActiveSessions(len(s.sessions))

	return evicted
}

// Run evicts idle sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Evict(now); n > 0 {
				s.log.Debug("evicted idle form sessions", slog.Int("count", n), slog.Int("remaining", s.Len()))
			}
		}
	}
}
