package selection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hazyhaar/vaxatlas/pkg/metrics"
)

type session struct {
	state    State
	lastSeen time.Time
}

// Store holds the selection state of every live session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore returns a store whose sessions expire after ttl without use.
// A zero ttl disables expiry.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a session at nation level and returns its ID.
func (s *Store) Create() (string, Snapshot) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &session{lastSeen: s.now()}
	s.sessions[id] = sess
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return id, sess.state.Snapshot()
}

// Get returns the current snapshot of a session.
func (s *Store) Get(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrUnknownSession
	}
	sess.lastSeen = s.now()
	return sess.state.Snapshot(), nil
}

// Update runs fn against the session's state under the store lock. If fn
// fails the state is left as it was.
func (s *Store) Update(id string, fn func(*State) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrUnknownSession
	}
	sess.lastSeen = s.now()

	next := sess.state
	if err := fn(&next); err != nil {
		return sess.state.Snapshot(), err
	}
	sess.state = next
	return next.Snapshot(), nil
}

// Delete drops a session. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return n
}

// Start sweeps expired sessions every interval until ctx is cancelled.
func (s *Store) Start(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("sessions expired", "count", n)
			}
		}
	}
}
