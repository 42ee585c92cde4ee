// Package session keeps in-memory widget sessions keyed by uuid. Sessions
// are transient; restarting the server simply makes widgets start over.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anasteisha/salon-booking/internal/booking"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// ErrNotFound covers both unknown and expired session ids.
var ErrNotFound = errors.New("session: not found")

// Session is one widget instance's server-side state.
type Session struct {
	ID        string
	VisitorID string
	CreatedAt time.Time

	mu       sync.Mutex
	flow     *booking.Flow
	lastSeen time.Time
}

// WithFlow runs fn with exclusive access to the session's flow.
func (s *Session) WithFlow(fn func(*booking.Flow) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.flow)
}

// Registry holds live widget sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

// NewRegistry creates a registry whose sessions expire after ttl of
// inactivity.
func NewRegistry(ttl time.Duration, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.WithComponent("session"),
		now:      time.Now,
	}
}

// Create starts a new session with a fresh flow.
func (r *Registry) Create(variant booking.Variant, visitorID string) (*Session, error) {
	flow, err := booking.NewFlow(variant)
	if err != nil {
		return nil, err
	}

	now := r.now()
	s := &Session{
		ID:        uuid.New().String(),
		VisitorID: visitorID,
		CreatedAt: now,
		flow:      flow,
		lastSeen:  now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns a live session and refreshes its activity timestamp. Expired
// sessions are dropped on access.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := r.now()
	s.mu.Lock()
	expired := now.Sub(s.lastSeen) > r.ttl
	if !expired {
		s.lastSeen = now
	}
	s.mu.Unlock()

	if expired {
		r.Remove(id)
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove drops a session, e.g. after a completed submission.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions, for metrics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartSweeper evicts idle sessions every interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.sweep(); n > 0 {
					r.logger.Debug("swept idle sessions", "count", n)
				}
			}
		}
	}()
}

func (r *Registry) sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen) > r.ttl
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
