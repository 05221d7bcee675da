package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrNotFound is returned when no live session has the requested ID.
	ErrNotFound = errors.New("session not found")
	// ErrCapacity is returned by Create when the store is full.
	ErrCapacity = errors.New("session store is full")
)

// Options configures a Store.
type Options struct {
	TTL         time.Duration // Idle time after which Sweep removes a session (0 = never).
	MaxSessions int           // Upper bound on live sessions (0 = unbounded).

	// Registerer receives the store's collectors. Nil disables them.
	Registerer prometheus.Registerer
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store holds calculator sessions keyed by ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl     time.Duration
	max     int
	now     func() time.Time
	expired prometheus.Counter
}

// New creates an empty store and registers its collectors.
func New(opts Options) (*Store, error) {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      opts.TTL,
		max:      opts.MaxSessions,
		now:      opts.Now,
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "deskcalc",
			Name:      "sessions_expired_total",
			Help:      "Calculator sessions removed after sitting idle past their TTL.",
		}),
	}
	if s.now == nil {
		s.now = time.Now
	}

	if opts.Registerer != nil {
		active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "deskcalc",
			Name:      "sessions_active",
			Help:      "Calculator sessions currently held in memory.",
		}, func() float64 { return float64(s.Len()) })

		for _, c := range []prometheus.Collector{active, s.expired} {
			if err := opts.Registerer.Register(c); err != nil {
				return nil, fmt.Errorf("registering session collector: %w", err)
			}
		}
	}

	return s, nil
}

// Create starts a new session with an empty engine.
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		return nil, ErrCapacity
	}

	sess := newSession(uuid.New().String(), s.now())
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns the session and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.touch(s.now())
	return sess, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.expired.Add(float64(removed))
	return removed
}

// Run sweeps every interval until ctx is done. The optional onSweep callback
// is told how many sessions each pass removed.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
