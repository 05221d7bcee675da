package session

import (
	"sync"
	"time"

	"deskcalc/internal/engine"
)

// Session owns one calculator engine. All access to the engine goes through
// the session's mutex, so each batch of events is applied atomically.
type Session struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	engine   *engine.Engine
	lastUsed time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		Created:  now,
		engine:   engine.New(),
		lastUsed: now,
	}
}

// Apply feeds events to the engine in order and returns one outcome per
// event along with the resulting state.
func (s *Session) Apply(events ...engine.Event) ([]engine.Outcome, engine.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]engine.Outcome, len(events))
	for i, ev := range events {
		outcomes[i] = s.engine.HandleEvent(ev)
	}
	return outcomes, s.engine.State()
}

// View returns the engine state without changing it.
func (s *Session) View() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
