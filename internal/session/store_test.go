package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskcalc/internal/engine"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func keys(t *testing.T, s string) []engine.Event {
	t.Helper()
	events, err := engine.ParseKeys(s)
	require.NoError(t, err)
	return events
}

func TestCreateGetDelete(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)

	sess, err := s.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, s.Delete(sess.ID))
	assert.Equal(t, 0, s.Len())

	_, err = s.Get(sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Delete(sess.ID), ErrNotFound)
}

func TestCreateRespectsCapacity(t *testing.T) {
	s, err := New(Options{MaxSessions: 2})
	require.NoError(t, err)

	_, err = s.Create()
	require.NoError(t, err)
	_, err = s.Create()
	require.NoError(t, err)

	_, err = s.Create()
	require.ErrorIs(t, err, ErrCapacity)
}

func TestSessionApply(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)
	sess, err := s.Create()
	require.NoError(t, err)

	outcomes, state := sess.Apply(keys(t, "3+4+5=")...)
	require.Len(t, outcomes, 6)
	assert.Equal(t, "12", state.Result)
	assert.Equal(t, "12", state.Input)
	assert.True(t, outcomes[3].Computed)
	assert.Equal(t, float64(7), outcomes[3].Value)

	assert.Equal(t, state, sess.View())
}

func TestSessionApplyIsSerialized(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)
	sess, err := s.Create()
	require.NoError(t, err)

	sess.Apply(keys(t, "0")...)
	increment := keys(t, "+1=")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Apply(increment...)
		}()
	}
	wg.Wait()

	assert.Equal(t, "50", sess.View().Result)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	reg := prometheus.NewRegistry()

	s, err := New(Options{TTL: time.Minute, Registerer: reg, Now: clock.Now})
	require.NoError(t, err)

	idle, err := s.Create()
	require.NoError(t, err)
	busy, err := s.Create()
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	_, err = s.Get(busy.ID)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, s.Sweep())

	_, err = s.Get(idle.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(busy.ID)
	require.NoError(t, err)

	assert.Equal(t, float64(1), promtest.ToFloat64(s.expired))

	expected := `
# HELP deskcalc_sessions_active Calculator sessions currently held in memory.
# TYPE deskcalc_sessions_active gauge
deskcalc_sessions_active 1
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "deskcalc_sessions_active"))
}

func TestSweepWithoutTTL(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)
	_, err = s.Create()
	require.NoError(t, err)

	assert.Equal(t, 0, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestNewRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := New(Options{Registerer: reg})
	require.NoError(t, err)

	_, err = New(Options{Registerer: reg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registering session collector")
}

func TestRunStopsWithContext(t *testing.T) {
	s, err := New(Options{TTL: time.Nanosecond})
	require.NoError(t, err)
	_, err = s.Create()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan struct{})

	go func() {
		s.Run(ctx, time.Millisecond, func(n int) {
			if n > 0 {
				select {
				case swept <- n:
				default:
				}
			}
		})
		close(done)
	}()

	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a sweep to remove the session")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected Run to return after cancel")
	}
}
