package workflow

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepString(t *testing.T) {
	assert.Equal(t, "checklist_in_progress", StepChecklistInProgress.String())
	assert.Equal(t, "step(42)", Step(42).String())

	out, err := json.Marshal(struct {
		Step Step `json:"step"`
	}{StepCompleted})
	require.NoError(t, err)
	assert.JSONEq(t, `{"step":"completed"}`, string(out))
}

func TestSessionsRegistry(t *testing.T) {
	reg := NewSessions()
	s := NewSession()
	require.NotEmpty(t, s.ID)
	reg.Add(s)

	err := reg.With(s.ID, func(got *Session) error {
		assert.Same(t, s, got)
		return nil
	})
	require.NoError(t, err)

	reg.Remove(s.ID)
	assert.ErrorIs(t, reg.With(s.ID, func(*Session) error { return nil }), ErrSessionNotFound)
	assert.Zero(t, reg.Len())
}

func TestSessionsSerializeAccess(t *testing.T) {
	reg := NewSessions()
	s := NewSession()
	reg.Add(s)

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.With(s.ID, func(*Session) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestSessionsEvictExpired(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	reg := NewSessions(WithTTL(time.Hour), WithSessionClock(func() time.Time { return now }))
	noop := func(*Session) error { return nil }

	s := NewSession()
	reg.Add(s)

	now = now.Add(45 * time.Minute)
	require.NoError(t, reg.With(s.ID, noop))

	// Use refreshes the deadline.
	now = now.Add(45 * time.Minute)
	require.NoError(t, reg.With(s.ID, noop))

	now = now.Add(61 * time.Minute)
	assert.ErrorIs(t, reg.With(s.ID, noop), ErrSessionNotFound)
	assert.Zero(t, reg.Len())
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	reg := NewSessions(WithTTL(time.Hour), WithSessionClock(func() time.Time { return now }))

	stale, idle := NewSession(), NewSession()
	reg.Add(stale)
	reg.Add(idle)

	now = now.Add(2 * time.Hour)
	fresh := NewSession()
	reg.Add(fresh)
	assert.Equal(t, 1, reg.Len(), "add evicts sessions past the ttl")

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, reg.Sweep())
	assert.Zero(t, reg.Len())
}
