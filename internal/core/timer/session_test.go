package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionApply(t *testing.T) {
	base := newSession("s1", "h1", "Read", 3, time.Now())

	tests := []struct {
		name       string
		start      func() Session
		event      Event
		wantState  string
		wantRemain int
		wantEffect Effect
	}{
		{
			name:       "tick decrements",
			start:      func() Session { return base },
			event:      EventTick,
			wantState:  "running",
			wantRemain: 2,
		},
		{
			name: "tick to zero completes",
			start: func() Session {
				s := base
				s.RemainingSeconds = 1
				return s
			},
			event:      EventTick,
			wantState:  "completed",
			wantRemain: 0,
			wantEffect: EffectComplete,
		},
		{
			name: "tick while paused is ignored",
			start: func() Session {
				s, _ := base.Apply(EventPause)
				return s
			},
			event:      EventTick,
			wantState:  "paused",
			wantRemain: 3,
		},
		{
			name:       "pause from running",
			start:      func() Session { return base },
			event:      EventPause,
			wantState:  "paused",
			wantRemain: 3,
		},
		{
			name:       "resume from running is noop",
			start:      func() Session { return base },
			event:      EventResume,
			wantState:  "running",
			wantRemain: 3,
		},
		{
			name: "completed already processed emits nothing",
			start: func() Session {
				s := base
				s.RemainingSeconds = 0
				s.IsRunning = false
				s.IsCompleted = true
				s.CompletionProcessed = true
				return s
			},
			event:      EventTick,
			wantState:  "completed",
			wantRemain: 0,
		},
		{
			name: "pause on completed is noop",
			start: func() Session {
				s := base
				s.RemainingSeconds = 0
				s.IsRunning = false
				s.IsCompleted = true
				s.CompletionProcessed = true
				return s
			},
			event:      EventPause,
			wantState:  "completed",
			wantRemain: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, effect := tt.start().Apply(tt.event)
			assert.Equal(t, tt.wantState, got.State())
			assert.Equal(t, tt.wantRemain, got.RemainingSeconds)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestSessionApply_DoesNotMutateReceiver(t *testing.T) {
	s := newSession("s1", "h1", "Read", 10, time.Now())
	_, _ = s.Apply(EventTick)
	assert.Equal(t, 10, s.RemainingSeconds)
}

func TestSessionApply_CompletionObservedOnce(t *testing.T) {
	s := newSession("s1", "h1", "Read", 1, time.Now())

	s, effect := s.Apply(EventTick)
	assert.Equal(t, EffectComplete, effect)
	assert.True(t, s.CompletionProcessed)

	for i := 0; i < 5; i++ {
		s, effect = s.Apply(EventTick)
		assert.Equal(t, EffectNone, effect)
	}
}

func TestSessionProgress(t *testing.T) {
	s := newSession("s1", "h1", "Read", 100, time.Now())
	assert.Equal(t, 0.0, s.Progress())

	s.RemainingSeconds = 25
	assert.InDelta(t, 0.75, s.Progress(), 1e-9)

	s.TotalSeconds = 0
	assert.Equal(t, 1.0, s.Progress())
}

func TestSessionKind(t *testing.T) {
	s := Session{}
	assert.Equal(t, "work", s.Kind())

	s.IsBreak = true
	s.BreakType = BreakShort
	assert.Equal(t, "short_break", s.Kind())
}
