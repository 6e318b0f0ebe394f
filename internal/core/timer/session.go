package timer

import "time"

// BreakType distinguishes short and long breaks. The zero value marks a work session.
type BreakType string

const (
	BreakNone  BreakType = ""
	BreakShort BreakType = "short"
	BreakLong  BreakType = "long"
)

// Session is one countdown tracking a focus or break interval for a habit.
type Session struct {
	ID        string
	HabitID   string
	HabitName string // snapshot taken at start

	TotalSeconds     int
	RemainingSeconds int

	IsRunning   bool
	IsPaused    bool
	IsCompleted bool

	IsBreak   bool
	BreakType BreakType

	// CompletionProcessed is set the first time the session is seen
	// entering Completed and never cleared for this session.
	CompletionProcessed bool

	// Logged reports whether the completion was persisted; LogErr holds
	// the failure when it was not.
	Logged bool
	LogErr error

	StartedAt time.Time
}

// Event is an input to Apply.
type Event int

const (
	EventTick Event = iota
	EventPause
	EventResume
)

// Effect is a side effect the caller must run after Apply.
type Effect int

const (
	EffectNone Effect = iota
	EffectComplete
)

// newSession returns a session in the Running state.
func newSession(id, habitID, habitName string, totalSeconds int, startedAt time.Time) Session {
	return Session{
		ID:               id,
		HabitID:          habitID,
		HabitName:        habitName,
		TotalSeconds:     totalSeconds,
		RemainingSeconds: totalSeconds,
		IsRunning:        true,
		StartedAt:        startedAt,
	}
}

// Apply returns the session after ev together with the effect to run.
// It never mutates s. EffectComplete is returned at most once per session.
func (s Session) Apply(ev Event) (Session, Effect) {
	switch ev {
	case EventTick:
		if s.IsRunning && !s.IsCompleted {
			if s.RemainingSeconds > 0 {
				s.RemainingSeconds--
			}
			if s.RemainingSeconds == 0 {
				s.IsRunning = false
				s.IsPaused = false
				s.IsCompleted = true
			}
		}
	case EventPause:
		if s.IsRunning && !s.IsCompleted {
			s.IsRunning = false
			s.IsPaused = true
		}
	case EventResume:
		if s.IsPaused && !s.IsCompleted {
			s.IsPaused = false
			s.IsRunning = true
		}
	}

	if s.IsCompleted && !s.CompletionProcessed {
		s.CompletionProcessed = true
		return s, EffectComplete
	}
	return s, EffectNone
}

// Active reports whether the session still counts down (running or paused).
func (s Session) Active() bool {
	return !s.IsCompleted && (s.IsRunning || s.IsPaused)
}

// Elapsed is the number of seconds already counted down.
func (s Session) Elapsed() int {
	return s.TotalSeconds - s.RemainingSeconds
}

// Progress returns the completed fraction in [0, 1].
func (s Session) Progress() float64 {
	if s.TotalSeconds <= 0 {
		return 1
	}
	p := float64(s.Elapsed()) / float64(s.TotalSeconds)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// State names the session's position in the state machine.
func (s Session) State() string {
	switch {
	case s.IsCompleted:
		return "completed"
	case s.IsPaused:
		return "paused"
	case s.IsRunning:
		return "running"
	}
	return "idle"
}

// Kind labels work and break sessions for display and the focus log.
func (s Session) Kind() string {
	if !s.IsBreak {
		return "work"
	}
	return string(s.BreakType) + "_break"
}
