package timer

// Phase is the stage of a pomodoro cycle.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseShortBreak
	PhaseLongBreak
)

func (p Phase) String() string {
	switch p {
	case PhaseWork:
		return "WORK"
	case PhaseShortBreak:
		return "SHORT_BREAK"
	case PhaseLongBreak:
		return "LONG_BREAK"
	}
	return "UNKNOWN"
}

// CycleConfig holds phase lengths for a cycle.
type CycleConfig struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakEvery    int // work phases between long breaks
	AutoAdvance       bool
}

// DefaultCycleConfig is the classic 25/5/15 rhythm.
func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakEvery:    4,
	}
}

// Cycle groups the work and break sessions for one habit. Each phase is a
// separate engine session; the cycle only moves on when Advance is called.
type Cycle struct {
	HabitID   string
	HabitName string
	Config    CycleConfig

	Phase         Phase
	CompletedWork int
	SessionID     string // session of the current phase, "" when waiting
}

// NewCycle returns a cycle positioned at its first work phase.
func NewCycle(habitID, habitName string, cfg CycleConfig) *Cycle {
	if cfg.LongBreakEvery <= 0 {
		cfg.LongBreakEvery = 4
	}
	return &Cycle{
		HabitID:   habitID,
		HabitName: habitName,
		Config:    cfg,
		Phase:     PhaseWork,
	}
}

// Minutes returns the length of the current phase.
func (c *Cycle) Minutes() int {
	switch c.Phase {
	case PhaseShortBreak:
		return c.Config.ShortBreakMinutes
	case PhaseLongBreak:
		return c.Config.LongBreakMinutes
	}
	return c.Config.WorkMinutes
}

// Next reports the phase that follows the current one without moving.
func (c *Cycle) Next() Phase {
	if c.Phase != PhaseWork {
		return PhaseWork
	}
	if (c.CompletedWork+1)%c.Config.LongBreakEvery == 0 {
		return PhaseLongBreak
	}
	return PhaseShortBreak
}

// Advance moves to the next phase. Leaving a work phase counts it as done.
func (c *Cycle) Advance() Phase {
	next := c.Next()
	if c.Phase == PhaseWork {
		c.CompletedWork++
	}
	c.Phase = next
	c.SessionID = ""
	return next
}

// Skip moves on without counting an unfinished work phase.
func (c *Cycle) Skip() Phase {
	if c.Phase == PhaseWork {
		c.Phase = PhaseShortBreak
	} else {
		c.Phase = PhaseWork
	}
	c.SessionID = ""
	return c.Phase
}

// StartPhase starts the session for the cycle's current phase and records
// its id on the cycle.
func (e *Engine) StartPhase(c *Cycle) string {
	var id string
	switch c.Phase {
	case PhaseWork:
		id = e.Start(c.HabitID, c.Minutes(), c.HabitName)
	case PhaseShortBreak:
		id = e.StartBreak(c.HabitID, c.HabitName, BreakShort, c.Minutes())
	case PhaseLongBreak:
		id = e.StartBreak(c.HabitID, c.HabitName, BreakLong, c.Minutes())
	}
	c.SessionID = id
	return id
}

// AdvanceCycle is the user's confirmation to move on: the current phase's
// session is removed, the cycle advances, and with AutoAdvance the next
// phase starts immediately. A work phase that did not finish is skipped
// rather than counted. It returns the new session id or "".
func (e *Engine) AdvanceCycle(c *Cycle) string {
	finished := false
	if c.SessionID != "" {
		s, ok := e.Get(c.SessionID)
		finished = ok && s.IsCompleted
		e.Stop(c.SessionID)
	}
	if finished {
		c.Advance()
	} else {
		c.Skip()
	}
	if c.Config.AutoAdvance {
		return e.StartPhase(c)
	}
	return ""
}
