package models

import "time"

// FocusOutcome is how a timer session ended
type FocusOutcome string

const (
	OutcomeCompleted FocusOutcome = "completed"
	OutcomeStopped   FocusOutcome = "stopped"
)

// FocusLog is the persisted record of one finished timer session
type FocusLog struct {
	ID             int64
	SessionID      string
	HabitID        string
	HabitName      string
	Kind           string // work, short_break, long_break
	PlannedSeconds int
	ElapsedSeconds int
	Outcome        FocusOutcome
	StartedAt      time.Time
	EndedAt        time.Time
}
