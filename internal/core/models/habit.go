package models

import (
	"errors"
	"strings"
	"time"
)

// DefaultFolder holds habits created without an explicit folder
const DefaultFolder = "Inbox"

// DayLayout is the storage format for completion days
const DayLayout = "2006-01-02"

// Habit represents a recurring practice to track
type Habit struct {
	ID            string // ULID
	Name          string
	Folder        string
	Description   string
	TargetMinutes int // Default focus length for the timer
	Position      int // Order inside the folder
	CreatedAt     time.Time
	ArchivedAt    *time.Time
}

// Validate checks if the habit has required fields
func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("name is required")
	}
	if len(h.Name) > 120 {
		return errors.New("name must be at most 120 characters")
	}
	if h.TargetMinutes < 0 {
		return errors.New("target_minutes must not be negative")
	}
	return nil
}

// Normalize trims fields and fills in defaults
func (h *Habit) Normalize() {
	h.Name = strings.TrimSpace(h.Name)
	h.Folder = strings.TrimSpace(h.Folder)
	if h.Folder == "" {
		h.Folder = DefaultFolder
	}
}

// Archived reports whether the habit has been archived
func (h *Habit) Archived() bool {
	return h.ArchivedAt != nil
}

// CompletionSource records how a completion was logged
type CompletionSource string

const (
	SourceManual CompletionSource = "manual"
	SourceTimer  CompletionSource = "timer"
)

// Completion marks a habit as done on a given day
type Completion struct {
	HabitID   string
	Day       string // YYYY-MM-DD
	Source    CompletionSource
	Note      string
	CreatedAt time.Time
}

// Day formats t as a completion day in t's location
func Day(t time.Time) string {
	return t.Format(DayLayout)
}
