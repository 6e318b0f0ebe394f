package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/habitrider/internal/core/config"
	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/models"
	"github.com/neilberkman/habitrider/internal/core/search"
	"github.com/neilberkman/habitrider/internal/core/timer"
)

// refreshInterval redraws running timers
const refreshInterval = 250 * time.Millisecond

// toastDuration is how long a notification stays in the footer
const toastDuration = 4 * time.Second

type errMsg struct {
	err error
}

// habitRow is a habit with today's status, as shown in the list
type habitRow struct {
	habit  models.Habit
	done   bool
	streak int
}

type habitsLoadedMsg struct {
	rows []habitRow
}

type searchResultsMsg struct {
	query   string
	results []models.Habit
}

type toastMsg struct {
	text string
	kind timer.Kind
}

type clearToastMsg struct {
	seq int
}

type refreshMsg time.Time

// settleMsg ends a scroll burst on the list, or on the search results
// when search is set. Each scroller numbers its own tokens.
type settleMsg struct {
	token  uint64
	search bool
}

type configMsg struct {
	cfg *config.Config
	err error
}

func loadHabits(database *db.DB) tea.Cmd {
	return func() tea.Msg {
		habits, err := database.ListHabits(db.ListOptions{})
		if err != nil {
			return errMsg{err}
		}
		now := time.Now()
		done, err := database.DoneOn(now)
		if err != nil {
			return errMsg{err}
		}

		rows := make([]habitRow, len(habits))
		for i, h := range habits {
			streak, err := database.HabitStreak(h.ID, now)
			if err != nil {
				return errMsg{err}
			}
			rows[i] = habitRow{habit: h, done: done[h.ID], streak: streak.Current}
		}
		return habitsLoadedMsg{rows: rows}
	}
}

func performSearch(database *db.DB, query string) tea.Cmd {
	return func() tea.Msg {
		filters := search.ParseQuery(query)
		if filters.Empty() {
			return searchResultsMsg{query: query}
		}
		results, err := search.Habits(database, filters)
		if err != nil {
			return errMsg{err}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

// toggleDone flips today's completion for a habit and reloads the list
func toggleDone(database *db.DB, row habitRow) tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		if row.done {
			if _, err := database.UnmarkDone(row.habit.ID, now); err != nil {
				return errMsg{err}
			}
			return toastMsg{text: "Cleared " + row.habit.Name, kind: timer.KindInfo}
		}
		if err := database.MarkDone(row.habit.ID, now, models.SourceManual, ""); err != nil {
			return errMsg{err}
		}
		return toastMsg{text: row.habit.Name + " done for today", kind: timer.KindSuccess}
	}
}

func addHabit(database *db.DB, name string) tea.Cmd {
	return func() tea.Msg {
		h := &models.Habit{Name: name}
		if err := database.CreateHabit(h); err != nil {
			return toastMsg{text: err.Error(), kind: timer.KindError}
		}
		return toastMsg{text: "Added " + h.Name, kind: timer.KindSuccess}
	}
}

func archiveHabit(database *db.DB, h models.Habit) tea.Cmd {
	return func() tea.Msg {
		if err := database.ArchiveHabit(h.ID); err != nil {
			return toastMsg{text: err.Error(), kind: timer.KindError}
		}
		return toastMsg{text: "Archived " + h.Name, kind: timer.KindInfo}
	}
}

// waitForToast delivers the next engine notification
func waitForToast(ch <-chan toastMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func waitForConfig(ch <-chan configMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func settleAfter(d time.Duration, token uint64, search bool) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return settleMsg{token: token, search: search}
	})
}

func clearToastAfter(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}
