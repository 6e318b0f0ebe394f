package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/models"
	"github.com/neilberkman/habitrider/internal/core/output"
	"github.com/neilberkman/habitrider/internal/core/timer"
)

// FocusOptions configures a single inline timer for one habit
type FocusOptions struct {
	DB        *db.DB
	Habit     models.Habit
	Minutes   int
	Break     timer.BreakType    // BreakNone for a work session
	Cycle     *timer.CycleConfig // runs a pomodoro cycle when set
	Messages  timer.Messages
	Logger    *slog.Logger
	Scheduler timer.Scheduler
}

// FocusModel is the inline timer behind `habitrider focus` and `cycle`
type FocusModel struct {
	engine    *timer.Engine
	toasts    *chanNotifier
	habit     models.Habit
	cycle     *timer.Cycle
	sessionID string

	message  string
	kind     timer.Kind
	quitting bool

	// Outcome is set when the program exits
	Outcome string
}

// NewFocus creates the engine and starts the first session
func NewFocus(opts FocusOptions) FocusModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := newChanNotifier(logger)
	engine := timer.NewEngine(timer.Options{
		Scheduler: opts.Scheduler,
		Recorder:  opts.DB,
		Journal:   opts.DB,
		Notifier:  notifier,
		Messages:  opts.Messages,
		Logger:    logger,
	})

	m := FocusModel{engine: engine, toasts: notifier, habit: opts.Habit}
	switch {
	case opts.Cycle != nil:
		m.cycle = timer.NewCycle(opts.Habit.ID, opts.Habit.Name, *opts.Cycle)
		m.sessionID = engine.StartPhase(m.cycle)
	case opts.Break != timer.BreakNone:
		m.sessionID = engine.StartBreak(opts.Habit.ID, opts.Habit.Name, opts.Break, opts.Minutes)
	default:
		m.sessionID = engine.Start(opts.Habit.ID, opts.Minutes, opts.Habit.Name)
	}
	return m
}

// Close stops any running driver
func (m FocusModel) Close() {
	m.engine.Shutdown()
}

func (m FocusModel) Init() tea.Cmd {
	return tea.Batch(refreshTick(), waitForToast(m.toasts.ch))
}

func (m FocusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "s":
			s, ok := m.engine.Get(m.sessionID)
			if ok && !s.IsCompleted {
				m.Outcome = fmt.Sprintf("Stopped %s after %s", m.habit.Name, output.Clock(s.Elapsed()))
			}
			m.engine.Stop(m.sessionID)
			m.quitting = true
			return m, tea.Quit

		case " ", "p":
			m.engine.Toggle(m.sessionID)
			return m, nil

		case "n", "enter":
			if m.cycle == nil {
				return m, nil
			}
			if m.cycle.SessionID == "" {
				m.sessionID = m.engine.StartPhase(m.cycle)
			} else {
				m.sessionID = m.engine.AdvanceCycle(m.cycle)
			}
			m.message = ""
			return m, nil
		}

	case toastMsg:
		m.message = msg.text
		m.kind = msg.kind
		if m.cycle == nil {
			m.Outcome = msg.text
			m.quitting = true
			return m, tea.Quit
		}
		return m, waitForToast(m.toasts.ch)

	case refreshMsg:
		return m, refreshTick()
	}

	return m, nil
}

func (m FocusModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	s, ok := m.engine.Get(m.sessionID)
	if !ok {
		if m.cycle != nil {
			fmt.Fprintf(&b, "%s  next: %s\n", titleStyle.Render(m.habit.Name), m.cycle.Phase)
			b.WriteString(helpStyle.Render("n start • q quit"))
		}
		return b.String()
	}

	label := m.habit.Name
	if m.cycle != nil {
		label += fmt.Sprintf(" • %s #%d", m.cycle.Phase, m.cycle.CompletedWork+1)
	} else if s.IsBreak {
		label += " • " + strings.ReplaceAll(s.Kind(), "_", " ")
	}
	b.WriteString(titleStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(sessionStyle(s).Render(fmt.Sprintf("%s %s %s  %s",
		stateIcon(s), output.Bar(s.Progress(), 40), output.Clock(s.RemainingSeconds), s.State())))
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(metaStyle.Render(m.message))
		b.WriteString("\n")
	}

	help := "space pause/resume • s stop • q quit"
	if m.cycle != nil {
		if s.IsCompleted {
			help = "n next phase • q quit"
		} else {
			help = "space pause/resume • n skip phase • s stop • q quit"
		}
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}
