package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/neilberkman/habitrider/internal/core/output"
	"github.com/neilberkman/habitrider/internal/core/timer"
)

// barWidth is the width of progress bars in the timer panel
const barWidth = 24

func stateIcon(s timer.Session) string {
	switch {
	case s.IsCompleted:
		return "✓"
	case s.IsPaused:
		return "⏸"
	default:
		return "▶"
	}
}

func sessionStyle(s timer.Session) lipgloss.Style {
	switch {
	case s.IsCompleted:
		return completedStyle
	case s.IsPaused:
		return pausedStyle
	default:
		return runningStyle
	}
}

// viewTimers renders one line per session, oldest first
func (m Model) viewTimers() string {
	sessions := m.engine.Sessions()
	if len(sessions) == 0 {
		return ""
	}

	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		label := s.HabitName
		if s.IsBreak {
			label += " (" + strings.ReplaceAll(s.Kind(), "_", " ") + ")"
		}
		line := fmt.Sprintf("%s %-24s %s %s  %s",
			stateIcon(s),
			truncate(label, 24),
			output.Bar(s.Progress(), barWidth),
			output.Clock(s.RemainingSeconds),
			s.State(),
		)
		if s.IsCompleted && !s.IsBreak && !s.Logged && s.LogErr != nil {
			line += " (not logged)"
		}
		lines = append(lines, sessionStyle(s).Render(line))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
