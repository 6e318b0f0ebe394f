package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	}
	m.mode = listView
	return m, nil
}

func (m Model) viewHelp() string {
	help := `
habitrider - Help
═════════════════

HABIT LIST
──────────
  ↑/↓, j/k     Move
  PgUp/PgDn    Page up / down
  g/G          Jump to top/bottom
  z            Scroll to the selected habit (jump_align)
  Enter/Space  Start, pause or resume a focus timer
  s            Stop the timer, or close a finished one (ends any cycle)
  b/B          Start a short/long break
  c            Start a pomodoro cycle, or move to its next phase
  x            Toggle done for today
  a            Add a habit
  A            Archive the selected habit
  y            Copy the status line to the clipboard
  r            Reload
  /            Search habits
  ?            Show this help
  q            Quit

SEARCH VIEW
───────────
  Type         Enter search query (live)
  ↑/↓          Navigate results
  Enter        Go to habit
  esc          Back to habit list

A finished work timer marks its habit done for today.
Edits to config.toml are picked up while running.

Press any key to return to the habit list
`

	return helpStyle.Render(help)
}
