package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/habitrider/internal/core/output"
	"github.com/neilberkman/habitrider/internal/core/timer"
	"github.com/neilberkman/habitrider/internal/core/window"
)

// wheelLines is how far one mouse wheel notch scrolls
const wheelLines = 3

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.mode = helpView
		return m, nil

	case "/":
		m.mode = searchView
		m.searchInput.Focus()
		return m, performSearch(m.db, m.searchInput.Value())

	case "a":
		m.mode = addView
		m.addInput.SetValue("")
		m.addInput.Focus()
		return m, nil

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup", "ctrl+u":
		m.moveCursor(-m.pageSize())
	case "pgdown", "ctrl+d":
		m.moveCursor(m.pageSize())
	case "home", "g":
		m.moveCursor(-len(m.rows))
	case "end", "G":
		m.moveCursor(len(m.rows))
	case "z":
		m.scroller.ScrollToItem(m.cursor, m.cfg.Align())

	case "enter", " ":
		return m.toggleTimer()
	case "s":
		return m.stopTimer()
	case "b":
		return m.startBreak(timer.BreakShort)
	case "B":
		return m.startBreak(timer.BreakLong)
	case "c":
		return m.advanceCycle()

	case "x":
		if row, ok := m.selected(); ok {
			return m, toggleDone(m.db, row)
		}
	case "A":
		if row, ok := m.selected(); ok {
			return m, archiveHabit(m.db, row.habit)
		}
	case "r":
		return m, loadHabits(m.db)

	case "y":
		status := m.statusLine()
		if err := clipboard.WriteAll(status); err != nil {
			return m.showToast(toastMsg{text: "Copy failed: " + err.Error(), kind: timer.KindError})
		}
		return m.showToast(toastMsg{text: "Copied: " + status, kind: timer.KindInfo})
	}

	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	s := m.scroller
	if m.mode == searchView {
		s = m.searchScroller
	}

	var token uint64
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		token = s.ScrollBy(-wheelLines)
	case tea.MouseButtonWheelDown:
		token = s.ScrollBy(wheelLines)
	default:
		return m, nil
	}

	// Keep the cursor on screen
	vis := s.Viewport.VisibleRange()
	cursor := &m.cursor
	if m.mode == searchView {
		cursor = &m.searchCursor
	}
	if vis.Len() > 0 && !vis.Contains(*cursor) {
		if *cursor < vis.Start {
			*cursor = vis.Start
		} else {
			*cursor = vis.End
		}
	}
	return m, settleAfter(s.QuietPeriod, token, m.mode == searchView)
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.scroller.ScrollToItem(m.cursor, window.AlignAuto)
}

func (m Model) pageSize() int {
	n := m.scroller.Viewport.ContainerHeight / rowHeight
	if n < 1 {
		return 1
	}
	return n
}

// focusMinutes is the work length for a habit: its target, else the config
func (m Model) focusMinutes(row habitRow) int {
	if row.habit.TargetMinutes > 0 {
		return row.habit.TargetMinutes
	}
	return m.cfg.WorkMinutes
}

func (m Model) toggleTimer() (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	if s, ok := m.engine.ForHabit(row.habit.ID); ok && s.Active() {
		m.engine.Toggle(s.ID)
		return m, nil
	}
	m.engine.Start(row.habit.ID, m.focusMinutes(row), row.habit.Name)
	m.layout()
	return m, nil
}

func (m Model) stopTimer() (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	delete(m.cycles, row.habit.ID)
	if s, ok := m.engine.ForHabit(row.habit.ID); ok {
		if s.IsCompleted {
			m.engine.Close(s.ID)
		} else {
			m.engine.Stop(s.ID)
		}
	}
	m.layout()
	return m, nil
}

func (m Model) startBreak(kind timer.BreakType) (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	minutes := m.cfg.ShortBreakMinutes
	if kind == timer.BreakLong {
		minutes = m.cfg.LongBreakMinutes
	}
	m.engine.StartBreak(row.habit.ID, row.habit.Name, kind, minutes)
	m.layout()
	return m, nil
}

// advanceCycle starts a pomodoro cycle for the selected habit, or confirms
// the move to its next phase
func (m Model) advanceCycle() (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}

	c, ok := m.cycles[row.habit.ID]
	if !ok {
		cycleCfg := m.cfg.Cycle()
		cycleCfg.WorkMinutes = m.focusMinutes(row)
		c = timer.NewCycle(row.habit.ID, row.habit.Name, cycleCfg)
		if s, ok := m.engine.ForHabit(row.habit.ID); ok {
			// Adopt a session started by hand
			m.engine.Stop(s.ID)
		}
		m.cycles[row.habit.ID] = c
		m.engine.StartPhase(c)
		m.layout()
		return m.showToast(toastMsg{text: "Cycle started: " + c.Phase.String(), kind: timer.KindInfo})
	}

	if c.SessionID == "" {
		// Waiting for confirmation after a phase ended
		m.engine.StartPhase(c)
	} else {
		m.engine.AdvanceCycle(c)
	}
	m.layout()
	return m.showToast(toastMsg{text: fmt.Sprintf("%s: %s (%d done)", row.habit.Name, c.Phase, c.CompletedWork), kind: timer.KindInfo})
}

func (m Model) statusLine() string {
	row, ok := m.selected()
	if !ok {
		return ""
	}
	status := row.habit.Name
	if row.done {
		status += " ✓"
	}
	if row.streak > 0 {
		status += fmt.Sprintf(" (streak %d)", row.streak)
	}
	if s, ok := m.engine.ForHabit(row.habit.ID); ok {
		status += fmt.Sprintf(" [%s %s]", s.Kind(), output.Clock(s.RemainingSeconds))
	}
	return status
}

func (m Model) viewList() string {
	var b strings.Builder

	done := 0
	for _, r := range m.rows {
		if r.done {
			done++
		}
	}
	b.WriteString(titleStyle.Render("habitrider"))
	b.WriteString(metaStyle.Render(fmt.Sprintf("  %s • %d/%d done today",
		time.Now().Format("Mon Jan 2"), done, len(m.rows))))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(metaStyle.Render("No habits yet. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		sessions := make(map[string]timer.Session)
		for _, s := range m.engine.Sessions() {
			sessions[s.HabitID] = s
		}
		vp := m.scroller.Viewport
		frame := window.Render(vp, m.rows, m.scroller.IsScrolling(), func(row habitRow, i int, scrolling bool) string {
			return m.renderRow(row, i, scrolling, sessions)
		})
		b.WriteString(frame.Text(vp.ScrollTop, vp.ContainerHeight))
		b.WriteString("\n")
	}

	if panel := m.viewTimers(); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n")
	}

	b.WriteString(m.viewToast())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter timer • s stop • c cycle • x done • a add • / search • ? more"))
	return b.String()
}

func (m Model) renderRow(row habitRow, index int, scrolling bool, sessions map[string]timer.Session) string {
	mark := "[ ]"
	if row.done {
		mark = "[✓]"
	}
	title := mark + " " + row.habit.Name

	// While scrolling, skip the per-row timer lookup and detail line
	if scrolling {
		return itemStyle.Render(title)
	}

	if s, ok := sessions[row.habit.ID]; ok {
		title += "  " + sessionStyle(s).Render(fmt.Sprintf("%s %s", stateIcon(s), output.Clock(s.RemainingSeconds)))
	}

	meta := row.habit.Folder
	if row.streak > 0 {
		meta += fmt.Sprintf(" • %d day streak", row.streak)
	}
	if row.habit.TargetMinutes > 0 {
		meta += fmt.Sprintf(" • %dm", row.habit.TargetMinutes)
	}
	if c, ok := m.cycles[row.habit.ID]; ok {
		meta += fmt.Sprintf(" • %s #%d", strings.ToLower(c.Phase.String()), c.CompletedWork+1)
	}

	switch {
	case index == m.cursor:
		return selectedItemStyle.Render("> "+title) + "\n" + itemStyle.Render(metaStyle.Render(meta))
	case row.done:
		return doneItemStyle.Render(title) + "\n" + itemStyle.Render(metaStyle.Render(meta))
	default:
		return itemStyle.Render(title) + "\n" + itemStyle.Render(metaStyle.Render(meta))
	}
}

func (m Model) viewToast() string {
	if m.toast == "" {
		return metaStyle.Render(m.statusLine())
	}
	switch m.toastKind {
	case timer.KindSuccess:
		return toastSuccessStyle.Render(m.toast)
	case timer.KindError:
		return toastErrorStyle.Render(m.toast)
	default:
		return toastInfoStyle.Render(m.toast)
	}
}
