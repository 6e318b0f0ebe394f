package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/habitrider/internal/core/models"
	"github.com/neilberkman/habitrider/internal/core/timer"
	"github.com/neilberkman/habitrider/internal/core/window"
)

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.mode = listView
		m.searchInput.Blur()
		return m, nil

	case "enter":
		// Jump to the selected habit in the list
		if m.searchCursor < len(m.searchResults) {
			id := m.searchResults[m.searchCursor].ID
			for i, r := range m.rows {
				if r.habit.ID == id {
					m.mode = listView
					m.searchInput.Blur()
					m.cursor = i
					m.scroller.ScrollToItem(i, m.cfg.Align())
					return m, nil
				}
			}
			return m.showToast(toastMsg{text: "Habit is archived", kind: timer.KindInfo})
		}
		return m, nil

	// Navigation: Use Ctrl+j or arrow keys (allow j/k to be typed in search)
	case "ctrl+j", "down":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
			m.searchScroller.ScrollToItem(m.searchCursor, window.AlignAuto)
		}
		return m, nil

	case "up":
		if m.searchCursor > 0 {
			m.searchCursor--
			m.searchScroller.ScrollToItem(m.searchCursor, window.AlignAuto)
		}
		return m, nil
	}

	// Update text input (all other keys including j/k/q go here)
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Perform live search on every keystroke
	return m, tea.Batch(cmd, performSearch(m.db, m.searchInput.Value()))
}

func (m Model) viewSearch() string {
	var b strings.Builder

	// Header with search input - ALWAYS at top
	b.WriteString(searchHeaderStyle.Render("Search: "))
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(m.width, 20)))
	b.WriteString("\n")

	vp := m.searchScroller.Viewport
	switch {
	case m.searchInput.Value() == "":
		b.WriteString(metaStyle.Render("Type to search"))
		b.WriteString(strings.Repeat("\n", max(vp.ContainerHeight, 1)))
	case len(m.searchResults) == 0:
		b.WriteString(metaStyle.Render("No habits found"))
		b.WriteString(strings.Repeat("\n", max(vp.ContainerHeight, 1)))
	default:
		frame := window.Render(vp, m.searchResults, m.searchScroller.IsScrolling(), m.renderResult)
		b.WriteString(frame.Text(vp.ScrollTop, vp.ContainerHeight))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(fmt.Sprintf("%d of %d", m.searchCursor+1, len(m.searchResults))))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ navigate • enter go to habit • esc back"))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render("Filters: folder:name | done:today | done:no | after:yesterday | before:2024-11-01 | archived:yes"))
	return b.String()
}

func (m Model) renderResult(h models.Habit, index int, scrolling bool) string {
	line := h.Name
	if !scrolling {
		line += metaStyle.Render("  " + h.Folder)
		if h.Archived() {
			line += metaStyle.Render(" (archived)")
		}
	}
	if index == m.searchCursor {
		return searchSelectedStyle.Render("► ") + searchSelectedStyle.Render(h.Name) + strings.TrimPrefix(line, h.Name)
	}
	return "  " + line
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = listView
		m.addInput.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.addInput.Value())
		m.mode = listView
		m.addInput.Blur()
		if name == "" {
			return m, nil
		}
		return m, addHabit(m.db, name)
	}

	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) viewAdd() string {
	return searchHeaderStyle.Render("Add habit: ") + m.addInput.View() +
		"\n\n" + helpStyle.Render("enter save • esc cancel")
}
