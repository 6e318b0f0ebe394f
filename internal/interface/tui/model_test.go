package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/habitrider/internal/core/config"
	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/logging"
	"github.com/neilberkman/habitrider/internal/core/models"
	"github.com/neilberkman/habitrider/internal/core/timer"
)

func newTestModel(t *testing.T, habits int) (Model, *db.DB, *timer.ManualScheduler) {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	for i := 0; i < habits; i++ {
		h := &models.Habit{Name: fmt.Sprintf("Habit %02d", i), TargetMinutes: 1}
		if err := database.CreateHabit(h); err != nil {
			t.Fatalf("CreateHabit() error = %v", err)
		}
	}

	sched := timer.NewManualScheduler()
	m := New(Options{DB: database, Config: config.Default(), Logger: logging.Discard(), Scheduler: sched})
	t.Cleanup(m.Close)

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m = update(t, m, loadHabits(database)())
	return m, database, sched
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LoadsRows(t *testing.T) {
	m, _, _ := newTestModel(t, 5)

	if len(m.rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(m.rows))
	}
	view := m.View()
	if !strings.Contains(view, "Habit 00") {
		t.Errorf("view missing first habit:\n%s", view)
	}
	if !strings.Contains(view, "0/5 done today") {
		t.Errorf("view missing done counter:\n%s", view)
	}
}

func TestModel_CursorKeepsWindowInView(t *testing.T) {
	m, _, _ := newTestModel(t, 40)

	m = update(t, m, key("G"))
	if m.cursor != 39 {
		t.Fatalf("cursor = %d, want 39", m.cursor)
	}
	if !m.scroller.Viewport.VisibleRange().Contains(39) {
		t.Errorf("last row not visible, range %+v", m.scroller.Viewport.VisibleRange())
	}
	view := m.View()
	if !strings.Contains(view, "Habit 39") {
		t.Errorf("view missing last habit")
	}
	if strings.Contains(view, "Habit 00") {
		t.Errorf("view should not render first habit when scrolled to the end")
	}

	m = update(t, m, key("g"))
	if m.cursor != 0 || m.scroller.Viewport.ScrollTop != 0 {
		t.Errorf("after g: cursor = %d, scrollTop = %d", m.cursor, m.scroller.Viewport.ScrollTop)
	}
}

func TestModel_MouseWheelSettles(t *testing.T) {
	m, _, _ := newTestModel(t, 40)

	next, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("wheel scroll should schedule a settle")
	}
	if !m.scroller.IsScrolling() {
		t.Fatal("scroller should be scrolling after wheel")
	}
	if m.scroller.Viewport.ScrollTop != wheelLines {
		t.Errorf("scrollTop = %d, want %d", m.scroller.Viewport.ScrollTop, wheelLines)
	}
	if !m.scroller.Viewport.VisibleRange().Contains(m.cursor) {
		t.Errorf("cursor %d dragged off screen", m.cursor)
	}

	// A stale token does not end the scroll
	m = update(t, m, settleMsg{token: 0})
	if !m.scroller.IsScrolling() {
		t.Error("stale settle should be ignored")
	}
}

func TestModel_TimerCompletesHabit(t *testing.T) {
	m, database, sched := newTestModel(t, 2)

	m = update(t, m, key("enter"))
	row, _ := m.selected()
	s, ok := m.engine.ForHabit(row.habit.ID)
	if !ok || !s.IsRunning {
		t.Fatalf("expected running session, got %+v ok=%v", s, ok)
	}

	// Space pauses, ticks are then ignored
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	sched.Step(10)
	s, _ = m.engine.ForHabit(row.habit.ID)
	if !s.IsPaused || s.RemainingSeconds != 60 {
		t.Fatalf("paused session = %+v", s)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	sched.Step(60)

	s, _ = m.engine.ForHabit(row.habit.ID)
	if !s.IsCompleted || !s.Logged {
		t.Fatalf("session = %+v, want completed and logged", s)
	}
	done, err := database.IsDone(row.habit.ID, time.Now())
	if err != nil || !done {
		t.Fatalf("IsDone = %v, %v", done, err)
	}

	select {
	case toast := <-m.toasts.ch:
		if toast.kind != timer.KindSuccess || !strings.Contains(toast.text, row.habit.Name) {
			t.Errorf("toast = %+v", toast)
		}
		m = update(t, m, toast)
		if m.toast != toast.text {
			t.Errorf("footer toast = %q", m.toast)
		}
	default:
		t.Fatal("no completion notification")
	}
}

func TestModel_StopDoesNotRecord(t *testing.T) {
	m, database, sched := newTestModel(t, 1)

	m = update(t, m, key("enter"))
	row, _ := m.selected()
	sched.Step(30)
	m = update(t, m, key("s"))

	if _, ok := m.engine.ForHabit(row.habit.ID); ok {
		t.Fatal("stopped session should be removed")
	}
	sched.Step(60)
	done, err := database.IsDone(row.habit.ID, time.Now())
	if err != nil || done {
		t.Fatalf("IsDone = %v, %v; stop must not record", done, err)
	}
}

func TestModel_CycleWaitsForConfirmation(t *testing.T) {
	m, _, sched := newTestModel(t, 1)

	m = update(t, m, key("c"))
	row, _ := m.selected()
	c := m.cycles[row.habit.ID]
	if c == nil || c.Phase != timer.PhaseWork || c.SessionID == "" {
		t.Fatalf("cycle = %+v", c)
	}

	sched.Step(60)
	if c.Phase != timer.PhaseWork {
		t.Fatalf("phase moved without confirmation: %v", c.Phase)
	}

	m = update(t, m, key("c"))
	if c.Phase != timer.PhaseShortBreak {
		t.Errorf("phase = %v, want short break", c.Phase)
	}
	if c.CompletedWork != 1 {
		t.Errorf("completed work = %d, want 1", c.CompletedWork)
	}
}

func TestModel_ConfigReload(t *testing.T) {
	m, _, _ := newTestModel(t, 1)

	cfg := config.Default()
	cfg.Overscan = 7
	m = update(t, m, configMsg{cfg: cfg})
	if m.scroller.Viewport.Overscan != 7 {
		t.Errorf("overscan = %d, want 7", m.scroller.Viewport.Overscan)
	}
	if m.toast != "Config reloaded" {
		t.Errorf("toast = %q", m.toast)
	}

	m = update(t, m, configMsg{err: fmt.Errorf("bad toml")})
	if m.cfg.Overscan != 7 {
		t.Error("failed reload should keep the previous config")
	}
	if !strings.Contains(m.toast, "bad toml") {
		t.Errorf("toast = %q", m.toast)
	}
}

func TestModel_ConfigReloadKeepsCycleWorkLength(t *testing.T) {
	m, _, _ := newTestModel(t, 1)

	m = update(t, m, key("c"))
	row, _ := m.selected()
	c := m.cycles[row.habit.ID]
	if c == nil || c.Config.WorkMinutes != 1 {
		t.Fatalf("cycle = %+v, want work length from habit target", c)
	}

	cfg := config.Default()
	cfg.ShortBreakMinutes = 9
	m = update(t, m, configMsg{cfg: cfg})

	if c.Config.WorkMinutes != 1 {
		t.Errorf("work minutes = %d after reload, want habit target 1", c.Config.WorkMinutes)
	}
	if c.Config.ShortBreakMinutes != 9 {
		t.Errorf("short break = %d after reload, want 9", c.Config.ShortBreakMinutes)
	}
}

func TestModel_ConfigReloadUpdatesUntargetedCycle(t *testing.T) {
	m, database, _ := newTestModel(t, 0)
	h := &models.Habit{Name: "Journal"}
	if err := database.CreateHabit(h); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, loadHabits(database)())

	m = update(t, m, key("c"))
	c := m.cycles[h.ID]
	if c == nil || c.Config.WorkMinutes != 25 {
		t.Fatalf("cycle = %+v, want default work length", c)
	}

	cfg := config.Default()
	cfg.WorkMinutes = 40
	m = update(t, m, configMsg{cfg: cfg})
	if c.Config.WorkMinutes != 40 {
		t.Errorf("work minutes = %d after reload, want 40", c.Config.WorkMinutes)
	}
}

func TestModel_SettleOnlyTargetsItsScroller(t *testing.T) {
	m, _, _ := newTestModel(t, 40)

	token := m.scroller.ScrollBy(wheelLines)
	searchToken := m.searchScroller.ScrollBy(1)
	if token != searchToken {
		t.Fatalf("tokens %d and %d should collide for this test", token, searchToken)
	}

	m = update(t, m, settleMsg{token: searchToken, search: true})
	if !m.scroller.IsScrolling() {
		t.Error("search settle cleared the list scroller")
	}
	if m.searchScroller.IsScrolling() {
		t.Error("search scroller should have settled")
	}

	m = update(t, m, settleMsg{token: token})
	if m.scroller.IsScrolling() {
		t.Error("list scroller should have settled")
	}
}

func TestModel_StopClosesCompletedSession(t *testing.T) {
	m, database, sched := newTestModel(t, 1)

	m = update(t, m, key("enter"))
	row, _ := m.selected()
	sched.Step(60)
	if s, _ := m.engine.ForHabit(row.habit.ID); !s.IsCompleted {
		t.Fatalf("session = %+v, want completed", s)
	}

	m = update(t, m, key("s"))
	if _, ok := m.engine.ForHabit(row.habit.ID); ok {
		t.Fatal("completed session should be closed")
	}

	logs, err := database.ListFocusLogs(row.habit.ID, 0)
	if err != nil {
		t.Fatalf("ListFocusLogs() error = %v", err)
	}
	if len(logs) != 1 || logs[0].Outcome != models.OutcomeCompleted {
		t.Errorf("logs = %+v, want one completed entry", logs)
	}
}

func TestModel_JumpUsesConfiguredAlign(t *testing.T) {
	m, _, _ := newTestModel(t, 40)

	cfg := config.Default()
	cfg.JumpAlign = "start"
	m = update(t, m, configMsg{cfg: cfg})

	m.cursor = 20
	m = update(t, m, key("z"))
	if want := 20 * rowHeight; m.scroller.Viewport.ScrollTop != want {
		t.Errorf("scrollTop = %d, want %d", m.scroller.Viewport.ScrollTop, want)
	}
}

func TestModel_SearchJumpsToHabit(t *testing.T) {
	m, database, _ := newTestModel(t, 5)

	m = update(t, m, key("/"))
	if m.mode != searchView {
		t.Fatalf("mode = %v", m.mode)
	}
	m.searchInput.SetValue("03")
	m = update(t, m, performSearch(database, "03")())
	if len(m.searchResults) != 1 {
		t.Fatalf("results = %d, want 1", len(m.searchResults))
	}

	m = update(t, m, key("enter"))
	if m.mode != listView {
		t.Fatalf("mode = %v after enter", m.mode)
	}
	if row, _ := m.selected(); row.habit.Name != "Habit 03" {
		t.Errorf("selected %q, want Habit 03", row.habit.Name)
	}
}
