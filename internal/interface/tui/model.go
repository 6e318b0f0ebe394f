package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/habitrider/internal/core/config"
	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/models"
	"github.com/neilberkman/habitrider/internal/core/timer"
	"github.com/neilberkman/habitrider/internal/core/window"
)

type viewMode int

const (
	listView viewMode = iota
	searchView
	addView
	helpView
)

// rowHeight is the number of terminal lines per habit in the list
const rowHeight = 2

// Options configures the TUI
type Options struct {
	DB         *db.DB
	Config     *config.Config
	ConfigPath string // watched for changes when set
	Logger     *slog.Logger
	Scheduler  timer.Scheduler // defaults to real tickers
}

type Model struct {
	db     *db.DB
	engine *timer.Engine
	cfg    *config.Config
	logger *slog.Logger

	mode   viewMode
	width  int
	height int
	err    error

	rows     []habitRow
	cursor   int
	scroller *window.Scroller
	cycles   map[string]*timer.Cycle

	searchInput    textinput.Model
	searchResults  []models.Habit
	searchCursor   int
	searchScroller *window.Scroller

	addInput textinput.Model

	toast     string
	toastKind timer.Kind
	toastSeq  int

	toasts      *chanNotifier
	configs     chan configMsg
	stopWatcher context.CancelFunc
}

// New builds the TUI model and its timer engine
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
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
		Messages:  cfg.Messages(),
		Logger:    logger,
	})

	scroller := window.NewScroller(window.Viewport{ItemHeight: rowHeight, Overscan: cfg.Overscan})
	scroller.QuietPeriod = cfg.QuietPeriod()
	searchScroller := window.NewScroller(window.Viewport{ItemHeight: 1, Overscan: cfg.Overscan})

	si := textinput.New()
	si.Placeholder = "habits, folder:health, done:no, after:last-week"
	si.CharLimit = 200

	ai := textinput.New()
	ai.Placeholder = "New habit name"
	ai.CharLimit = 120

	m := Model{
		db:             opts.DB,
		engine:         engine,
		cfg:            cfg,
		logger:         logger,
		mode:           listView,
		scroller:       scroller,
		searchScroller: searchScroller,
		cycles:         make(map[string]*timer.Cycle),
		searchInput:    si,
		addInput:       ai,
		toasts:         notifier,
		configs:        make(chan configMsg, 1),
		stopWatcher:    func() {},
	}

	if opts.ConfigPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		m.stopWatcher = cancel
		go m.watchConfig(ctx, opts.ConfigPath)
	}
	return m
}

func (m Model) watchConfig(ctx context.Context, path string) {
	err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
		select {
		case m.configs <- configMsg{cfg: cfg, err: err}:
		case <-ctx.Done():
		}
	})
	if err != nil {
		m.logger.Warn("config watcher stopped", "error", err)
	}
}

// Close stops timers and the config watcher. Unfinished sessions are
// dropped without being logged.
func (m Model) Close() {
	m.stopWatcher()
	m.engine.Shutdown()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadHabits(m.db),
		refreshTick(),
		waitForToast(m.toasts.ch),
		waitForConfig(m.configs),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.MouseMsg:
		if m.mode == listView || m.mode == searchView {
			return m.updateMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Mode-specific key handling
		switch m.mode {
		case listView:
			return m.updateList(msg)
		case searchView:
			return m.updateSearch(msg)
		case addView:
			return m.updateAdd(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case habitsLoadedMsg:
		m.setRows(msg.rows)
		return m, nil

	case searchResultsMsg:
		// Drop results for a query the user has already typed past
		if msg.query != m.searchInput.Value() {
			return m, nil
		}
		m.searchResults = msg.results
		m.searchCursor = 0
		m.searchScroller.SetItemCount(len(msg.results))
		m.searchScroller.ScrollToItem(0, window.AlignStart)
		return m, nil

	case toastMsg:
		var cmd tea.Cmd
		m, cmd = m.showToast(msg)
		// Completions change done state; reload and keep listening
		return m, tea.Batch(cmd, loadHabits(m.db), waitForToast(m.toasts.ch))

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case refreshMsg:
		m.layout()
		return m, refreshTick()

	case settleMsg:
		if msg.search {
			m.searchScroller.Settle(msg.token)
		} else {
			m.scroller.Settle(msg.token)
		}
		return m, nil

	case configMsg:
		var cmd tea.Cmd
		m, cmd = m.applyConfig(msg)
		return m, tea.Batch(cmd, waitForConfig(m.configs))

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit"
	}

	switch m.mode {
	case listView:
		return m.viewList()
	case searchView:
		return m.viewSearch()
	case addView:
		return m.viewAdd()
	case helpView:
		return m.viewHelp()
	}

	return ""
}

func (m Model) showToast(t toastMsg) (Model, tea.Cmd) {
	m.toastSeq++
	m.toast = t.text
	m.toastKind = t.kind
	return m, clearToastAfter(m.toastSeq)
}

func (m Model) applyConfig(msg configMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("config reload failed", "error", msg.err)
		return m.showToast(toastMsg{text: "Config not reloaded: " + msg.err.Error(), kind: timer.KindError})
	}

	m.cfg = msg.cfg
	m.engine.SetMessages(m.cfg.Messages())
	m.scroller.QuietPeriod = m.cfg.QuietPeriod()
	m.scroller.Viewport.Overscan = m.cfg.Overscan
	m.searchScroller.Viewport.Overscan = m.cfg.Overscan
	for _, c := range m.cycles {
		cc := m.cfg.Cycle()
		cc.WorkMinutes = c.Config.WorkMinutes
		for _, r := range m.rows {
			if r.habit.ID == c.HabitID {
				cc.WorkMinutes = m.focusMinutes(r)
				break
			}
		}
		c.Config = cc
	}
	m.logger.Info("config reloaded")
	return m.showToast(toastMsg{text: "Config reloaded", kind: timer.KindInfo})
}

// setRows replaces the list contents, keeping the cursor on the same habit
func (m *Model) setRows(rows []habitRow) {
	selected := ""
	if m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].habit.ID
	}

	m.rows = rows
	m.scroller.SetItemCount(len(rows))

	m.cursor = 0
	for i, r := range rows {
		if r.habit.ID == selected {
			m.cursor = i
			break
		}
	}
	m.layout()
	m.scroller.ScrollToItem(m.cursor, window.AlignAuto)
}

// layout sizes the list to whatever the header, timer panel and footer
// leave free
func (m *Model) layout() {
	panel := len(m.engine.Sessions())
	if panel > 0 {
		panel++ // border
	}
	// header + blank, footer: toast/status + help
	h := m.height - 2 - panel - 2
	m.scroller.Resize(h)
	// search: header, rule, footer
	m.searchScroller.Resize(m.height - 5)
}

func (m Model) selected() (habitRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return habitRow{}, false
	}
	return m.rows[m.cursor], true
}
