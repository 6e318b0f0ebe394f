package timer

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/oklog/ulid/v2"

	"github.com/neilberkman/habitrider/internal/core/models"
)

// Recorder persists a habit completion for a day.
type Recorder interface {
	RecordCompletion(ctx context.Context, habitID string, day time.Time) error
}

// Journal stores finished sessions in the focus log.
type Journal interface {
	AppendFocusLog(ctx context.Context, entry models.FocusLog) error
}

// Kind is the severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notifier surfaces a message to the user. Delivery is fire-and-forget.
type Notifier interface {
	Notify(message string, kind Kind)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, kind Kind)

// Notify calls f.
func (f NotifierFunc) Notify(message string, kind Kind) { f(message, kind) }

// Default notification templates. Fields: habit, minutes, kind, error.
const (
	DefaultCompletionMessage = "Focus session complete: {{habit}} ({{minutes}} min) logged for today"
	DefaultFailureMessage    = "Focus session for {{habit}} finished but could not be logged: {{error}}"
	DefaultBreakMessage      = "Break over ({{minutes}} min). Ready for {{habit}}?"
)

// Messages holds the mustache templates used for notifications.
type Messages struct {
	Completion string
	Failure    string
	Break      string
}

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	Scheduler Scheduler
	Recorder  Recorder
	Journal   Journal
	Notifier  Notifier
	Messages  Messages
	Logger    *slog.Logger
	Now       func() time.Time
	// RecordTimeout bounds each persistence call made on completion.
	RecordTimeout time.Duration
}

// Engine tracks independent countdown sessions, one driver per running session.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*entry

	sched         Scheduler
	recorder      Recorder
	journal       Journal
	notifier      Notifier
	messages      Messages
	logger        *slog.Logger
	now           func() time.Time
	recordTimeout time.Duration

	entropy *ulid.MonotonicEntropy
}

type entry struct {
	session Session
	cancel  func()
	// gen identifies the current driver so a stale tick from a cancelled
	// driver is ignored.
	gen int
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		sessions:      make(map[string]*entry),
		sched:         opts.Scheduler,
		recorder:      opts.Recorder,
		journal:       opts.Journal,
		notifier:      opts.Notifier,
		messages:      opts.Messages,
		logger:        opts.Logger,
		now:           opts.Now,
		recordTimeout: opts.RecordTimeout,
		entropy:       ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	if e.sched == nil {
		e.sched = TickerScheduler{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.recordTimeout <= 0 {
		e.recordTimeout = 10 * time.Second
	}
	if e.messages.Completion == "" {
		e.messages.Completion = DefaultCompletionMessage
	}
	if e.messages.Failure == "" {
		e.messages.Failure = DefaultFailureMessage
	}
	if e.messages.Break == "" {
		e.messages.Break = DefaultBreakMessage
	}
	return e
}

// SetMessages swaps the notification templates. Empty fields keep the
// current template.
func (e *Engine) SetMessages(m Messages) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if m.Completion != "" {
		e.messages.Completion = m.Completion
	}
	if m.Failure != "" {
		e.messages.Failure = m.Failure
	}
	if m.Break != "" {
		e.messages.Break = m.Break
	}
}

// Start begins a work session for habitID and returns its id. If the habit
// already has a running or paused session, that session's id is returned
// and nothing changes. Non-positive durations are ignored and return "".
func (e *Engine) Start(habitID string, durationMinutes int, habitName string) string {
	return e.start(habitID, habitName, durationMinutes, BreakNone)
}

// StartBreak begins a break session attached to habitID.
func (e *Engine) StartBreak(habitID, habitName string, breakType BreakType, durationMinutes int) string {
	if breakType == BreakNone {
		breakType = BreakShort
	}
	return e.start(habitID, habitName, durationMinutes, breakType)
}

func (e *Engine) start(habitID, habitName string, minutes int, breakType BreakType) string {
	if minutes <= 0 {
		return ""
	}

	e.mu.Lock()
	var replaced []string
	for id, ent := range e.sessions {
		if ent.session.HabitID != habitID {
			continue
		}
		if ent.session.Active() {
			e.mu.Unlock()
			return id
		}
		// A completed session for this habit gives way to the new one.
		replaced = append(replaced, id)
	}
	for _, id := range replaced {
		e.removeLocked(id)
	}

	now := e.now()
	id := ulid.MustNew(ulid.Timestamp(now), e.entropy).String()
	s := newSession(id, habitID, habitName, minutes*60, now)
	if breakType != BreakNone {
		s.IsBreak = true
		s.BreakType = breakType
	}
	ent := &entry{session: s}
	e.sessions[id] = ent
	e.startDriverLocked(id, ent)
	e.mu.Unlock()

	e.logger.Debug("timer session started",
		"session", id, "habit", habitID, "kind", s.Kind(), "seconds", s.TotalSeconds)
	return id
}

// Pause halts a running session. It is a no-op in any other state.
func (e *Engine) Pause(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.sessions[id]
	if !ok {
		return
	}
	next, _ := ent.session.Apply(EventPause)
	if next.IsPaused && !ent.session.IsPaused {
		e.stopDriverLocked(ent)
	}
	ent.session = next
}

// Resume restarts a paused session. It is a no-op in any other state.
func (e *Engine) Resume(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.sessions[id]
	if !ok {
		return
	}
	next, _ := ent.session.Apply(EventResume)
	if next.IsRunning && !ent.session.IsRunning {
		ent.session = next
		e.startDriverLocked(id, ent)
		return
	}
	ent.session = next
}

// Toggle pauses a running session or resumes a paused one.
func (e *Engine) Toggle(id string) {
	s, ok := e.Get(id)
	if !ok {
		return
	}
	if s.IsPaused {
		e.Resume(id)
	} else {
		e.Pause(id)
	}
}

// Stop cancels the session's driver and removes it. Valid from any state.
// An unfinished session is written to the focus log as stopped.
func (e *Engine) Stop(id string) {
	e.mu.Lock()
	ent, ok := e.sessions[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	s := ent.session
	e.removeLocked(id)
	e.mu.Unlock()

	e.logger.Debug("timer session stopped", "session", id, "habit", s.HabitID, "state", s.State())
	if !s.IsCompleted {
		e.appendJournal(s, models.OutcomeStopped)
	}
}

// Close removes a completed session. Other sessions are left alone.
func (e *Engine) Close(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ent, ok := e.sessions[id]; ok && ent.session.IsCompleted {
		e.removeLocked(id)
	}
}

// Tick counts a running session down by one second.
func (e *Engine) Tick(id string) {
	e.tick(id, -1)
}

func (e *Engine) tick(id string, gen int) {
	e.mu.Lock()
	ent, ok := e.sessions[id]
	if !ok || (gen >= 0 && gen != ent.gen) {
		e.mu.Unlock()
		return
	}
	next, effect := ent.session.Apply(EventTick)
	ent.session = next
	if next.IsCompleted {
		e.stopDriverLocked(ent)
	}
	e.mu.Unlock()

	if effect == EffectComplete {
		e.complete(next)
	}
}

// Get returns a snapshot of the session.
func (e *Engine) Get(id string) (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.sessions[id]
	if !ok {
		return Session{}, false
	}
	return ent.session, true
}

// ForHabit returns the session attached to habitID, if any.
func (e *Engine) ForHabit(habitID string) (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ent := range e.sessions {
		if ent.session.HabitID == habitID {
			return ent.session, true
		}
	}
	return Session{}, false
}

// Sessions returns snapshots of all sessions ordered by start time.
func (e *Engine) Sessions() []Session {
	e.mu.Lock()
	out := make([]Session, 0, len(e.sessions))
	for _, ent := range e.sessions {
		out = append(out, ent.session)
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Shutdown cancels every driver and drops all sessions without side effects.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id := range e.sessions {
		e.removeLocked(id)
	}
}

func (e *Engine) startDriverLocked(id string, ent *entry) {
	e.stopDriverLocked(ent)
	ent.gen++
	gen := ent.gen
	ent.cancel = e.sched.Every(time.Second, func() { e.tick(id, gen) })
}

func (e *Engine) stopDriverLocked(ent *entry) {
	if ent.cancel != nil {
		ent.cancel()
		ent.cancel = nil
	}
	// Invalidate any tick already in flight from the old driver.
	ent.gen++
}

func (e *Engine) removeLocked(id string) {
	if ent, ok := e.sessions[id]; ok {
		e.stopDriverLocked(ent)
		delete(e.sessions, id)
	}
}

// complete runs the completion side effect for s. Persistence failures end
// in a notification and are never returned.
func (e *Engine) complete(s Session) {
	minutes := s.TotalSeconds / 60
	data := map[string]interface{}{
		"habit":   s.HabitName,
		"minutes": minutes,
		"kind":    s.Kind(),
	}

	e.mu.Lock()
	msgs := e.messages
	e.mu.Unlock()

	if s.IsBreak {
		e.notify(msgs.Break, data, KindInfo)
		e.appendJournal(s, models.OutcomeCompleted)
		return
	}

	var err error
	if e.recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), e.recordTimeout)
		err = e.recorder.RecordCompletion(ctx, s.HabitID, e.now())
		cancel()
	}

	e.mu.Lock()
	if ent, ok := e.sessions[s.ID]; ok {
		ent.session.Logged = err == nil
		ent.session.LogErr = err
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("failed to record completion", "habit", s.HabitID, "session", s.ID, "error", err)
		data["error"] = err.Error()
		e.notify(msgs.Failure, data, KindError)
	} else {
		e.logger.Info("habit completed by timer", "habit", s.HabitID, "minutes", minutes)
		e.notify(msgs.Completion, data, KindSuccess)
	}
	e.appendJournal(s, models.OutcomeCompleted)
}

func (e *Engine) notify(tmpl string, data map[string]interface{}, kind Kind) {
	if e.notifier == nil {
		return
	}
	msg, err := mustache.Render(tmpl, data)
	if err != nil {
		e.logger.Warn("bad notification template", "error", err)
		msg = tmpl
	}
	e.notifier.Notify(msg, kind)
}

func (e *Engine) appendJournal(s Session, outcome models.FocusOutcome) {
	if e.journal == nil {
		return
	}
	entry := models.FocusLog{
		SessionID:      s.ID,
		HabitID:        s.HabitID,
		HabitName:      s.HabitName,
		Kind:           s.Kind(),
		PlannedSeconds: s.TotalSeconds,
		ElapsedSeconds: s.Elapsed(),
		Outcome:        outcome,
		StartedAt:      s.StartedAt,
		EndedAt:        e.now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.recordTimeout)
	defer cancel()
	if err := e.journal.AppendFocusLog(ctx, entry); err != nil {
		e.logger.Warn("failed to append focus log", "session", s.ID, "error", err)
	}
}
