// Package player drives a learner through a course: it decides which items
// may be opened, gates the active item behind a dwell timer or a quiz, and
// records completion.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/lumen/internal/course"
	"github.com/lumenlearn/lumen/internal/lockdown"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/progress"
	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/store"
)

var (
	// ErrBlocked is returned when navigating to an item whose predecessor
	// is not completed yet.
	ErrBlocked = errors.New("player: content is locked")

	// ErrUnknownContent is returned for ids that are not in the course.
	ErrUnknownContent = errors.New("player: unknown content")

	// ErrOutOfRange is returned by Next past the last item and by Prev
	// before the first one.
	ErrOutOfRange = errors.New("player: no content in that direction")

	// ErrNotQuiz is returned by RetakeQuiz when the active item is not a quiz.
	ErrNotQuiz = errors.New("player: active content is not a quiz")

	// ErrClosed is returned by every mutation after Close.
	ErrClosed = errors.New("player: closed")
)

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the clock driving dwell timers. Without it the engine
// uses a real-clock TickerScheduler.
func WithScheduler(s lockdown.Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithTickInterval shortens or stretches one countdown second.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tickInterval = d }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithJournal records session, completion and quiz events.
func WithJournal(j store.Journal) Option {
	return func(e *Engine) {
		if j != nil {
			e.journal = j
		}
	}
}

// WithSessionID overrides the generated playback session id.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.sessionID = id }
}

// WithClock sets the time source handed to quiz sessions.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is the progression and lock state of one playback session.
// Methods are safe to call from timer goroutines and the host at once;
// observers are always called without the engine lock held.
type Engine struct {
	mu sync.Mutex

	course  course.Course
	items   []course.ContentItem
	tracker *progress.Tracker

	sched        lockdown.Scheduler
	ownsSched    *lockdown.TickerScheduler
	tickInterval time.Duration
	timer        *lockdown.Timer

	log       *logger.Logger
	journal   store.Journal
	sessionID string
	now       func() time.Time

	active   int
	gen      uint64
	lock     LockState
	session  *quiz.Session
	quizSnap quiz.Snapshot
	started  bool
	closed   bool

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// batch carries what a mutation produced. It is delivered after the engine
// lock is released so observers may call back into the engine.
type batch struct {
	events []Event
	writes []func(ctx context.Context) error
}

func (b *batch) emit(ev Event) {
	b.events = append(b.events, ev)
}

// New creates an engine for c. Nothing is active until Start or Activate.
func New(c course.Course, opts ...Option) *Engine {
	e := &Engine{
		course:       c,
		items:        course.Flatten(c),
		tracker:      progress.NewTracker(),
		tickInterval: lockdown.TickInterval,
		log:          logger.Nop(),
		journal:      store.NopJournal{},
		sessionID:    uuid.NewString(),
		now:          time.Now,
		active:       -1,
		observers:    make(map[int]Observer),
	}
	for _, o := range opts {
		o(e)
	}
	if e.sched == nil {
		ts := lockdown.NewTickerScheduler(nil)
		e.sched = ts
		e.ownsSched = ts
	}
	e.log = e.log.With("session", e.sessionID)
	return e
}

// SessionID returns the playback session id.
func (e *Engine) SessionID() string { return e.sessionID }

// Course returns the course being played.
func (e *Engine) Course() course.Course { return e.course }

// Subscribe registers obs and returns a function that removes it.
func (e *Engine) Subscribe(obs Observer) (unsubscribe func()) {
	e.obsMu.Lock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = obs
	e.obsMu.Unlock()

	return func() {
		e.obsMu.Lock()
		delete(e.observers, id)
		e.obsMu.Unlock()
	}
}

func (e *Engine) deliver(b batch) {
	ctx := context.Background()
	for _, w := range b.writes {
		if err := w(ctx); err != nil {
			e.log.Warn("journal append failed", "err", err)
		}
	}
	if len(b.events) == 0 {
		return
	}

	// Subscription order.
	e.obsMu.Lock()
	obs := make([]Observer, 0, len(e.observers))
	for i := 0; i < e.nextObs; i++ {
		if o, ok := e.observers[i]; ok {
			obs = append(obs, o)
		}
	}
	e.obsMu.Unlock()

	for _, ev := range b.events {
		for _, o := range obs {
			o(ev)
		}
	}
}

// Start records the session start and activates the first item. An empty
// course starts with nothing active.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	var b batch
	if !e.started {
		e.started = true
		data := store.SessionEventData{
			SessionID:  e.sessionID,
			CourseName: e.course.Name,
			Action:     store.ActionStart,
			ItemsTotal: len(e.items),
		}
		b.writes = append(b.writes, func(ctx context.Context) error {
			return e.journal.AppendSessionEvent(ctx, data)
		})
		e.log.Info("playback started", "course", e.course.Name, "items", len(e.items))
	}

	var err error
	if len(e.items) > 0 {
		err = e.activateLocked(e.items[0].ID, &b)
	}
	e.mu.Unlock()

	e.deliver(b)
	return err
}

// Activate makes id the active item and evaluates its lock. Inaccessible
// items are rejected with ErrBlocked and an EventBlocked; nothing else
// changes on that path.
func (e *Engine) Activate(id string) error {
	e.mu.Lock()
	var b batch
	err := e.activateLocked(id, &b)
	e.mu.Unlock()

	e.deliver(b)
	return err
}

// Next activates the item after the active one.
func (e *Engine) Next() error {
	return e.step(1)
}

// Prev activates the item before the active one.
func (e *Engine) Prev() error {
	return e.step(-1)
}

func (e *Engine) step(delta int) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	idx := e.active + delta
	if e.active < 0 {
		idx = 0
	}
	if idx < 0 || idx >= len(e.items) {
		e.mu.Unlock()
		return ErrOutOfRange
	}

	var b batch
	err := e.activateLocked(e.items[idx].ID, &b)
	e.mu.Unlock()

	e.deliver(b)
	return err
}

func (e *Engine) activateLocked(id string, b *batch) error {
	if e.closed {
		return ErrClosed
	}
	idx := course.IndexOf(e.items, id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownContent, id)
	}
	if !e.isAccessibleLocked(id) {
		e.log.Info("navigation blocked", "content", id)
		b.emit(Event{Kind: EventBlocked, ContentID: id, Lock: e.lock})
		return fmt.Errorf("%w: %q", ErrBlocked, id)
	}

	e.cancelTimerLocked()
	e.session = nil
	e.quizSnap = quiz.Snapshot{}
	e.gen++
	e.active = idx

	b.emit(Event{Kind: EventActivated, ContentID: id})
	e.evaluateLocked(b)
	return nil
}

// evaluateLocked applies the lock rules to the active item, once per
// activation.
func (e *Engine) evaluateLocked(b *batch) {
	item := e.items[e.active]
	locking := e.course.ContentLocking

	if item.IsQuiz() {
		e.attachQuizLocked(item)
	}

	switch {
	case e.tracker.IsCompleted(item.ID):
		e.setLockLocked(LockState{Kind: Unlocked}, b)

	// The last item completes on view even when it is a quiz.
	case !locking.Enabled || e.active == len(e.items)-1:
		e.completeLocked(item, store.ReasonView, b)

	case item.IsQuiz():
		e.setLockLocked(LockState{Kind: QuizLock}, b)

	case locking.MinimumTime <= 0:
		e.completeLocked(item, store.ReasonView, b)

	default:
		d := locking.MinimumTime
		e.setLockLocked(LockState{Kind: TimedLock, Duration: d, Remaining: d}, b)
		e.startTimerLocked(d)
	}
}

func (e *Engine) setLockLocked(l LockState, b *batch) {
	id := ""
	if e.active >= 0 {
		id = e.items[e.active].ID
	}
	e.lock = l
	e.log.Debug("lock changed", "content", id, "state", l.String())
	b.emit(Event{Kind: EventLockChanged, ContentID: id, Lock: l})
}

// completeLocked marks item completed and, when it is the active item,
// unlocks it.
func (e *Engine) completeLocked(item course.ContentItem, reason string, b *batch) {
	if e.tracker.MarkCompleted(item.ID) {
		e.log.Debug("content completed", "content", item.ID, "reason", reason)
		b.emit(Event{Kind: EventCompleted, ContentID: item.ID})

		data := store.CompletionEventData{
			SessionID:   e.sessionID,
			ContentID:   item.ID,
			ContentType: string(item.Type),
			Reason:      reason,
		}
		b.writes = append(b.writes, func(ctx context.Context) error {
			return e.journal.AppendCompletionEvent(ctx, data)
		})
	}
	if e.active >= 0 && e.items[e.active].ID == item.ID {
		e.setLockLocked(LockState{Kind: Unlocked}, b)
	}
}

func (e *Engine) startTimerLocked(seconds int) {
	gen := e.gen
	e.timer = lockdown.NewTimer(e.sched,
		lockdown.WithInterval(e.tickInterval),
		lockdown.WithTickHook(func(remaining int) { e.onTimerTick(gen, remaining) }),
	)
	e.timer.Start(seconds, func() { e.onTimerDone(gen) })
}

func (e *Engine) cancelTimerLocked() {
	if e.timer != nil {
		e.timer.Cancel()
		e.timer = nil
	}
}

func (e *Engine) onTimerTick(gen uint64, remaining int) {
	e.mu.Lock()
	if e.closed || gen != e.gen || e.lock.Kind != TimedLock {
		e.mu.Unlock()
		return
	}
	e.lock.Remaining = remaining
	ev := Event{Kind: EventTick, ContentID: e.items[e.active].ID, Lock: e.lock}
	e.mu.Unlock()

	e.deliver(batch{events: []Event{ev}})
}

func (e *Engine) onTimerDone(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		return
	}
	var b batch
	e.timer = nil
	e.completeLocked(e.items[e.active], store.ReasonTimer, &b)
	e.mu.Unlock()

	e.deliver(b)
}

// attachQuizLocked creates a fresh quiz session for item and wires its
// callbacks. A session that has been replaced or detached is ignored.
func (e *Engine) attachQuizLocked(item course.ContentItem) {
	gen := e.gen
	s := quiz.New(*item.QuizData, quiz.WithClock(e.now))
	s.OnChange(func(snap quiz.Snapshot) { e.onQuizChange(gen, s, snap) })
	s.OnComplete(func(r quiz.Result) { e.onQuizComplete(gen, s, item, r) })
	e.session = s
	e.quizSnap = s.Snapshot()
}

func (e *Engine) ownsSessionLocked(gen uint64, s *quiz.Session) bool {
	return !e.closed && gen == e.gen && e.session == s
}

func (e *Engine) onQuizChange(gen uint64, s *quiz.Session, snap quiz.Snapshot) {
	e.mu.Lock()
	if !e.ownsSessionLocked(gen, s) {
		e.mu.Unlock()
		return
	}
	e.quizSnap = snap
	ev := Event{Kind: EventQuizProgress, ContentID: e.items[e.active].ID, Lock: e.lock, Quiz: snap}
	e.mu.Unlock()

	e.deliver(batch{events: []Event{ev}})
}

func (e *Engine) onQuizComplete(gen uint64, s *quiz.Session, item course.ContentItem, r quiz.Result) {
	e.mu.Lock()
	if !e.ownsSessionLocked(gen, s) {
		e.mu.Unlock()
		e.log.Debug("ignoring detached quiz completion", "content", item.ID)
		return
	}

	var b batch
	res := r
	b.emit(Event{Kind: EventQuizCompleted, ContentID: item.ID, Lock: e.lock, Result: &res})

	data := store.QuizEventData{
		SessionID:    e.sessionID,
		ContentID:    item.ID,
		QuizType:     string(r.QuizType),
		CorrectCount: r.CorrectCount,
		Total:        r.Total,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
	if r.Scored {
		score := r.ScorePercent
		data.ScorePercent = &score
	}
	b.writes = append(b.writes, func(ctx context.Context) error {
		return e.journal.AppendQuizEvent(ctx, data)
	})
	e.log.Info("quiz finished", "content", item.ID, "scored", r.Scored, "score", r.ScorePercent)

	e.completeLocked(item, store.ReasonQuiz, &b)
	e.mu.Unlock()

	e.deliver(b)
}

// Quiz returns the session attached to the active quiz item, or nil.
func (e *Engine) Quiz() *quiz.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// RetakeQuiz replaces the active quiz session with a fresh one. The old
// session can no longer complete anything.
func (e *Engine) RetakeQuiz() (*quiz.Session, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	if e.active < 0 || !e.items[e.active].IsQuiz() {
		e.mu.Unlock()
		return nil, ErrNotQuiz
	}
	item := e.items[e.active]
	e.attachQuizLocked(item)
	s := e.session
	ev := Event{Kind: EventQuizProgress, ContentID: item.ID, Lock: e.lock, Quiz: e.quizSnap}
	e.mu.Unlock()

	e.deliver(batch{events: []Event{ev}})
	return s, nil
}

// IsAccessible reports whether id may be activated now.
func (e *Engine) IsAccessible(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isAccessibleLocked(id)
}

func (e *Engine) isAccessibleLocked(id string) bool {
	return progress.IsAccessible(e.tracker, e.course, e.items, id)
}

// IsCompleted reports whether id has been completed.
func (e *Engine) IsCompleted(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.IsCompleted(id)
}

// Completed returns completed ids in completion order.
func (e *Engine) Completed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Completed()
}

// LockState returns the lock on the active item.
func (e *Engine) LockState() LockState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lock
}

// Active returns the active item.
func (e *Engine) Active() (course.ContentItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active < 0 {
		return course.ContentItem{}, false
	}
	return e.items[e.active], true
}

// ActiveIndex returns the flattened index of the active item, or -1.
func (e *Engine) ActiveIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Items returns the flattened playback order.
func (e *Engine) Items() []course.ContentItem {
	out := make([]course.ContentItem, len(e.items))
	copy(out, e.items)
	return out
}

// Summary returns course-wide completion counts.
func (e *Engine) Summary() progress.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return progress.Summarize(e.course, e.tracker)
}

// LockProgress is the 0..1 value for a progress ring around the active
// item: quiz progress under QuizLock, elapsed dwell time under TimedLock,
// and full once unlocked.
func (e *Engine) LockProgress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.lock.Kind {
	case TimedLock:
		if e.lock.Duration <= 0 {
			return 0
		}
		return float64(e.lock.Duration-e.lock.Remaining) / float64(e.lock.Duration)
	case QuizLock:
		return e.quizSnap.Progress
	default:
		if e.active < 0 {
			return 0
		}
		return 1
	}
}

// Close cancels any running timer, detaches the quiz session and records
// the end of the session. Further mutations return ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.cancelTimerLocked()
	e.session = nil
	e.closed = true
	e.gen++

	var b batch
	if e.started {
		data := store.SessionEventData{
			SessionID:      e.sessionID,
			CourseName:     e.course.Name,
			Action:         store.ActionEnd,
			ItemsCompleted: e.tracker.Len(),
			ItemsTotal:     len(e.items),
		}
		b.writes = append(b.writes, func(ctx context.Context) error {
			return e.journal.AppendSessionEvent(ctx, data)
		})
	}
	if e.ownsSched != nil {
		e.ownsSched.Stop()
	}
	e.log.Info("playback closed", "completed", e.tracker.Len(), "items", len(e.items))
	e.mu.Unlock()

	e.deliver(b)
	return nil
}
