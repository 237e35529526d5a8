// Package player is the course player screen: an outline of the course,
// the active content card with its lock, and the inline quiz.
package player

import (
	"errors"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/course"
	"github.com/lumenlearn/lumen/internal/lockdown"
	eng "github.com/lumenlearn/lumen/internal/player"
	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/screens/summary"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/layout"
)

type focus int

const (
	focusContent focus = iota
	focusOutline
)

// PlayerScreen hosts one playback session. The engine runs on a manual
// clock that the screen advances from Bubble Tea ticks, so every engine
// callback happens on the event loop.
type PlayerScreen struct {
	engine   *eng.Engine
	clock    *lockdown.ManualScheduler
	interval time.Duration
	unsub    func()

	outline components.Outline
	input   components.TextInput
	focus   focus
	cursor  int

	blockedID   string
	showingQuit bool
	status      string
	errMsg      string

	results       map[string]quiz.Result
	courseDone    bool
	summaryPushed bool
	closed        bool
}

var _ screen.Screen = (*PlayerScreen)(nil)
var _ screen.KeyHintProvider = (*PlayerScreen)(nil)
var _ screen.Closer = (*PlayerScreen)(nil)
var _ screen.ProgressProvider = (*PlayerScreen)(nil)

// New creates a player for c. One countdown second lasts interval; opts
// are passed to the engine after the screen's own scheduler option.
func New(c course.Course, interval time.Duration, opts ...eng.Option) *PlayerScreen {
	if interval <= 0 {
		interval = lockdown.TickInterval
	}
	clock := lockdown.NewManualScheduler()
	engineOpts := append([]eng.Option{
		eng.WithScheduler(clock),
		eng.WithTickInterval(interval),
	}, opts...)

	s := &PlayerScreen{
		engine:   eng.New(c, engineOpts...),
		clock:    clock,
		interval: interval,
		input:    components.NewTextInput("Type your answer", 500),
		results:  make(map[string]quiz.Result),
	}
	s.outline = components.NewOutline(nil, func(id string) tea.Cmd {
		return func() tea.Msg { return activateMsg{ID: id} }
	})
	s.unsub = s.engine.Subscribe(s.observe)
	return s
}

// Engine returns the engine behind the screen.
func (s *PlayerScreen) Engine() *eng.Engine {
	return s.engine
}

func (s *PlayerScreen) Init() tea.Cmd {
	if err := s.engine.Start(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.refreshOutline()
	if active, ok := s.engine.Active(); ok {
		s.outline.Focus(active.ID)
	}
	return tea.Batch(s.tickCmd(), s.input.Init(), s.completionCmd())
}

func (s *PlayerScreen) Title() string {
	return s.engine.Course().Name
}

// CourseProgress reports completed and total items for the header.
func (s *PlayerScreen) CourseProgress() (int, int) {
	sum := s.engine.Summary()
	return sum.CompletedItems, sum.TotalItems
}

// Close ends the playback session.
func (s *PlayerScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.unsub != nil {
		s.unsub()
	}
	_ = s.engine.Close()
}

// observe runs synchronously inside engine calls made from Update.
func (s *PlayerScreen) observe(ev eng.Event) {
	switch ev.Kind {
	case eng.EventBlocked:
		s.blockedID = ev.ContentID
	case eng.EventActivated:
		s.cursor = 0
		s.input.Reset()
		s.status = ""
		s.outline.Focus(ev.ContentID)
	case eng.EventQuizCompleted:
		if ev.Result != nil {
			s.results[ev.ContentID] = *ev.Result
		}
	case eng.EventCompleted:
		if s.engine.Summary().IsCompleted {
			s.courseDone = true
		}
	}
}

func (s *PlayerScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.showingQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave course"},
			{Key: "N", Description: "Keep going"},
		}
	case s.blockedID != "":
		return []layout.KeyHint{
			{Key: "any key", Description: "Dismiss"},
		}
	case s.focus == focusOutline:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Browse"},
			{Key: "Enter", Description: "Open"},
			{Key: "Tab", Description: "Content"},
			{Key: "Esc", Description: "Quit"},
		}
	}

	hints := []layout.KeyHint{{Key: "Tab", Description: "Outline"}}
	if q := s.engine.Quiz(); q != nil {
		switch q.Phase() {
		case quiz.PhaseIntro:
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Start quiz"})
		case quiz.PhasePlaying:
			if q.Reviewing() {
				hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next question"})
			} else if s.textQuestion(q) {
				hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Confirm"})
			} else {
				hints = append(hints,
					layout.KeyHint{Key: "↑↓", Description: "Choose"},
					layout.KeyHint{Key: "Enter", Description: "Confirm"},
				)
			}
		case quiz.PhaseFinished:
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Retake"})
		}
	}
	if !s.typing() {
		hints = append(hints,
			layout.KeyHint{Key: "P", Description: "Prev"},
			layout.KeyHint{Key: "N", Description: "Next"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *PlayerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case clockTickMsg:
		return s.handleClockTick()

	case activateMsg:
		s.activate(msg.ID)
		return s, s.completionCmd()

	case courseCompletedMsg:
		return s.handleCourseCompleted()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.typing() {
		return s.updateInput(msg)
	}
	return s, nil
}

func (s *PlayerScreen) handleClockTick() (screen.Screen, tea.Cmd) {
	if s.closed {
		return s, nil
	}
	s.clock.Advance(s.interval)
	s.refreshOutline()
	return s, tea.Batch(s.tickCmd(), s.completionCmd())
}

func (s *PlayerScreen) handleCourseCompleted() (screen.Screen, tea.Cmd) {
	if s.summaryPushed {
		return s, nil
	}
	s.summaryPushed = true
	data := s.summaryData()
	return s, func() tea.Msg {
		return router.PushScreenMsg{Screen: summary.New(data)}
	}
}

func (s *PlayerScreen) summaryData() summary.Data {
	d := summary.Data{
		CourseName: s.engine.Course().Name,
		Progress:   s.engine.Summary(),
		Elapsed:    s.clock.Now(),
	}
	for _, it := range s.engine.Items() {
		if r, ok := s.results[it.ID]; ok {
			d.Quizzes = append(d.Quizzes, summary.QuizLine{Title: it.Title, Result: r})
		}
	}
	return d
}

// completionCmd fires courseCompletedMsg the first time the course is done.
func (s *PlayerScreen) completionCmd() tea.Cmd {
	if !s.courseDone || s.summaryPushed {
		return nil
	}
	return func() tea.Msg { return courseCompletedMsg{} }
}

func (s *PlayerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.showingQuit {
		switch key {
		case "y", "Y":
			s.showingQuit = false
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.showingQuit = false
		}
		return s, nil
	}

	// Blocked modal, any key dismisses.
	if s.blockedID != "" {
		s.blockedID = ""
		return s, nil
	}

	switch key {
	case "esc":
		s.showingQuit = true
		return s, nil
	case "tab":
		if s.focus == focusOutline {
			s.focus = focusContent
		} else {
			s.focus = focusOutline
		}
		return s, nil
	}

	if s.focus == focusOutline {
		var cmd tea.Cmd
		s.outline, cmd = s.outline.Update(msg)
		return s, cmd
	}

	if q := s.engine.Quiz(); q != nil {
		if handled, cmd := s.handleQuizKey(q, msg); handled {
			return s, cmd
		}
	}

	switch key {
	case "n", "right":
		s.step(s.engine.Next)
	case "p", "left":
		s.step(s.engine.Prev)
	case "enter":
		if s.engine.LockState().Kind == eng.Unlocked {
			s.step(s.engine.Next)
		}
	}
	return s, s.completionCmd()
}

// handleQuizKey routes keys to the quiz of the active item. It reports
// false for keys the quiz does not use.
func (s *PlayerScreen) handleQuizKey(q *quiz.Session, msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	switch q.Phase() {
	case quiz.PhaseIntro:
		if key == "enter" || key == "s" {
			if err := q.Start(); err != nil {
				s.status = err.Error()
			}
			return true, s.completionCmd()
		}
		return false, nil

	case quiz.PhaseFinished:
		if key == "r" || key == "R" {
			if _, err := s.engine.RetakeQuiz(); err != nil {
				s.status = err.Error()
			}
			s.cursor = 0
			s.input.Reset()
			return true, nil
		}
		return false, nil
	}

	if q.Reviewing() {
		if key == "enter" {
			s.confirm(q)
			return true, s.completionCmd()
		}
		return false, nil
	}

	if s.textQuestion(q) {
		if key == "enter" {
			q.SetText(s.input.Value())
			s.confirm(q)
			return true, s.completionCmd()
		}
		_, cmd := s.updateInput(msg)
		return true, cmd
	}

	cur, _ := q.CurrentQuestion()
	n := len(cur.Alternatives)
	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return true, nil
	case "down", "j":
		if s.cursor < n-1 {
			s.cursor++
		}
		return true, nil
	case " ", "space":
		q.Select(s.cursor)
		return true, nil
	case "enter":
		if q.Selected() < 0 {
			q.Select(s.cursor)
		}
		s.confirm(q)
		return true, s.completionCmd()
	}
	if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= n {
		s.cursor = i - 1
		q.Select(s.cursor)
		return true, nil
	}
	return false, nil
}

func (s *PlayerScreen) confirm(q *quiz.Session) {
	wasReviewing := q.Reviewing()
	if err := q.Confirm(); err != nil {
		if errors.Is(err, quiz.ErrNoSelection) {
			s.status = "Pick an answer first."
		} else {
			s.status = err.Error()
		}
		return
	}
	s.status = ""
	if wasReviewing || !q.Reviewing() {
		s.cursor = 0
		s.input.Reset()
	}
	s.refreshOutline()
}

func (s *PlayerScreen) updateInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if q := s.engine.Quiz(); q != nil {
		q.SetText(s.input.Value())
	}
	return s, cmd
}

// typing reports whether keys belong to the open text input.
func (s *PlayerScreen) typing() bool {
	if s.focus != focusContent {
		return false
	}
	q := s.engine.Quiz()
	return q != nil && q.Phase() == quiz.PhasePlaying && !q.Reviewing() && s.textQuestion(q)
}

func (s *PlayerScreen) textQuestion(q *quiz.Session) bool {
	cur, ok := q.CurrentQuestion()
	return ok && !cur.IsMultipleChoice()
}

func (s *PlayerScreen) activate(id string) {
	if err := s.engine.Activate(id); err != nil && !errors.Is(err, eng.ErrBlocked) {
		s.status = err.Error()
	}
	s.focus = focusContent
	s.refreshOutline()
}

func (s *PlayerScreen) step(move func() error) {
	err := move()
	switch {
	case err == nil:
		s.status = ""
	case errors.Is(err, eng.ErrOutOfRange):
		s.status = "No more content in that direction."
	case errors.Is(err, eng.ErrBlocked):
		// modal
	default:
		s.status = err.Error()
	}
	s.refreshOutline()
}

func (s *PlayerScreen) refreshOutline() {
	c := s.engine.Course()
	active, _ := s.engine.Active()
	var rows []components.OutlineRow
	for _, t := range c.Topics {
		rows = append(rows, components.OutlineRow{Label: t.Title})
		for _, it := range t.Contents {
			row := components.OutlineRow{
				ID:     it.ID,
				Label:  it.Title,
				Active: it.ID == active.ID,
			}
			switch {
			case s.engine.IsCompleted(it.ID):
				row.State = components.ItemCompleted
			case !s.engine.IsAccessible(it.ID):
				row.State = components.ItemLocked
			}
			rows = append(rows, row)
		}
	}
	s.outline.SetRows(rows)
}

func (s *PlayerScreen) tickCmd() tea.Cmd {
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}
