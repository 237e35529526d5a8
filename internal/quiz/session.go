// Package quiz runs a single attempt at a quiz: intro, then one question at
// a time with optional review, then a finished state carrying the result.
package quiz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lumenlearn/lumen/internal/course"
)

var (
	// ErrNoSelection is returned by Confirm when the current question has
	// no selection or text yet.
	ErrNoSelection = errors.New("quiz: nothing selected")

	// ErrNotPlaying is returned by operations that need a running quiz.
	ErrNotPlaying = errors.New("quiz: not playing")

	// ErrNotReviewing is returned by Next outside the review sub-state.
	ErrNotReviewing = errors.New("quiz: not reviewing an answer")

	// ErrAlreadyStarted is returned by Start on a session past its intro.
	ErrAlreadyStarted = errors.New("quiz: already started")
)

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseIntro Phase = iota
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Answer is one confirmed response.
type Answer struct {
	QuestionID    string
	SelectedIndex int // -1 for open text
	Text          string
	IsCorrect     *bool // nil for surveys and ungraded questions
}

// Correct reports whether the answer was graded and correct.
func (a Answer) Correct() bool {
	return a.IsCorrect != nil && *a.IsCorrect
}

// Result is produced once, when the session finishes.
type Result struct {
	QuizType     course.QuizType
	Answers      []Answer
	Total        int
	Scored       bool // false for surveys
	CorrectCount int
	ScorePercent int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Snapshot is what observers see after every change.
type Snapshot struct {
	Phase         Phase
	Progress      float64
	PositionLabel string
	Reviewing     bool
	Answered      int
	Total         int
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for Result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is one attempt at a quiz. It is not safe for concurrent use.
type Session struct {
	spec course.QuizSpec
	now  func() time.Time

	phase     Phase
	index     int
	answers   []Answer
	selected  int
	text      string
	reviewing bool
	result    *Result
	startedAt time.Time

	onChange   []func(Snapshot)
	onComplete []func(Result)
}

// New creates a session in the intro phase.
func New(spec course.QuizSpec, opts ...Option) *Session {
	s := &Session{spec: spec, now: time.Now, selected: -1}
	for _, o := range opts {
		o(s)
	}
	return s
}

// OnChange registers fn to run after every state change.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.onChange = append(s.onChange, fn)
}

// OnComplete registers fn to run when the session finishes.
func (s *Session) OnComplete(fn func(Result)) {
	s.onComplete = append(s.onComplete, fn)
}

// Spec returns the quiz being played.
func (s *Session) Spec() course.QuizSpec { return s.spec }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Reviewing reports whether the last answer is being shown for review.
func (s *Session) Reviewing() bool { return s.reviewing }

// Total returns the number of questions.
func (s *Session) Total() int { return len(s.spec.Questions) }

// Index returns the zero-based current question index.
func (s *Session) Index() int { return s.index }

// Selected returns the transient selection, or -1.
func (s *Session) Selected() int { return s.selected }

// Text returns the transient open-text answer.
func (s *Session) Text() string { return s.text }

// Result returns the final result, or nil before the session finishes.
func (s *Session) Result() *Result { return s.result }

// Answers returns the confirmed answers so far.
func (s *Session) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// CurrentQuestion returns the question being asked while playing.
func (s *Session) CurrentQuestion() (course.Question, bool) {
	if s.phase != PhasePlaying || s.index >= len(s.spec.Questions) {
		return course.Question{}, false
	}
	return s.spec.Questions[s.index], true
}

func (s *Session) isSurvey() bool {
	return s.spec.QuizType == course.QuizSurvey
}

// Start moves from intro to playing. A quiz without questions finishes
// straight away.
func (s *Session) Start() error {
	if s.phase != PhaseIntro {
		return ErrAlreadyStarted
	}
	s.phase = PhasePlaying
	s.index = 0
	s.answers = nil
	s.startedAt = s.now()
	s.clearInput()

	if len(s.spec.Questions) == 0 {
		s.finish()
		return nil
	}
	s.notify()
	return nil
}

// Select records the highlighted alternative of the current question. It
// is ignored during review, for out-of-range indexes and for open-text
// questions.
func (s *Session) Select(index int) {
	q, ok := s.CurrentQuestion()
	if !ok || s.reviewing || !q.IsMultipleChoice() {
		return
	}
	if index < 0 || index >= len(q.Alternatives) {
		return
	}
	s.selected = index
	s.notify()
}

// SetText records the in-progress open-text answer.
func (s *Session) SetText(text string) {
	q, ok := s.CurrentQuestion()
	if !ok || s.reviewing || q.IsMultipleChoice() {
		return
	}
	s.text = text
	s.notify()
}

// CanConfirm reports whether Confirm would be accepted.
func (s *Session) CanConfirm() bool {
	q, ok := s.CurrentQuestion()
	if !ok {
		return false
	}
	if s.reviewing {
		return true
	}
	if q.IsMultipleChoice() {
		return s.selected >= 0
	}
	return strings.TrimSpace(s.text) != ""
}

// Confirm submits the current selection. While reviewing it acts as Next.
func (s *Session) Confirm() error {
	q, ok := s.CurrentQuestion()
	if !ok {
		return ErrNotPlaying
	}
	if s.reviewing {
		return s.Next()
	}
	if !s.CanConfirm() {
		return ErrNoSelection
	}

	ans := Answer{QuestionID: q.ID, SelectedIndex: -1}
	if q.IsMultipleChoice() {
		ans.SelectedIndex = s.selected
	} else {
		ans.Text = s.text
	}

	// A multiple choice question without an answer key grades as incorrect.
	graded := !s.isSurvey() && q.IsMultipleChoice()
	if graded {
		correct := q.CorrectAnswerIndex != nil && s.selected == *q.CorrectAnswerIndex
		ans.IsCorrect = &correct
	}
	s.answers = append(s.answers, ans)

	if graded && s.spec.Config.ShowImmediateFeedback {
		s.reviewing = true
		s.notify()
		return nil
	}
	s.advance()
	return nil
}

// Next leaves the review sub-state and moves on.
func (s *Session) Next() error {
	if s.phase != PhasePlaying {
		return ErrNotPlaying
	}
	if !s.reviewing {
		return ErrNotReviewing
	}
	s.reviewing = false
	s.advance()
	return nil
}

func (s *Session) advance() {
	s.index++
	s.clearInput()
	if s.index >= len(s.spec.Questions) {
		s.finish()
		return
	}
	s.notify()
}

func (s *Session) clearInput() {
	s.selected = -1
	s.text = ""
	s.reviewing = false
}

func (s *Session) finish() {
	s.phase = PhaseFinished
	s.clearInput()

	r := Result{
		QuizType:   s.spec.QuizType,
		Answers:    s.Answers(),
		Total:      len(s.spec.Questions),
		Scored:     !s.isSurvey(),
		StartedAt:  s.startedAt,
		FinishedAt: s.now(),
	}
	if r.Scored {
		for _, a := range s.answers {
			if a.Correct() {
				r.CorrectCount++
			}
		}
		r.ScorePercent = scorePercent(r.CorrectCount, r.Total)
	}
	s.result = &r

	s.notify()
	for _, fn := range s.onComplete {
		fn(r)
	}
}

func scorePercent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Progress returns the completed fraction of the quiz. It is 1 once the
// session has finished.
func (s *Session) Progress() float64 {
	total := len(s.spec.Questions)
	switch {
	case s.phase == PhaseFinished:
		return 1
	case s.phase != PhasePlaying || total == 0:
		return 0
	case s.spec.Config.ShowImmediateFeedback:
		return float64(len(s.answers)) / float64(total)
	default:
		return float64(s.index) / float64(total)
	}
}

// PositionLabel returns "i / n" while playing and "" otherwise.
func (s *Session) PositionLabel() string {
	if s.phase != PhasePlaying {
		return ""
	}
	return fmt.Sprintf("%d / %d", s.index+1, len(s.spec.Questions))
}

// Snapshot captures the observable state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:         s.phase,
		Progress:      s.Progress(),
		PositionLabel: s.PositionLabel(),
		Reviewing:     s.reviewing,
		Answered:      len(s.answers),
		Total:         len(s.spec.Questions),
	}
}

func (s *Session) notify() {
	if len(s.onChange) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.onChange {
		fn(snap)
	}
}
