package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/course"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "player" }
func (s *stubScreen) Title() string                           { return "Player" }

func testCourse() course.Course {
	return course.Course{
		Name:           "Intro to Go",
		Description:    "Types, functions and goroutines.",
		ContentLocking: course.ContentLocking{Enabled: true, MinimumTime: 10},
		Topics: []course.Topic{
			{ID: "t1", Title: "Basics", Contents: []course.ContentItem{
				{ID: "c1", Type: course.TypeVideo, Title: "Hello"},
				{ID: "q1", Type: course.TypeQuiz, Title: "Check", QuizData: &course.QuizSpec{QuizType: course.QuizSurvey}},
			}},
		},
	}
}

func newTestWelcomeWithCounter() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(testCourse(), factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) (screen.Screen, tea.Cmd) {
	var s screen.Screen = w
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		s, cmd = s.Update(tickMsg(time.Now()))
	}
	return s, cmd
}

func TestPhaseTransitions(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()

	view := w.View(80, 24)
	if containsCourseCard(view) {
		t.Error("course card should not be visible at start")
	}

	sendTicks(w, 5)
	if w.elapsed != 500*time.Millisecond {
		t.Errorf("elapsed = %v, want 500ms", w.elapsed)
	}

	sendTicks(w, 10)
	if w.elapsed != 1500*time.Millisecond {
		t.Errorf("elapsed = %v, want 1500ms", w.elapsed)
	}

	view = w.View(80, 30)
	if !containsCourseCard(view) {
		t.Error("course card should be visible after the banner phase")
	}
}

func TestCourseFacts(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()
	facts := w.courseFacts()
	if !strings.Contains(facts, "1 topics · 2 items · 1 quizzes") {
		t.Errorf("facts = %q", facts)
	}
	if !strings.Contains(facts, "at least 10s per item") {
		t.Errorf("facts = %q, want minimum time", facts)
	}
}

func TestKeypressDuringAnimationStartsPlayback(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	if cmd == nil {
		t.Fatal("keypress during animation should start playback")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want animation skipped to %v", w.elapsed, totalDur)
	}
	if *callCount != 1 {
		t.Errorf("factory calls = %d, want 1", *callCount)
	}
}

func TestEachStartIsANewSession(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	sendTicks(w, 30)

	w.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	w.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})

	if *callCount != 2 {
		t.Errorf("factory calls = %d, want 2", *callCount)
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()

	sendTicks(w, 45)
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want capped at %v", w.elapsed, totalDur)
	}
}

func TestQuitKey(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
	if *callCount != 0 {
		t.Errorf("factory calls = %d, want 0", *callCount)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()
	if w.Title() != "" {
		t.Errorf("Title = %q, want empty", w.Title())
	}
}

func containsCourseCard(s string) bool {
	return strings.Contains(s, "press any key to start")
}
