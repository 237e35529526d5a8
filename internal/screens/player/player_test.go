package player

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen/internal/course"
	eng "github.com/lumenlearn/lumen/internal/player"
	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/screens/summary"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/components"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func timedCourse() course.Course {
	return course.Course{
		Name:           "Timed",
		ContentLocking: course.ContentLocking{Enabled: true, MinimumTime: 3},
		Topics: []course.Topic{
			{ID: "t1", Title: "One", Contents: []course.ContentItem{
				{ID: "c1", Type: course.TypeVideo, Title: "Intro video"},
				{ID: "c2", Type: course.TypeDocument, Title: "Reading"},
				{ID: "c3", Type: course.TypeWeb, Title: "Wrap up"},
			}},
		},
	}
}

func quizCourse() course.Course {
	return course.Course{
		Name:           "Quizzes",
		ContentLocking: course.ContentLocking{Enabled: true},
		Topics: []course.Topic{
			{ID: "t1", Title: "One", Contents: []course.ContentItem{
				{ID: "c1", Type: course.TypeDocument, Title: "Notes"},
				{ID: "q1", Type: course.TypeQuiz, Title: "Check", QuizData: &course.QuizSpec{
					QuizType: course.QuizEvaluative,
					Config:   course.DefaultQuizConfig(),
					Questions: []course.Question{
						{ID: "a", QuestionType: course.QuestionMultipleChoice, Text: "2+2?", Alternatives: []string{"3", "4"}, CorrectAnswerIndex: course.IntPtr(1)},
						{ID: "b", QuestionType: course.QuestionMultipleChoice, Text: "3+3?", Alternatives: []string{"6", "7"}, CorrectAnswerIndex: course.IntPtr(0)},
					},
				}},
			}},
			{ID: "t2", Title: "Two", Contents: []course.ContentItem{
				{ID: "s1", Type: course.TypeQuiz, Title: "Feedback", QuizData: &course.QuizSpec{
					QuizType: course.QuizSurvey,
					Config:   course.DefaultQuizConfig(),
					Questions: []course.Question{
						{ID: "o", QuestionType: course.QuestionOpenText, Text: "Thoughts?"},
					},
				}},
				{ID: "end", Type: course.TypeDocument, Title: "Certificate"},
			}},
		},
	}
}

func testPlayer(t *testing.T, c course.Course) (*PlayerScreen, *store.MemoryJournal) {
	t.Helper()
	j := store.NewMemoryJournal()
	s := New(c, time.Second, eng.WithJournal(j), eng.WithSessionID("test"))
	s.Init()
	t.Cleanup(s.Close)
	return s, j
}

// press sends msg and runs any command chain that stays inside the screen.
func press(s *PlayerScreen, msg tea.Msg) tea.Cmd {
	_, cmd := s.Update(msg)
	return cmd
}

func TestPlayerScreen_Title(t *testing.T) {
	s, _ := testPlayer(t, timedCourse())
	if s.Title() != "Timed" {
		t.Errorf("Title = %q, want %q", s.Title(), "Timed")
	}
}

func TestPlayerScreen_StartsOnFirstItem(t *testing.T) {
	s, j := testPlayer(t, timedCourse())

	item, ok := s.engine.Active()
	require.True(t, ok)
	assert.Equal(t, "c1", item.ID)
	assert.Equal(t, eng.TimedLock, s.engine.LockState().Kind)
	require.Len(t, j.Sessions, 1)
	assert.Equal(t, store.ActionStart, j.Sessions[0].Action)

	view := s.View(100, 30)
	assert.Contains(t, view, "Intro video")
	assert.Contains(t, view, "Unlocks in 3s")
}

func TestPlayerScreen_ClockTicksUnlock(t *testing.T) {
	s, _ := testPlayer(t, timedCourse())

	for i := 0; i < 2; i++ {
		press(s, clockTickMsg(time.Now()))
	}
	assert.Equal(t, 1, s.engine.LockState().Remaining)
	assert.False(t, s.engine.IsCompleted("c1"))

	cmd := press(s, clockTickMsg(time.Now()))
	assert.NotNil(t, cmd, "ticking continues")
	assert.True(t, s.engine.IsCompleted("c1"))
	assert.Equal(t, eng.Unlocked, s.engine.LockState().Kind)

	var c1 components.OutlineRow
	for _, r := range s.outline.Rows {
		if r.ID == "c1" {
			c1 = r
		}
	}
	assert.Equal(t, components.ItemCompleted, c1.State)
}

func TestPlayerScreen_BlockedModal(t *testing.T) {
	s, _ := testPlayer(t, timedCourse())

	press(s, activateMsg{ID: "c3"})
	assert.Equal(t, "c3", s.blockedID)
	assert.Contains(t, s.View(100, 30), "Content locked")

	active, _ := s.engine.Active()
	assert.Equal(t, "c1", active.ID, "blocked navigation changes nothing")

	press(s, keyPress('x'))
	assert.Empty(t, s.blockedID)
}

func TestPlayerScreen_NextWhileLockedIsBlocked(t *testing.T) {
	s, _ := testPlayer(t, timedCourse())

	press(s, keyPress('n'))
	assert.Equal(t, "c2", s.blockedID)
}

func TestPlayerScreen_OutlineNavigation(t *testing.T) {
	s, _ := testPlayer(t, quizCourse())

	press(s, specialKey(tea.KeyTab))
	assert.Equal(t, focusOutline, s.focus)

	press(s, keyPress('j'))
	assert.Equal(t, "q1", s.outline.SelectedID())

	cmd := press(s, specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg := cmd()
	am, ok := msg.(activateMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "q1", am.ID)

	press(s, am)
	active, _ := s.engine.Active()
	assert.Equal(t, "q1", active.ID)
	assert.Equal(t, focusContent, s.focus)
}

func TestPlayerScreen_QuizFlow(t *testing.T) {
	s, j := testPlayer(t, quizCourse())
	require.True(t, s.engine.IsCompleted("c1"), "zero dwell time completes on view")

	press(s, keyPress('n'))
	assert.Equal(t, eng.QuizLock, s.engine.LockState().Kind)
	q := s.engine.Quiz()
	require.NotNil(t, q)
	assert.Contains(t, s.View(100, 30), "Start quiz")

	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, quiz.PhasePlaying, q.Phase())

	// Question 1: pick "4" with the number key, confirm, then move on.
	press(s, keyPress('2'))
	assert.Equal(t, 1, q.Selected())
	press(s, specialKey(tea.KeyEnter))
	assert.True(t, q.Reviewing())
	assert.Equal(t, quiz.StatusCorrect, q.AlternativeStatus(1))
	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, 1, q.Index())

	// Question 2: cursor down to the wrong answer, confirm from the cursor.
	press(s, specialKey(tea.KeyDown))
	assert.Equal(t, 1, s.cursor)
	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, quiz.StatusIncorrect, q.AlternativeStatus(1))
	press(s, specialKey(tea.KeyEnter))

	assert.Equal(t, quiz.PhaseFinished, q.Phase())
	assert.True(t, s.engine.IsCompleted("q1"))
	assert.Equal(t, eng.Unlocked, s.engine.LockState().Kind)
	assert.Equal(t, 50, s.results["q1"].ScorePercent)
	require.Len(t, j.Quizzes, 1)
	assert.Contains(t, s.View(100, 30), "Score: 50%")
}

func TestPlayerScreen_QuizLockBlocksNext(t *testing.T) {
	s, _ := testPlayer(t, quizCourse())
	press(s, keyPress('n'))
	press(s, keyPress('n'))
	assert.Equal(t, "s1", s.blockedID, "the quiz must be finished first")
	press(s, keyPress(' '))
	assert.Empty(t, s.blockedID)

	press(s, specialKey(tea.KeyEnter))
	q := s.engine.Quiz()
	require.NotNil(t, q)
	require.Equal(t, quiz.PhasePlaying, q.Phase())

	press(s, keyPress('9'))
	assert.Equal(t, -1, q.Selected(), "out of range alternative is ignored")
}

func TestPlayerScreen_OpenTextAndCourseCompletion(t *testing.T) {
	c := quizCourse()
	c.ContentLocking.Enabled = false
	s, _ := testPlayer(t, c)

	press(s, activateMsg{ID: "s1"})
	q := s.engine.Quiz()
	require.NotNil(t, q)
	press(s, specialKey(tea.KeyEnter))
	require.True(t, s.typing())

	// Typing goes to the input, not to navigation.
	for _, r := range "nice" {
		press(s, keyPress(r))
	}
	active, _ := s.engine.Active()
	assert.Equal(t, "s1", active.ID)
	assert.Equal(t, "nice", q.Text())

	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, quiz.PhaseFinished, q.Phase())
	assert.False(t, s.results["s1"].Scored)

	// Locking disabled: every item completed on view, so the course is done.
	for _, id := range []string{"q1", "end"} {
		press(s, activateMsg{ID: id})
	}
	cmd := s.completionCmd()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, courseCompletedMsg{}, msg)

	cmd = press(s, msg)
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	sum, ok := push.Screen.(*summary.SummaryScreen)
	require.True(t, ok)
	done, total := sum.CourseProgress()
	assert.Equal(t, 4, done)
	assert.Equal(t, 4, total)

	assert.Nil(t, press(s, courseCompletedMsg{}), "summary is pushed once")
}

func TestPlayerScreen_Retake(t *testing.T) {
	c := quizCourse()
	c.ContentLocking.Enabled = false
	s, _ := testPlayer(t, c)

	press(s, activateMsg{ID: "s1"})
	first := s.engine.Quiz()
	press(s, specialKey(tea.KeyEnter))
	press(s, keyPress('a'))
	press(s, specialKey(tea.KeyEnter))
	require.Equal(t, quiz.PhaseFinished, first.Phase())

	press(s, keyPress('r'))
	second := s.engine.Quiz()
	assert.NotSame(t, first, second)
	assert.Equal(t, quiz.PhaseIntro, second.Phase())
}

func TestPlayerScreen_QuitConfirm(t *testing.T) {
	s, _ := testPlayer(t, timedCourse())

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	ps := scr.(*PlayerScreen)
	if !ps.showingQuit {
		t.Error("expected quit confirmation dialog")
	}

	scr, _ = ps.Update(keyPress('n'))
	ps = scr.(*PlayerScreen)
	if ps.showingQuit {
		t.Error("expected quit confirmation to be dismissed")
	}
}

func TestPlayerScreen_QuitConfirm_Yes(t *testing.T) {
	s, _ := testPlayer(t, timedCourse())

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	_, cmd := scr.Update(keyPress('y'))

	if cmd == nil {
		t.Fatal("expected a command after quit confirmation")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestPlayerScreen_CloseEndsSession(t *testing.T) {
	s, j := testPlayer(t, timedCourse())

	s.Close()
	s.Close()

	require.Len(t, j.Sessions, 2)
	assert.Equal(t, store.ActionEnd, j.Sessions[1].Action)
	assert.Nil(t, press(s, clockTickMsg(time.Now())), "ticks stop after close")
}

func TestPlayerScreen_KeyHints(t *testing.T) {
	s, _ := testPlayer(t, timedCourse())
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}

	s.showingQuit = true
	hints := s.KeyHints()
	if len(hints) != 2 || hints[0].Key != "Y" {
		t.Errorf("quit hints = %v", hints)
	}
}

func TestPlayerScreen_EmptyCourse(t *testing.T) {
	s, _ := testPlayer(t, course.Course{Name: "Empty"})
	view := s.View(100, 30)
	if !strings.Contains(view, "no content") {
		t.Errorf("view = %q, want empty-course hint", view)
	}
	done, total := s.CourseProgress()
	if done != 0 || total != 0 {
		t.Errorf("CourseProgress = (%d, %d), want (0, 0)", done, total)
	}
}
