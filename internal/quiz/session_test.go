package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen/internal/course"
)

func evaluativeSpec(feedback bool) course.QuizSpec {
	return course.QuizSpec{
		Name:     "Arithmetic",
		QuizType: course.QuizEvaluative,
		Config:   course.QuizConfig{ShowImmediateFeedback: feedback, RetakeAttempts: 1},
		Questions: []course.Question{
			{ID: "q1", QuestionType: course.QuestionMultipleChoice, Text: "1+1?", Alternatives: []string{"1", "2", "3"}, CorrectAnswerIndex: course.IntPtr(1)},
			{ID: "q2", QuestionType: course.QuestionMultipleChoice, Text: "2+2?", Alternatives: []string{"4", "5"}, CorrectAnswerIndex: course.IntPtr(0)},
		},
	}
}

func surveySpec() course.QuizSpec {
	return course.QuizSpec{
		QuizType: course.QuizSurvey,
		Config:   course.QuizConfig{ShowImmediateFeedback: true, RetakeAttempts: 1},
		Questions: []course.Question{
			{ID: "s1", QuestionType: course.QuestionOpenText, Text: "Thoughts?"},
			{ID: "s2", QuestionType: course.QuestionMultipleChoice, Text: "Rating?", Alternatives: []string{"good", "bad"}},
		},
	}
}

func TestStart(t *testing.T) {
	s := New(evaluativeSpec(true))
	if s.Phase() != PhaseIntro {
		t.Fatalf("Phase = %s, want intro", s.Phase())
	}
	if s.PositionLabel() != "" {
		t.Errorf("PositionLabel = %q in intro, want empty", s.PositionLabel())
	}

	require.NoError(t, s.Start())
	if s.Phase() != PhasePlaying {
		t.Errorf("Phase = %s, want playing", s.Phase())
	}
	if s.PositionLabel() != "1 / 2" {
		t.Errorf("PositionLabel = %q, want %q", s.PositionLabel(), "1 / 2")
	}
	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)
}

// Answer Q1 correctly with feedback, review, next, answer Q2 incorrectly,
// next: finished at 50%.
func TestEvaluativeWithFeedback(t *testing.T) {
	s := New(evaluativeSpec(true))
	var results []Result
	s.OnComplete(func(r Result) { results = append(results, r) })
	require.NoError(t, s.Start())

	s.Select(1)
	require.NoError(t, s.Confirm())
	if !s.Reviewing() {
		t.Fatal("expected review sub-state after confirming with feedback on")
	}
	assert.Equal(t, StatusCorrect, s.AlternativeStatus(1))
	assert.Equal(t, StatusDimmed, s.AlternativeStatus(0))
	assert.Equal(t, "1 / 2", s.PositionLabel(), "review stays on the answered question")

	s.Select(2)
	assert.Equal(t, 1, s.Selected(), "selection is frozen during review")

	require.NoError(t, s.Next())
	assert.Equal(t, "2 / 2", s.PositionLabel())

	s.Select(1)
	require.NoError(t, s.Confirm())
	require.True(t, s.Reviewing())
	assert.Equal(t, StatusIncorrect, s.AlternativeStatus(1))
	assert.Equal(t, StatusCorrect, s.AlternativeStatus(0))

	require.NoError(t, s.Next())
	assert.Equal(t, PhaseFinished, s.Phase())
	require.Len(t, results, 1)
	assert.True(t, results[0].Scored)
	assert.Equal(t, 1, results[0].CorrectCount)
	assert.Equal(t, 50, results[0].ScorePercent)
	assert.Equal(t, 1.0, s.Progress())
	assert.Equal(t, "", s.PositionLabel())
}

func TestEvaluativeWithoutFeedback(t *testing.T) {
	s := New(evaluativeSpec(false))
	require.NoError(t, s.Start())

	s.Select(1)
	require.NoError(t, s.Confirm())
	assert.False(t, s.Reviewing(), "no review without immediate feedback")
	assert.Equal(t, 0.5, s.Progress())

	s.Select(0)
	require.NoError(t, s.Confirm())
	require.NotNil(t, s.Result())
	assert.Equal(t, 100, s.Result().ScorePercent)
}

func TestConfirmInReviewActsAsNext(t *testing.T) {
	s := New(evaluativeSpec(true))
	require.NoError(t, s.Start())
	s.Select(0)
	require.NoError(t, s.Confirm())
	require.True(t, s.CanConfirm())
	require.NoError(t, s.Confirm())
	assert.False(t, s.Reviewing())
	assert.Equal(t, 1, s.Index())
}

// Survey: every confirm advances immediately and there is no score.
func TestSurvey(t *testing.T) {
	s := New(surveySpec())
	var result *Result
	s.OnComplete(func(r Result) { result = &r })
	require.NoError(t, s.Start())

	s.Select(0)
	assert.Equal(t, -1, s.Selected(), "open-text questions ignore Select")
	s.SetText("  liked it ")
	require.NoError(t, s.Confirm())
	assert.False(t, s.Reviewing())
	assert.Equal(t, "2 / 2", s.PositionLabel())

	s.Select(1)
	require.NoError(t, s.Confirm())
	assert.False(t, s.Reviewing())

	require.NotNil(t, result)
	assert.False(t, result.Scored)
	assert.Equal(t, 0, result.ScorePercent)
	require.Len(t, result.Answers, 2)
	assert.Equal(t, "  liked it ", result.Answers[0].Text, "survey answers are kept verbatim")
	assert.Nil(t, result.Answers[0].IsCorrect)
	assert.Equal(t, 1, result.Answers[1].SelectedIndex)
}

func TestConfirmWithoutSelection(t *testing.T) {
	s := New(surveySpec())
	require.NoError(t, s.Start())

	s.SetText("   ")
	if s.CanConfirm() {
		t.Error("blank text must not be confirmable")
	}
	err := s.Confirm()
	if !errors.Is(err, ErrNoSelection) {
		t.Errorf("Confirm err = %v, want ErrNoSelection", err)
	}
	if len(s.Answers()) != 0 {
		t.Errorf("Answers = %d, want 0 after rejected confirm", len(s.Answers()))
	}
	if s.Index() != 0 {
		t.Errorf("Index = %d, want 0", s.Index())
	}
}

func TestConfirmOutsidePlaying(t *testing.T) {
	s := New(surveySpec())
	assert.ErrorIs(t, s.Confirm(), ErrNotPlaying)
	assert.ErrorIs(t, s.Next(), ErrNotPlaying)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Next(), ErrNotReviewing)
}

func TestZeroQuestions(t *testing.T) {
	s := New(course.QuizSpec{QuizType: course.QuizEvaluative, Config: course.DefaultQuizConfig()})
	completions := 0
	var got Result
	s.OnComplete(func(r Result) {
		completions++
		got = r
	})

	require.NoError(t, s.Start())
	assert.Equal(t, PhaseFinished, s.Phase())
	assert.Equal(t, 1, completions)
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 0, got.ScorePercent)
	assert.Equal(t, 1.0, s.Progress())
}

func TestProgressIsMonotonic(t *testing.T) {
	for _, feedback := range []bool{true, false} {
		s := New(evaluativeSpec(feedback))
		var seen []float64
		s.OnChange(func(snap Snapshot) { seen = append(seen, snap.Progress) })

		require.NoError(t, s.Start())
		for s.Phase() == PhasePlaying {
			if !s.Reviewing() {
				s.Select(0)
			}
			require.NoError(t, s.Confirm())
		}

		require.NotEmpty(t, seen)
		for i := 1; i < len(seen); i++ {
			if seen[i] < seen[i-1] {
				t.Errorf("feedback=%v: progress went from %f to %f", feedback, seen[i-1], seen[i])
			}
		}
		if seen[len(seen)-1] != 1.0 {
			t.Errorf("feedback=%v: final progress = %f, want 1", feedback, seen[len(seen)-1])
		}
	}
}

func TestOpenTextInEvaluativeIsUngraded(t *testing.T) {
	spec := evaluativeSpec(true)
	spec.Questions = append(spec.Questions, course.Question{ID: "q3", QuestionType: course.QuestionOpenText, Text: "Why?"})
	s := New(spec)
	require.NoError(t, s.Start())

	s.Select(1)
	require.NoError(t, s.Confirm())
	require.NoError(t, s.Next())
	s.Select(0)
	require.NoError(t, s.Confirm())
	require.NoError(t, s.Next())

	s.SetText("because")
	require.NoError(t, s.Confirm())
	assert.False(t, s.Reviewing(), "ungraded answers skip review")

	r := s.Result()
	require.NotNil(t, r)
	assert.Equal(t, 2, r.CorrectCount)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 67, r.ScorePercent)
}

func TestEvaluativeWithoutAnswerKeyGradesIncorrect(t *testing.T) {
	spec := evaluativeSpec(true)
	spec.Questions[0].CorrectAnswerIndex = nil
	s := New(spec)
	require.NoError(t, s.Start())

	s.Select(0)
	require.NoError(t, s.Confirm())
	require.True(t, s.Reviewing(), "unkeyed multiple choice still goes through review")
	assert.Equal(t, StatusIncorrect, s.AlternativeStatus(0))
	assert.Equal(t, StatusDimmed, s.AlternativeStatus(1))

	answers := s.Answers()
	require.Len(t, answers, 1)
	require.NotNil(t, answers[0].IsCorrect)
	assert.False(t, *answers[0].IsCorrect)

	require.NoError(t, s.Next())
	s.Select(0)
	require.NoError(t, s.Confirm())
	require.NoError(t, s.Next())

	r := s.Result()
	require.NotNil(t, r)
	assert.Equal(t, 1, r.CorrectCount)
	assert.Equal(t, 50, r.ScorePercent)
}

func TestResultTimestamps(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	s := New(course.QuizSpec{QuizType: course.QuizSurvey}, WithClock(clock))
	require.NoError(t, s.Start())
	r := s.Result()
	require.NotNil(t, r)
	assert.Equal(t, base.Add(time.Minute), r.StartedAt)
	assert.Equal(t, base.Add(2*time.Minute), r.FinishedAt)
}

func TestAlternativeLetter(t *testing.T) {
	tests := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", -1: ""}
	for in, want := range tests {
		if got := AlternativeLetter(in); got != want {
			t.Errorf("AlternativeLetter(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestAlternativeStatus_Selection(t *testing.T) {
	s := New(evaluativeSpec(true))
	assert.Equal(t, StatusNeutral, s.AlternativeStatus(0), "intro has no current question")

	require.NoError(t, s.Start())
	s.Select(2)
	assert.Equal(t, StatusSelected, s.AlternativeStatus(2))
	assert.Equal(t, StatusNeutral, s.AlternativeStatus(0))
	assert.Equal(t, StatusNeutral, s.AlternativeStatus(9))
}
