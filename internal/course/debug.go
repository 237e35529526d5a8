package course

import (
	"fmt"
	"slices"
	"strings"
)

// DebugOption names a layout stress transformation applied to a course
// before playback. These exist for exercising the player UI with unusual
// shapes; the engine never knows whether they were applied.
type DebugOption string

const (
	DebugManyTopics       DebugOption = "many-topics"
	DebugVariedContent    DebugOption = "varied-content"
	DebugMultipleQuizzes  DebugOption = "multiple-quizzes"
	DebugLongQuestionText DebugOption = "long-question-text"
	DebugLongAnswerText   DebugOption = "long-answer-text"
	DebugManyQuestions    DebugOption = "many-questions"
	DebugFewQuestions     DebugOption = "few-questions"
	DebugManyAnswers      DebugOption = "many-answers"
	DebugFewAnswers       DebugOption = "few-answers"
	DebugShortTimeLimit   DebugOption = "short-time-limit"
	DebugNoFeedback       DebugOption = "no-feedback"
)

// AllDebugOptions lists every known option in menu order.
var AllDebugOptions = []DebugOption{
	DebugManyTopics, DebugVariedContent, DebugMultipleQuizzes,
	DebugLongQuestionText, DebugLongAnswerText,
	DebugManyQuestions, DebugFewQuestions,
	DebugManyAnswers, DebugFewAnswers,
	DebugShortTimeLimit, DebugNoFeedback,
}

// DebugOptions is the set of enabled transformations.
type DebugOptions map[DebugOption]bool

// ParseDebugOptions parses a comma separated option list.
func ParseDebugOptions(s string) (DebugOptions, error) {
	opts := DebugOptions{}
	for _, part := range strings.Split(s, ",") {
		name := DebugOption(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if !slices.Contains(AllDebugOptions, name) {
			return nil, fmt.Errorf("unknown debug option %q", name)
		}
		opts[name] = true
	}
	return opts, nil
}

func (o DebugOptions) hasAny(names ...DebugOption) bool {
	for _, n := range names {
		if o[n] {
			return true
		}
	}
	return false
}

// ApplyDebug returns a transformed copy of the course; c is left untouched.
// Quiz level options are applied to every quiz item.
func ApplyDebug(c Course, opts DebugOptions) Course {
	out := c.Clone()
	if len(opts) == 0 {
		return out
	}

	if opts.hasAny(DebugVariedContent, DebugMultipleQuizzes) {
		var firstQuiz *ContentItem
		for _, it := range Flatten(out) {
			if it.IsQuiz() {
				q := it.Clone()
				firstQuiz = &q
				break
			}
		}

		for i := range out.Topics {
			t := &out.Topics[i]
			if opts[DebugVariedContent] {
				t.Contents = append(t.Contents,
					ContentItem{ID: "debug_video_" + t.ID, Type: TypeVideo, Title: "Debug: sample video", Source: "https://www.youtube.com/watch?v=nO_d_J-h3bY"},
					ContentItem{ID: "debug_doc_" + t.ID, Type: TypeDocument, Title: "Debug: important document"},
				)
			}
			if opts[DebugMultipleQuizzes] && firstQuiz != nil {
				q := firstQuiz.Clone()
				q.ID = "debug_quiz_" + t.ID
				q.Title = "Debug: extra quiz"
				t.Contents = append(t.Contents, q)
			}
		}
	}

	if opts[DebugManyTopics] {
		for i := 0; i < 15; i++ {
			out.Topics = append(out.Topics, Topic{
				ID:    fmt.Sprintf("debug_topic_%d", i),
				Title: fmt.Sprintf("Debug topic %d", i+1),
				Contents: []ContentItem{
					{ID: fmt.Sprintf("debug_content_%d", i), Type: TypeDocument, Title: fmt.Sprintf("Sample content %d", i+1)},
				},
			})
		}
	}

	for ti := range out.Topics {
		for ci, it := range out.Topics[ti].Contents {
			if it.IsQuiz() {
				out.Topics[ti].Contents[ci] = ApplyQuizDebug(it, opts)
			}
		}
	}
	return out
}

// ApplyQuizDebug returns a transformed copy of a quiz item.
func ApplyQuizDebug(item ContentItem, opts DebugOptions) ContentItem {
	out := item.Clone()
	if out.QuizData == nil || len(opts) == 0 {
		return out
	}
	quiz := out.QuizData

	questions := quiz.Questions
	if len(questions) == 0 {
		questions = []Question{{
			ID:                 "default_debug_1",
			QuestionType:       QuestionMultipleChoice,
			Text:               "This is a default question.",
			Alternatives:       []string{"Alternative A", "Alternative B"},
			CorrectAnswerIndex: IntPtr(0),
		}}
	}

	switch {
	case opts[DebugManyQuestions]:
		base := questions[0]
		questions = make([]Question, 20)
		for i := range questions {
			q := base.Clone()
			q.ID = fmt.Sprintf("debug_many_%d", i)
			q.Text = fmt.Sprintf("This is test question number %d. What is the right answer?", i+1)
			questions[i] = q
		}
	case opts[DebugFewQuestions]:
		questions = questions[:1]
	}

	for i := range questions {
		q := &questions[i]
		if opts[DebugLongQuestionText] {
			q.Text = "An exceptionally long question statement used to check wrapping and spacing. " +
				strings.Repeat("The goal is to verify that alignment and line breaks stay readable. ", 5) +
				"The question goes on about a complex topic before asking for an answer."
		}
		if !q.IsMultipleChoice() {
			continue
		}
		switch {
		case opts[DebugManyAnswers]:
			for len(q.Alternatives) < 6 {
				q.Alternatives = append(q.Alternatives, fmt.Sprintf("New alternative %d", len(q.Alternatives)+1))
			}
		case opts[DebugFewAnswers]:
			if len(q.Alternatives) > 2 {
				q.Alternatives = q.Alternatives[:2]
			}
			if q.CorrectAnswerIndex != nil && *q.CorrectAnswerIndex >= 2 {
				q.CorrectAnswerIndex = IntPtr(1)
			}
		}
		if opts[DebugLongAnswerText] {
			for j := range q.Alternatives {
				q.Alternatives[j] = fmt.Sprintf("[Alternative %d] A much longer answer option meant to check how several lines of text render inside a single alternative.", j+1)
			}
		}
	}
	quiz.Questions = questions

	if opts[DebugShortTimeLimit] {
		quiz.Config.MaxTimeMinutes = IntPtr(1)
	}
	if opts[DebugNoFeedback] {
		quiz.Config.ShowImmediateFeedback = false
	}
	return out
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	out := c
	out.Topics = make([]Topic, len(c.Topics))
	for i, t := range c.Topics {
		nt := t
		nt.Contents = make([]ContentItem, len(t.Contents))
		for j, it := range t.Contents {
			nt.Contents[j] = it.Clone()
		}
		out.Topics[i] = nt
	}
	return out
}

// Clone returns a deep copy of the item including its quiz.
func (c ContentItem) Clone() ContentItem {
	out := c
	if c.QuizData != nil {
		q := *c.QuizData
		q.Questions = make([]Question, len(c.QuizData.Questions))
		for i, qu := range c.QuizData.Questions {
			q.Questions[i] = qu.Clone()
		}
		q.Config.MaxTimeMinutes = clonePtr(c.QuizData.Config.MaxTimeMinutes)
		q.Config.QuestionsToDisplay = clonePtr(c.QuizData.Config.QuestionsToDisplay)
		out.QuizData = &q
	}
	return out
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	out.Alternatives = slices.Clone(q.Alternatives)
	out.CorrectAnswerIndex = clonePtr(q.CorrectAnswerIndex)
	return out
}

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
