package course

import (
	"fmt"
	"strings"
)

// ValidationError lists every consistency problem found in a course document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidCourse, strings.Join(e.Problems, "; "))
}

// Unwrap lets errors.Is match ErrInvalidCourse.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidCourse
}

// Validate checks the invariants the player relies on: unique ids, quiz
// data present exactly on quiz items, and an answer key on every evaluative
// multiple choice question that points at an existing alternative. Quizzes
// without questions are allowed.
func Validate(c Course) error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.ContentLocking.MinimumTime < 0 {
		addf("contentLocking.minimumTime must not be negative, got %d", c.ContentLocking.MinimumTime)
	}

	topicIDs := make(map[string]bool)
	contentIDs := make(map[string]bool)
	for ti, t := range c.Topics {
		if t.ID == "" {
			addf("topic %d has no id", ti)
		} else if topicIDs[t.ID] {
			addf("duplicate topic id %q", t.ID)
		}
		topicIDs[t.ID] = true

		for _, it := range t.Contents {
			if it.ID == "" {
				addf("topic %q has a content item without id", t.ID)
			} else if contentIDs[it.ID] {
				addf("duplicate content id %q", it.ID)
			}
			contentIDs[it.ID] = true

			if !it.Type.Valid() {
				addf("content %q has unknown type %q", it.ID, it.Type)
			}
			switch {
			case it.IsQuiz() && it.QuizData == nil:
				addf("quiz %q has no quizData", it.ID)
			case !it.IsQuiz() && it.QuizData != nil:
				addf("content %q of type %s carries quizData", it.ID, it.Type)
			case it.QuizData != nil:
				problems = append(problems, validateQuiz(it.ID, *it.QuizData)...)
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateQuiz(contentID string, q QuizSpec) []string {
	var problems []string
	if q.QuizType != QuizEvaluative && q.QuizType != QuizSurvey {
		problems = append(problems, fmt.Sprintf("quiz %q has unknown quizType %q", contentID, q.QuizType))
	}

	seen := make(map[string]bool)
	for _, qu := range q.Questions {
		if seen[qu.ID] {
			problems = append(problems, fmt.Sprintf("quiz %q: duplicate question id %q", contentID, qu.ID))
		}
		seen[qu.ID] = true

		switch qu.QuestionType {
		case QuestionMultipleChoice:
			if len(qu.Alternatives) == 0 {
				problems = append(problems, fmt.Sprintf("quiz %q: question %q has no alternatives", contentID, qu.ID))
			}
			if q.QuizType == QuizEvaluative && qu.CorrectAnswerIndex == nil {
				problems = append(problems, fmt.Sprintf("quiz %q: question %q has no correctAnswerIndex", contentID, qu.ID))
			}
			if idx := qu.CorrectAnswerIndex; idx != nil && (*idx < 0 || *idx >= len(qu.Alternatives)) {
				problems = append(problems, fmt.Sprintf("quiz %q: question %q correctAnswerIndex %d out of range", contentID, qu.ID, *idx))
			}
		case QuestionOpenText:
			if len(qu.Alternatives) > 0 {
				problems = append(problems, fmt.Sprintf("quiz %q: open text question %q has alternatives", contentID, qu.ID))
			}
		default:
			problems = append(problems, fmt.Sprintf("quiz %q: question %q has unknown type %q", contentID, qu.ID, qu.QuestionType))
		}
	}
	return problems
}
