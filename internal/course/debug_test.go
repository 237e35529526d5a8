package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizCourse() Course {
	return Course{
		Topics: []Topic{
			{ID: "t1", Contents: []ContentItem{
				{ID: "c1", Type: TypeVideo},
				{ID: "q1", Type: TypeQuiz, QuizData: &QuizSpec{
					QuizType: QuizEvaluative,
					Config:   DefaultQuizConfig(),
					Questions: []Question{
						{ID: "a", QuestionType: QuestionMultipleChoice, Text: "A?", Alternatives: []string{"x", "y", "z"}, CorrectAnswerIndex: IntPtr(2)},
						{ID: "b", QuestionType: QuestionOpenText, Text: "B?"},
					},
				}},
			}},
			{ID: "t2", Contents: []ContentItem{{ID: "c2", Type: TypeDocument}}},
		},
	}
}

func TestParseDebugOptions(t *testing.T) {
	opts, err := ParseDebugOptions("many-topics, no-feedback,")
	require.NoError(t, err)
	assert.True(t, opts[DebugManyTopics])
	assert.True(t, opts[DebugNoFeedback])
	assert.Len(t, opts, 2)

	_, err = ParseDebugOptions("many-topics,rainbow")
	assert.Error(t, err)
}

func TestApplyDebug_DoesNotMutateInput(t *testing.T) {
	c := quizCourse()
	out := ApplyDebug(c, DebugOptions{DebugFewAnswers: true, DebugVariedContent: true, DebugManyTopics: true})

	assert.Len(t, c.Topics, 2)
	assert.Len(t, c.Topics[0].Contents, 2)
	assert.Len(t, c.Topics[0].Contents[1].QuizData.Questions[0].Alternatives, 3)
	assert.Equal(t, 2, *c.Topics[0].Contents[1].QuizData.Questions[0].CorrectAnswerIndex)

	assert.Len(t, out.Topics, 17)
}

func TestApplyDebug_StructureOptions(t *testing.T) {
	out := ApplyDebug(quizCourse(), DebugOptions{DebugVariedContent: true, DebugMultipleQuizzes: true})

	ids := make([]string, 0)
	for _, it := range out.Topics[1].Contents {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"c2", "debug_video_t2", "debug_doc_t2", "debug_quiz_t2"}, ids)

	extra := out.Topics[1].Contents[3]
	require.NotNil(t, extra.QuizData)
	assert.Len(t, extra.QuizData.Questions, 2)
}

func TestApplyQuizDebug_QuestionCounts(t *testing.T) {
	item := quizCourse().Topics[0].Contents[1]

	many := ApplyQuizDebug(item, DebugOptions{DebugManyQuestions: true})
	assert.Len(t, many.QuizData.Questions, 20)
	assert.Equal(t, "debug_many_19", many.QuizData.Questions[19].ID)

	few := ApplyQuizDebug(item, DebugOptions{DebugFewQuestions: true})
	assert.Len(t, few.QuizData.Questions, 1)
}

func TestApplyQuizDebug_Alternatives(t *testing.T) {
	item := quizCourse().Topics[0].Contents[1]

	few := ApplyQuizDebug(item, DebugOptions{DebugFewAnswers: true})
	q := few.QuizData.Questions[0]
	assert.Len(t, q.Alternatives, 2)
	assert.Equal(t, 1, *q.CorrectAnswerIndex)

	many := ApplyQuizDebug(item, DebugOptions{DebugManyAnswers: true})
	assert.Len(t, many.QuizData.Questions[0].Alternatives, 6)
	assert.Empty(t, many.QuizData.Questions[1].Alternatives, "open text stays without alternatives")
}

func TestApplyQuizDebug_Config(t *testing.T) {
	item := quizCourse().Topics[0].Contents[1]
	out := ApplyQuizDebug(item, DebugOptions{DebugNoFeedback: true, DebugShortTimeLimit: true})

	assert.False(t, out.QuizData.Config.ShowImmediateFeedback)
	require.NotNil(t, out.QuizData.Config.MaxTimeMinutes)
	assert.Equal(t, 1, *out.QuizData.Config.MaxTimeMinutes)
	assert.True(t, item.QuizData.Config.ShowImmediateFeedback)
}

func TestApplyQuizDebug_EmptyQuizGetsDefaultQuestion(t *testing.T) {
	item := ContentItem{ID: "q", Type: TypeQuiz, QuizData: &QuizSpec{QuizType: QuizEvaluative}}
	out := ApplyQuizDebug(item, DebugOptions{DebugLongQuestionText: true})
	require.Len(t, out.QuizData.Questions, 1)
	assert.Equal(t, "default_debug_1", out.QuizData.Questions[0].ID)
	assert.Empty(t, item.QuizData.Questions)
}
