package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lumenlearn/lumen/internal/store"
)

func TestWriteQuizWorkbook(t *testing.T) {
	started := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	score := 75
	events := []store.QuizEventData{
		{SessionID: "s1", ContentID: "q1", QuizType: "evaluative", CorrectCount: 3, Total: 4, ScorePercent: &score, StartedAt: started, FinishedAt: started.Add(90 * time.Second)},
		{SessionID: "s1", ContentID: "feedback", QuizType: "survey", Total: 2, StartedAt: started, FinishedAt: started.Add(time.Minute)},
	}
	stats := store.Stats{Sessions: 1, Completions: 5, QuizzesFinished: 2, EvaluativeRuns: 1, AverageScore: 75}

	var buf bytes.Buffer
	require.NoError(t, WriteQuizWorkbook(&buf, events, stats))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Quizzes", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Quizzes")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Session", rows[0][0])
	assert.Equal(t, []string{"s1", "q1", "evaluative", "3", "4", "75", "2026-05-04T09:00:00Z", "2026-05-04T09:01:30Z", "90"}, rows[1])
	assert.Equal(t, "", rows[2][5], "surveys have no score")

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, []string{"Items completed", "5"}, summary[1])
	assert.Equal(t, []string{"Average score %", "75.0"}, summary[4])
}

func TestWriteQuizWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteQuizWorkbook(&buf, nil, store.Stats{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Quizzes")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
