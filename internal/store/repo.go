package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// Completion reasons.
const (
	ReasonView  = "view"
	ReasonTimer = "timer"
	ReasonQuiz  = "quiz"
)

// SessionEventData records the start or end of a playback session.
type SessionEventData struct {
	SessionID      string
	CourseName     string
	Action         string
	ItemsCompleted int
	ItemsTotal     int
}

// CompletionEventData records one content item becoming completed.
type CompletionEventData struct {
	SessionID   string
	ContentID   string
	ContentType string
	Reason      string
}

// QuizEventData records one finished quiz attempt.
type QuizEventData struct {
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	ContentID    string
	QuizType     string
	CorrectCount int
	Total        int
	ScorePercent *int // nil for surveys
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Stats aggregates the journal.
type Stats struct {
	Sessions        int
	Completions     int
	QuizzesFinished int
	EvaluativeRuns  int
	AverageScore    float64 // over evaluative runs
}

// Journal is the write side used during playback.
type Journal interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendCompletionEvent(ctx context.Context, data CompletionEventData) error
	AppendQuizEvent(ctx context.Context, data QuizEventData) error
}

// EventRepo adds read access for the stats and report commands.
type EventRepo interface {
	Journal

	// Stats aggregates every recorded session.
	Stats(ctx context.Context) (Stats, error)

	// QuizEvents returns finished quizzes in sequence order.
	QuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEventData, error)
}
