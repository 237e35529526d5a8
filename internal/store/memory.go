package store

import (
	"context"
	"sync"
	"time"
)

// NopJournal discards every event.
type NopJournal struct{}

func (NopJournal) AppendSessionEvent(context.Context, SessionEventData) error       { return nil }
func (NopJournal) AppendCompletionEvent(context.Context, CompletionEventData) error { return nil }
func (NopJournal) AppendQuizEvent(context.Context, QuizEventData) error             { return nil }

// MemoryJournal keeps events in memory. Tests use it to assert what the
// player recorded.
type MemoryJournal struct {
	mu          sync.Mutex
	seq         int64
	Sessions    []SessionEventData
	Completions []CompletionEventData
	Quizzes     []QuizEventData
}

// NewMemoryJournal returns an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (m *MemoryJournal) AppendSessionEvent(_ context.Context, data SessionEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.Sessions = append(m.Sessions, data)
	return nil
}

func (m *MemoryJournal) AppendCompletionEvent(_ context.Context, data CompletionEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.Completions = append(m.Completions, data)
	return nil
}

func (m *MemoryJournal) AppendQuizEvent(_ context.Context, data QuizEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	data.Sequence = m.seq
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now().UTC()
	}
	m.Quizzes = append(m.Quizzes, data)
	return nil
}

// CompletedIDs returns the content ids recorded as completed, in order.
func (m *MemoryJournal) CompletedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Completions))
	for _, c := range m.Completions {
		out = append(out, c.ContentID)
	}
	return out
}

func (m *MemoryJournal) Stats(context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var st Stats
	seen := make(map[string]bool)
	for _, s := range m.Sessions {
		seen[s.SessionID] = true
	}
	st.Sessions = len(seen)
	st.Completions = len(m.Completions)
	st.QuizzesFinished = len(m.Quizzes)

	sum := 0
	for _, q := range m.Quizzes {
		if q.ScorePercent != nil {
			st.EvaluativeRuns++
			sum += *q.ScorePercent
		}
	}
	if st.EvaluativeRuns > 0 {
		st.AverageScore = float64(sum) / float64(st.EvaluativeRuns)
	}
	return st, nil
}

func (m *MemoryJournal) QuizEvents(_ context.Context, opts QueryOpts) ([]QuizEventData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []QuizEventData
	for _, q := range m.Quizzes {
		if opts.After > 0 && q.Sequence <= opts.After {
			continue
		}
		if opts.Before > 0 && q.Sequence >= opts.Before {
			continue
		}
		if !opts.From.IsZero() && q.Timestamp.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && q.Timestamp.After(opts.To) {
			continue
		}
		out = append(out, q)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}
