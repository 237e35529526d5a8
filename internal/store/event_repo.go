package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo with raw SQL.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) timestamp() int64 {
	return time.Now().UnixMilli()
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session_events (sequence, timestamp, session_id, course_name, action, items_completed, items_total)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, r.timestamp(), data.SessionID, data.CourseName, data.Action, data.ItemsCompleted, data.ItemsTotal,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendCompletionEvent(ctx context.Context, data CompletionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO completion_events (sequence, timestamp, session_id, content_id, content_type, reason)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, r.timestamp(), data.SessionID, data.ContentID, data.ContentType, data.Reason,
	)
	if err != nil {
		return fmt.Errorf("save completion event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var score sql.NullInt64
	if data.ScorePercent != nil {
		score = sql.NullInt64{Int64: int64(*data.ScorePercent), Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO quiz_events (sequence, timestamp, session_id, content_id, quiz_type, correct_count, total, score_percent, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, r.timestamp(), data.SessionID, data.ContentID, data.QuizType,
		data.CorrectCount, data.Total, score,
		data.StartedAt.UnixMilli(), data.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT session_id) FROM session_events`,
	).Scan(&st.Sessions)
	if err != nil {
		return Stats{}, fmt.Errorf("count sessions: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM completion_events`,
	).Scan(&st.Completions)
	if err != nil {
		return Stats{}, fmt.Errorf("count completions: %w", err)
	}

	var avg sql.NullFloat64
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(score_percent), AVG(score_percent) FROM quiz_events`,
	).Scan(&st.QuizzesFinished, &st.EvaluativeRuns, &avg)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate quizzes: %w", err)
	}
	if avg.Valid {
		st.AverageScore = avg.Float64
	}
	return st, nil
}

func (r *eventRepo) QuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEventData, error) {
	var (
		where []string
		args  []any
	)
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, opts.To.UnixMilli())
	}

	q := `SELECT sequence, timestamp, session_id, content_id, quiz_type, correct_count, total, score_percent, started_at, finished_at
		FROM quiz_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence ASC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}
	defer rows.Close()

	var out []QuizEventData
	for rows.Next() {
		var (
			ev                    QuizEventData
			ts, started, finished int64
			score                 sql.NullInt64
		)
		if err := rows.Scan(&ev.Sequence, &ts, &ev.SessionID, &ev.ContentID, &ev.QuizType,
			&ev.CorrectCount, &ev.Total, &score, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan quiz event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(ts).UTC()
		ev.StartedAt = time.UnixMilli(started).UTC()
		ev.FinishedAt = time.UnixMilli(finished).UTC()
		if score.Valid {
			v := int(score.Int64)
			ev.ScorePercent = &v
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz events: %w", err)
	}
	return out, nil
}
