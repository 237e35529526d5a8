// Package simulate plays a course without a terminal UI: it waits out every
// dwell timer, answers every quiz and reports what the engine emitted.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/lumenlearn/lumen/internal/course"
	"github.com/lumenlearn/lumen/internal/lockdown"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/player"
	"github.com/lumenlearn/lumen/internal/progress"
	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/store"
)

// maxVirtualTicks bounds the wait on a single timed lock on the virtual clock.
const maxVirtualTicks = 1 << 20

// Strategy picks the answer to a question: an alternative index for
// multiple choice, text for open questions.
type Strategy func(q course.Question) (index int, text string)

// AnswerCorrectly picks the keyed alternative, or the first one when the
// question has no key.
func AnswerCorrectly(q course.Question) (int, string) {
	if q.CorrectAnswerIndex != nil {
		return *q.CorrectAnswerIndex, ""
	}
	return 0, "simulated answer"
}

// AnswerFirst always picks the first alternative.
func AnswerFirst(course.Question) (int, string) {
	return 0, "simulated answer"
}

// Options configures a run.
type Options struct {
	// Realtime drives timers from the wall clock instead of a virtual one.
	Realtime     bool
	TickInterval time.Duration
	Strategy     Strategy
	Journal      store.Journal
	Logger       *logger.Logger

	// Out receives one line per engine event. Nil discards them.
	Out io.Writer
}

// Report is the outcome of a run.
type Report struct {
	SessionID string
	Summary   progress.Summary
	Events    int
	Results   map[string]quiz.Result
	Elapsed   time.Duration
}

// Run plays c from the first item to the last.
func Run(ctx context.Context, c course.Course, opts Options) (Report, error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = lockdown.TickInterval
	}
	if opts.Strategy == nil {
		opts.Strategy = AnswerCorrectly
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	engineOpts := []player.Option{
		player.WithTickInterval(opts.TickInterval),
		player.WithJournal(opts.Journal),
		player.WithLogger(opts.Logger),
	}

	var clock *lockdown.ManualScheduler
	start := time.Now()
	elapsed := func() time.Duration { return time.Since(start).Round(time.Millisecond) }
	if !opts.Realtime {
		clock = lockdown.NewManualScheduler()
		engineOpts = append(engineOpts, player.WithScheduler(clock))
		elapsed = clock.Now
	}

	e := player.New(c, engineOpts...)
	defer e.Close()

	rep := Report{SessionID: e.SessionID(), Results: make(map[string]quiz.Result)}
	unlocked := make(chan struct{}, 1)

	// Realtime ticks arrive on the scheduler goroutine.
	var mu sync.Mutex
	e.Subscribe(func(ev player.Event) {
		mu.Lock()
		defer mu.Unlock()
		rep.Events++
		fmt.Fprintf(opts.Out, "%10s  %s\n", elapsed(), ev)
		switch ev.Kind {
		case player.EventQuizCompleted:
			if ev.Result != nil {
				rep.Results[ev.ContentID] = *ev.Result
			}
		case player.EventLockChanged:
			if ev.Lock.Kind == player.Unlocked {
				select {
				case unlocked <- struct{}{}:
				default:
				}
			}
		}
	})

	if err := e.Start(); err != nil {
		return rep, err
	}

	for {
		if _, ok := e.Active(); !ok {
			break
		}
		if err := waitUnlocked(ctx, e, clock, opts.TickInterval, unlocked); err != nil {
			return rep, err
		}
		if s := e.Quiz(); s != nil && s.Phase() == quiz.PhaseIntro {
			if err := playQuiz(s, opts.Strategy); err != nil {
				return rep, err
			}
		}

		err := e.Next()
		if errors.Is(err, player.ErrOutOfRange) {
			break
		}
		if err != nil {
			return rep, err
		}
	}

	mu.Lock()
	defer mu.Unlock()
	rep.Summary = e.Summary()
	rep.Elapsed = elapsed()
	return rep, nil
}

// waitUnlocked returns once the active item is no longer behind a timed
// lock. Quiz locks are left to the caller.
func waitUnlocked(ctx context.Context, e *player.Engine, clock *lockdown.ManualScheduler, interval time.Duration, unlocked <-chan struct{}) error {
	if clock != nil {
		for i := 0; e.LockState().Kind == player.TimedLock; i++ {
			if i >= maxVirtualTicks {
				return fmt.Errorf("simulate: timed lock never released")
			}
			clock.Advance(interval)
		}
		return nil
	}

	for e.LockState().Kind == player.TimedLock {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-unlocked:
		}
	}
	return nil
}

func playQuiz(s *quiz.Session, pick Strategy) error {
	if err := s.Start(); err != nil {
		return err
	}
	for s.Phase() == quiz.PhasePlaying {
		q, _ := s.CurrentQuestion()
		idx, text := pick(q)
		if q.IsMultipleChoice() {
			s.Select(idx)
		} else {
			s.SetText(text)
		}
		if err := s.Confirm(); err != nil {
			return fmt.Errorf("simulate: question %q: %w", q.ID, err)
		}
		if s.Reviewing() {
			if err := s.Next(); err != nil {
				return err
			}
		}
	}
	return nil
}
