package player

import (
	"fmt"

	"github.com/lumenlearn/lumen/internal/quiz"
)

// LockKind is the gate on the active item.
type LockKind int

const (
	// Unlocked means the active item is completed, or nothing is active.
	Unlocked LockKind = iota
	// TimedLock waits for the minimum dwell time to elapse.
	TimedLock
	// QuizLock waits for the attached quiz to finish.
	QuizLock
)

func (k LockKind) String() string {
	switch k {
	case Unlocked:
		return "unlocked"
	case TimedLock:
		return "timed"
	case QuizLock:
		return "quiz"
	default:
		return fmt.Sprintf("LockKind(%d)", int(k))
	}
}

// LockState describes the lock on the active item.
type LockState struct {
	Kind      LockKind
	Duration  int // seconds, TimedLock only
	Remaining int // seconds, TimedLock only
}

func (l LockState) String() string {
	if l.Kind == TimedLock {
		return fmt.Sprintf("timed(%d/%d)", l.Remaining, l.Duration)
	}
	return l.Kind.String()
}

// EventKind identifies an Event.
type EventKind int

const (
	EventActivated EventKind = iota
	EventLockChanged
	EventTick
	EventCompleted
	EventQuizProgress
	EventQuizCompleted
	EventBlocked
)

func (k EventKind) String() string {
	switch k {
	case EventActivated:
		return "activated"
	case EventLockChanged:
		return "lock_changed"
	case EventTick:
		return "tick"
	case EventCompleted:
		return "completed"
	case EventQuizProgress:
		return "quiz_progress"
	case EventQuizCompleted:
		return "quiz_completed"
	case EventBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to observers after each engine mutation.
type Event struct {
	Kind      EventKind
	ContentID string
	Lock      LockState
	Quiz      quiz.Snapshot // EventQuizProgress
	Result    *quiz.Result  // EventQuizCompleted
}

func (e Event) String() string {
	switch e.Kind {
	case EventLockChanged, EventTick:
		return fmt.Sprintf("%s %s %s", e.Kind, e.ContentID, e.Lock)
	case EventQuizProgress:
		return fmt.Sprintf("%s %s %.2f %q", e.Kind, e.ContentID, e.Quiz.Progress, e.Quiz.PositionLabel)
	case EventQuizCompleted:
		if e.Result != nil && e.Result.Scored {
			return fmt.Sprintf("%s %s score=%d%%", e.Kind, e.ContentID, e.Result.ScorePercent)
		}
		return fmt.Sprintf("%s %s", e.Kind, e.ContentID)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.ContentID)
	}
}

// Observer receives engine events synchronously.
type Observer func(Event)
