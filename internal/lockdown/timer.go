package lockdown

import (
	"sync"
	"time"
)

// TickInterval is the countdown granularity.
const TickInterval = time.Second

// Timer counts down whole seconds and calls a completion callback once the
// count reaches zero. A cancelled timer never calls it.
type Timer struct {
	mu        sync.Mutex
	sched     Scheduler
	interval  time.Duration
	onTick    func(remaining int)
	handle    Handle
	gen       uint64
	running   bool
	done      bool
	duration  int
	remaining int
}

// TimerOption configures a Timer.
type TimerOption func(*Timer)

// WithInterval changes the wall-clock length of one countdown step. The
// countdown still decrements by one second per step.
func WithInterval(d time.Duration) TimerOption {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithTickHook registers fn to observe every step with the remaining count.
func WithTickHook(fn func(remaining int)) TimerOption {
	return func(t *Timer) { t.onTick = fn }
}

// NewTimer creates an idle timer driven by sched.
func NewTimer(sched Scheduler, opts ...TimerOption) *Timer {
	t := &Timer{sched: sched, interval: TickInterval}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Start begins a countdown of seconds. A running countdown is cancelled
// first and the new one starts from the full duration. A non-positive
// duration completes immediately.
func (t *Timer) Start(seconds int, onDone func()) {
	t.mu.Lock()
	t.cancelLocked()
	t.duration = seconds
	t.remaining = seconds
	t.done = false

	if seconds <= 0 {
		t.remaining = 0
		t.done = true
		t.mu.Unlock()
		if onDone != nil {
			onDone()
		}
		return
	}

	t.gen++
	gen := t.gen
	t.running = true
	t.handle = t.sched.ScheduleRepeating(t.interval, func() { t.step(gen, onDone) })
	t.mu.Unlock()
}

func (t *Timer) step(gen uint64, onDone func()) {
	t.mu.Lock()
	if !t.running || t.gen != gen {
		t.mu.Unlock()
		return
	}
	t.remaining--
	remaining := t.remaining
	finished := remaining <= 0
	if finished {
		t.remaining = 0
		t.running = false
		t.done = true
		t.sched.Cancel(t.handle)
		t.handle = 0
	}
	tick := t.onTick
	t.mu.Unlock()

	if tick != nil {
		tick(remaining)
	}
	if finished && onDone != nil {
		onDone()
	}
}

// Cancel stops a running countdown without calling its callback. It is a
// no-op on an idle timer.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *Timer) cancelLocked() {
	if !t.running {
		return
	}
	t.sched.Cancel(t.handle)
	t.handle = 0
	t.running = false
	t.gen++
}

// Remaining returns the seconds left on the current countdown.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether a countdown is in progress.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Progress returns the elapsed fraction of the last countdown, 0..1.
func (t *Timer) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return 1
	}
	if t.duration <= 0 {
		return 0
	}
	return float64(t.duration-t.remaining) / float64(t.duration)
}
