// Package lockdown implements the minimum-dwell countdown that delays
// completion of non-quiz content, on top of a pluggable clock.
package lockdown

import (
	"sync"
	"time"
)

// Handle identifies a repeating schedule. The zero Handle is never issued.
type Handle uint64

// Scheduler runs callbacks on a fixed interval until cancelled.
type Scheduler interface {
	ScheduleRepeating(interval time.Duration, fn func()) Handle
	Cancel(h Handle)
}

// TickerScheduler drives schedules from the real clock. Each schedule owns
// a time.Ticker and a goroutine. Callbacks are handed to dispatch, which
// lets a host move them onto its own event loop; a nil dispatch runs them
// on the ticker goroutine.
type TickerScheduler struct {
	mu       sync.Mutex
	next     Handle
	stops    map[Handle]chan struct{}
	dispatch func(func())
}

// NewTickerScheduler returns a real-clock scheduler.
func NewTickerScheduler(dispatch func(func())) *TickerScheduler {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &TickerScheduler{
		stops:    make(map[Handle]chan struct{}),
		dispatch: dispatch,
	}
}

// ScheduleRepeating starts a ticker that calls fn every interval.
func (s *TickerScheduler) ScheduleRepeating(interval time.Duration, fn func()) Handle {
	s.mu.Lock()
	s.next++
	h := s.next
	stop := make(chan struct{})
	s.stops[h] = stop
	s.mu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				select {
				case <-stop:
					return
				default:
				}
				s.dispatch(fn)
			}
		}
	}()
	return h
}

// Cancel stops the schedule. Unknown or already cancelled handles are ignored.
func (s *TickerScheduler) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.stops[h]; ok {
		close(stop)
		delete(s.stops, h)
	}
}

// Stop cancels every outstanding schedule.
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, stop := range s.stops {
		close(stop)
		delete(s.stops, h)
	}
}

// ManualScheduler is a virtual clock. Time only moves when Advance is
// called, and due callbacks run synchronously on the caller's goroutine.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	next    Handle
	entries map[Handle]*manualEntry
}

type manualEntry struct {
	interval time.Duration
	due      time.Duration
	fn       func()
}

// NewManualScheduler returns a virtual clock at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{entries: make(map[Handle]*manualEntry)}
}

// ScheduleRepeating registers fn to run every interval of virtual time,
// first at now+interval.
func (m *ManualScheduler) ScheduleRepeating(interval time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if interval <= 0 {
		interval = time.Second
	}
	m.next++
	m.entries[m.next] = &manualEntry{interval: interval, due: m.now + interval, fn: fn}
	return m.next
}

// Cancel removes the schedule. Unknown handles are ignored.
func (m *ManualScheduler) Cancel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, h)
}

// Now returns the elapsed virtual time.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of live schedules.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Advance moves the clock forward by d, firing every callback that falls
// due in order. Callbacks may schedule or cancel other entries.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var (
			dueH Handle
			due  *manualEntry
		)
		for h, e := range m.entries {
			if e.due > target {
				continue
			}
			if due == nil || e.due < due.due || (e.due == due.due && h < dueH) {
				dueH, due = h, e
			}
		}
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.due
		due.due += due.interval
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}
