// Package progress tracks which content items a learner has completed in
// the current playback session and derives accessibility from it.
package progress

import "github.com/lumenlearn/lumen/internal/course"

// Tracker is the set of completed content item ids. Ids are only ever
// added; nothing removes them within a session.
type Tracker struct {
	done  map[string]bool
	order []string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{done: make(map[string]bool)}
}

// MarkCompleted records id as completed. It returns true only the first
// time a given id is recorded.
func (t *Tracker) MarkCompleted(id string) bool {
	if t.done[id] {
		return false
	}
	t.done[id] = true
	t.order = append(t.order, id)
	return true
}

// IsCompleted reports whether id has been completed.
func (t *Tracker) IsCompleted(id string) bool {
	return t.done[id]
}

// Completed returns the completed ids in the order they were recorded.
func (t *Tracker) Completed() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of completed items.
func (t *Tracker) Len() int {
	return len(t.order)
}

// IsAccessible reports whether the learner may navigate to id. With
// locking disabled everything is reachable; otherwise an item is reachable
// when it is the first in playback order or its predecessor is completed.
// Unknown ids are treated like the first item.
func IsAccessible(t *Tracker, c course.Course, flattened []course.ContentItem, id string) bool {
	if !c.ContentLocking.Enabled {
		return true
	}
	idx := course.IndexOf(flattened, id)
	if idx <= 0 {
		return true
	}
	return t.IsCompleted(flattened[idx-1].ID)
}
