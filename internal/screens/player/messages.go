package player

import "time"

// clockTickMsg advances the playback clock by one tick interval.
type clockTickMsg time.Time

// activateMsg asks the engine to open a content item.
type activateMsg struct {
	ID string
}

// courseCompletedMsg is sent once, when the last outstanding item completes.
type courseCompletedMsg struct{}
