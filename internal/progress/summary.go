package progress

import "github.com/lumenlearn/lumen/internal/course"

// TopicProgress is the completion state of a single topic.
type TopicProgress struct {
	TopicID        string
	Title          string
	CompletedItems int
	TotalItems     int
}

// IsCompleted is true when every item of the topic is done. Topics without
// items count as completed.
func (tp TopicProgress) IsCompleted() bool {
	return tp.CompletedItems == tp.TotalItems
}

// Summary is the course-wide completion picture.
type Summary struct {
	CompletedItems int
	TotalItems     int
	CompletionPct  float64 // 0-100
	Topics         []TopicProgress
	IsCompleted    bool
}

// Summarize computes completion counts per topic and for the whole course.
func Summarize(c course.Course, t *Tracker) Summary {
	var s Summary
	for _, topic := range c.Topics {
		tp := TopicProgress{
			TopicID:    topic.ID,
			Title:      topic.Title,
			TotalItems: len(topic.Contents),
		}
		for _, it := range topic.Contents {
			if t.IsCompleted(it.ID) {
				tp.CompletedItems++
			}
		}
		s.CompletedItems += tp.CompletedItems
		s.TotalItems += tp.TotalItems
		s.Topics = append(s.Topics, tp)
	}

	if s.TotalItems > 0 {
		s.CompletionPct = float64(s.CompletedItems) / float64(s.TotalItems) * 100
	}
	s.IsCompleted = s.TotalItems > 0 && s.CompletedItems == s.TotalItems
	return s
}
