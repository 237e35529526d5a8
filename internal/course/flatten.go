package course

// Flatten returns every content item of the course in playback order:
// topics in order, then each topic's contents in order. The index of an
// item in the result defines its predecessor for locking.
func Flatten(c Course) []ContentItem {
	n := 0
	for _, t := range c.Topics {
		n += len(t.Contents)
	}

	items := make([]ContentItem, 0, n)
	for _, t := range c.Topics {
		items = append(items, t.Contents...)
	}
	return items
}

// IndexOf returns the position of the item with the given id, or -1.
func IndexOf(items []ContentItem, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// TopicOf returns the topic owning the content item with the given id.
func TopicOf(c Course, contentID string) (Topic, bool) {
	for _, t := range c.Topics {
		for _, it := range t.Contents {
			if it.ID == contentID {
				return t, true
			}
		}
	}
	return Topic{}, false
}
