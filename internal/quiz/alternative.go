package quiz

// AlternativeStatus describes how an alternative should be drawn.
type AlternativeStatus int

const (
	StatusNeutral AlternativeStatus = iota
	StatusSelected
	StatusCorrect
	StatusIncorrect
	StatusDimmed
)

func (st AlternativeStatus) String() string {
	switch st {
	case StatusSelected:
		return "selected"
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	case StatusDimmed:
		return "dimmed"
	default:
		return "neutral"
	}
}

// AlternativeStatus returns the display status of alternative i of the
// current question. During review the correct alternative is marked, a
// wrong pick is marked incorrect and the rest are dimmed.
func (s *Session) AlternativeStatus(i int) AlternativeStatus {
	q, ok := s.CurrentQuestion()
	if !ok || i < 0 || i >= len(q.Alternatives) {
		return StatusNeutral
	}

	if !s.reviewing {
		if i == s.selected {
			return StatusSelected
		}
		return StatusNeutral
	}

	last := s.answers[len(s.answers)-1]
	switch {
	case q.CorrectAnswerIndex != nil && i == *q.CorrectAnswerIndex:
		return StatusCorrect
	case i == last.SelectedIndex:
		return StatusIncorrect
	default:
		return StatusDimmed
	}
}

// AlternativeLetter returns "A" for 0, "B" for 1 and so on, continuing
// with "AA" after "Z".
func AlternativeLetter(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}
