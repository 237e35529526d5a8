package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// Choices renders the alternatives of a multiple choice question. The
// quiz session owns selection and review; Choices only draws them.
type Choices struct {
	Question     string
	Alternatives []string
	Statuses     []quiz.AlternativeStatus
	Cursor       int
}

// ChoicesFromSession builds the alternative list for the current question
// of s, with the cursor at cursor.
func ChoicesFromSession(s *quiz.Session, cursor int) Choices {
	q, ok := s.CurrentQuestion()
	if !ok {
		return Choices{}
	}
	statuses := make([]quiz.AlternativeStatus, len(q.Alternatives))
	for i := range q.Alternatives {
		statuses[i] = s.AlternativeStatus(i)
	}
	return Choices{
		Question:     q.Text,
		Alternatives: q.Alternatives,
		Statuses:     statuses,
		Cursor:       cursor,
	}
}

// View renders the question and its alternatives.
func (c Choices) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Question))
	b.WriteString("\n\n")

	for i, alt := range c.Alternatives {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, quiz.AlternativeLetter(i), alt)

		status := quiz.StatusNeutral
		if i < len(c.Statuses) {
			status = c.Statuses[i]
		}
		switch status {
		case quiz.StatusSelected:
			line = theme.Selected.Render(line + "  ●")
		case quiz.StatusCorrect:
			line = theme.Correct.Render(line + "  ✓")
		case quiz.StatusIncorrect:
			line = theme.Incorrect.Render(line + "  ✗")
		case quiz.StatusDimmed:
			line = theme.Dimmed.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
