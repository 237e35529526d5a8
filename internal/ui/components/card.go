package components

import (
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// ContentWidth returns the inner width of the content card for a pane of
// the given width.
func ContentWidth(paneWidth int) int {
	// border (2) + padding (4)
	w := paneWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
// The border takes the accent color when highlight is set.
func Card(content string, cw int, highlight bool) string {
	border := theme.Border
	if highlight {
		border = theme.Primary
	}
	return theme.Card.
		BorderForeground(border).
		Width(cw + 4).
		Render(content)
}

// Modal centers a bordered dialog over an area of width x height.
func Modal(title, body string, width, height int) string {
	content := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(title) +
		"\n\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Modal.Render(content))
}
