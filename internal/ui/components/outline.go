package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// ItemState is how an outline entry is marked.
type ItemState int

const (
	ItemOpen ItemState = iota
	ItemCompleted
	ItemLocked
)

// OutlineRow is one line of the course outline. Rows without an ID are
// topic headings and cannot be selected.
type OutlineRow struct {
	ID     string
	Label  string
	State  ItemState
	Active bool
}

// Heading reports whether the row is a topic heading.
func (r OutlineRow) Heading() bool {
	return r.ID == ""
}

// Outline is a vertical course outline with a cursor over its items.
type Outline struct {
	Rows     []OutlineRow
	Selected int
	OnSelect func(id string) tea.Cmd
}

// NewOutline creates an outline with the cursor on the first item.
func NewOutline(rows []OutlineRow, onSelect func(id string) tea.Cmd) Outline {
	o := Outline{Rows: rows, Selected: -1, OnSelect: onSelect}
	for i, r := range rows {
		if !r.Heading() {
			o.Selected = i
			break
		}
	}
	return o
}

// SetRows replaces the rows and keeps the cursor on the same item when it
// still exists.
func (o *Outline) SetRows(rows []OutlineRow) {
	id := o.SelectedID()
	o.Rows = rows
	o.Selected = -1
	for i, r := range rows {
		if r.Heading() {
			continue
		}
		if o.Selected < 0 || r.ID == id {
			o.Selected = i
		}
		if r.ID == id {
			break
		}
	}
}

// SelectedID returns the item under the cursor, or "".
func (o Outline) SelectedID() string {
	if o.Selected < 0 || o.Selected >= len(o.Rows) {
		return ""
	}
	return o.Rows[o.Selected].ID
}

// Focus moves the cursor to id.
func (o *Outline) Focus(id string) {
	for i, r := range o.Rows {
		if r.ID == id && !r.Heading() {
			o.Selected = i
			return
		}
	}
}

// Update handles keyboard navigation.
func (o Outline) Update(msg tea.Msg) (Outline, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := o.Selected - 1; i >= 0; i-- {
			if !o.Rows[i].Heading() {
				o.Selected = i
				break
			}
		}
	case "down", "j":
		for i := o.Selected + 1; i < len(o.Rows); i++ {
			if !o.Rows[i].Heading() {
				o.Selected = i
				break
			}
		}
	case "enter":
		if id := o.SelectedID(); id != "" && o.OnSelect != nil {
			return o, o.OnSelect(id)
		}
	}

	return o, nil
}

// View renders the outline, truncating labels to width.
func (o Outline) View(width int) string {
	var b strings.Builder
	for i, r := range o.Rows {
		if r.Heading() {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).
				Render(truncate(r.Label, width)))
			b.WriteString("\n")
			continue
		}

		marker := "○"
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch r.State {
		case ItemCompleted:
			marker = "✓"
			style = style.Foreground(theme.Success)
		case ItemLocked:
			marker = "⊘"
			style = theme.LockedItem
		}
		if r.Active {
			style = style.Bold(true)
		}

		cursor := "  "
		if i == o.Selected {
			cursor = "▸ "
		}
		line := cursor + marker + " " + truncate(r.Label, width-4)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
