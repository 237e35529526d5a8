package components

import (
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// Button is a styled action label. A disabled button renders dimmed.
type Button struct {
	Label    string
	Key      string
	Disabled bool
}

// NewButton creates a new button bound to key.
func NewButton(label, key string, disabled bool) Button {
	return Button{
		Label:    label,
		Key:      key,
		Disabled: disabled,
	}
}

// View renders the button.
func (b Button) View() string {
	label := "▸ " + b.Label
	if b.Key != "" {
		label += " (" + b.Key + ")"
	}
	if b.Disabled {
		return theme.ButtonInactive.Render(label)
	}
	return theme.ButtonActive.Render(label)
}
