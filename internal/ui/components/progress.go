package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/ui/theme"
)

var (
	ringGlyphs  = []string{"○", "◔", "◑", "◕", "●"}
	eighthCells = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}
)

// Ring renders a one-cell progress ring for a 0..1 value.
func Ring(p float64) string {
	i := int(clamp01(p) * float64(len(ringGlyphs)-1))
	return ringGlyphs[i]
}

// meterCells splits a width-cell meter into full cells, an optional partial
// cell and empty cells. Partial cells resolve to eighths and never round up
// to a full meter.
func meterCells(p float64, width int) (full int, partial string, empty int) {
	if width <= 0 {
		return 0, "", 0
	}
	eighths := int(clamp01(p) * float64(width*8))
	full = eighths / 8
	if full < width {
		partial = eighthCells[eighths%8]
	}
	empty = width - full
	if partial != "" {
		empty--
	}
	return full, partial, empty
}

// Meter renders a one-line bar of width cells for a 0..1 value.
func Meter(p float64, width int, fill color.Color) string {
	full, partial, empty := meterCells(p, width)
	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", full)+partial) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", empty))
}

// LabeledMeter renders label, two spaces and a meter filling the rest of
// width. The meter keeps at least four cells.
func LabeledMeter(label string, p float64, width int) string {
	out := ""
	if label != "" {
		out = lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}
	return out + Meter(p, max(width-lipgloss.Width(out), 4), theme.Secondary)
}

// CourseMeter renders course completion as "done/total" ahead of a meter.
func CourseMeter(completed, total, width int) string {
	p := 0.0
	if total > 0 {
		p = float64(completed) / float64(total)
	}
	return LabeledMeter(fmt.Sprintf("%d/%d", completed, total), p, width)
}

// LockGauge renders the lock ring and its label in accent. While locked a
// meter of the lock progress fills the remaining width.
func LockGauge(p float64, label string, locked bool, accent color.Color, width int) string {
	head := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(Ring(p) + "  " + label)
	if !locked {
		return head
	}
	rest := width - lipgloss.Width(head) - 2
	if rest < 4 {
		return head
	}
	return head + "  " + Meter(p, rest, accent)
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
