package summary

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/progress"
	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/ui/layout"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// QuizLine is the latest result of one quiz item.
type QuizLine struct {
	Title  string
	Result quiz.Result
}

// Data is what the summary screen shows.
type Data struct {
	CourseName string
	Progress   progress.Summary
	Quizzes    []QuizLine
	Elapsed    time.Duration
}

// SummaryScreen displays the course summary once every item is completed.
type SummaryScreen struct {
	data Data
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.ProgressProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(data Data) *SummaryScreen {
	return &SummaryScreen{data: data}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Course Summary"
}

func (s *SummaryScreen) CourseProgress() (int, int) {
	return s.data.Progress.CompletedItems, s.data.Progress.TotalItems
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to course"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	d := s.data
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Course complete!"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), d.CourseName))
	b.WriteString("\n\n")

	mins := int(d.Elapsed.Minutes())
	secs := int(d.Elapsed.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Time in course: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Items: %d/%d        Completion: %.0f%%",
			d.Progress.CompletedItems, d.Progress.TotalItems, d.Progress.CompletionPct)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Topics"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")
	for _, tp := range d.Progress.Topics {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		mark := "○"
		if tp.IsCompleted() {
			style = style.Foreground(theme.Success)
			mark = "✓"
		}
		b.WriteString(center(style, fmt.Sprintf("%s %s    %d/%d", mark, tp.Title, tp.CompletedItems, tp.TotalItems)))
		b.WriteString("\n")
	}

	if len(d.Quizzes) > 0 {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Quizzes"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, q := range d.Quizzes {
			b.WriteString(center(lipgloss.NewStyle().Foreground(scoreColor(q.Result)), quizLine(q)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func quizLine(q QuizLine) string {
	r := q.Result
	if !r.Scored {
		return fmt.Sprintf("%s    %d responses", q.Title, r.Total)
	}
	return fmt.Sprintf("%s    %d/%d correct    %d%%", q.Title, r.CorrectCount, r.Total, r.ScorePercent)
}

func scoreColor(r quiz.Result) color.Color {
	switch {
	case !r.Scored:
		return theme.Text
	case r.ScorePercent >= 70:
		return theme.Success
	case r.ScorePercent >= 40:
		return theme.Accent
	default:
		return theme.Error
	}
}
