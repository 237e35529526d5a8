package player

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/course"
	eng "github.com/lumenlearn/lumen/internal/player"
	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/layout"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

var typeIcons = map[course.ContentType]string{
	course.TypeVideo:    "▶",
	course.TypeAudio:    "♪",
	course.TypeImage:    "▣",
	course.TypeDocument: "▤",
	course.TypeWeb:      "◎",
	course.TypeScorm:    "◈",
	course.TypeQuiz:     "?",
}

func (s *PlayerScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.Modal("Something went wrong", s.errMsg+"\n\nPress any key to go back.", width, height)
	}
	if s.showingQuit {
		return components.Modal("Leave this course?",
			"Your progress in this session will not be kept.\n\nY to leave, N to keep going.", width, height)
	}
	if s.blockedID != "" {
		return components.Modal("Content locked", s.blockedMessage(), width, height)
	}

	sideWidth, mainWidth := layout.Panes(width)
	return layout.JoinPanes(s.renderSidebar(sideWidth, height), s.renderMain(mainWidth, height))
}

func (s *PlayerScreen) blockedMessage() string {
	title := s.blockedID
	items := s.engine.Items()
	if i := course.IndexOf(items, s.blockedID); i >= 0 {
		title = items[i].Title
		if i > 0 {
			return fmt.Sprintf("%q opens once you complete %q.\n\nPress any key.", title, items[i-1].Title)
		}
	}
	return fmt.Sprintf("%q is not available yet.\n\nPress any key.", title)
}

func (s *PlayerScreen) renderSidebar(width, height int) string {
	inner := width - 4
	sum := s.engine.Summary()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Course outline"))
	b.WriteString("\n")
	b.WriteString(components.CourseMeter(sum.CompletedItems, sum.TotalItems, inner))
	b.WriteString("\n\n")
	b.WriteString(s.outline.View(inner))

	border := theme.Border
	if s.focus == focusOutline {
		border = theme.Primary
	}
	return theme.Sidebar.
		BorderForeground(border).
		Width(width).
		Height(max(height-2, 1)).
		Render(b.String())
}

func (s *PlayerScreen) renderMain(width, height int) string {
	item, ok := s.engine.Active()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("This course has no content yet."))
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(s.renderLockLine(cw))
	b.WriteString("\n\n")

	var body strings.Builder
	icon := typeIcons[item.Type]
	body.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s  %s", icon, item.Title)))
	if t, ok := course.TopicOf(s.engine.Course(), item.ID); ok {
		body.WriteString("\n")
		body.WriteString(theme.Dimmed.Render(t.Title + " · " + string(item.Type)))
	}
	if item.Description != "" {
		body.WriteString("\n\n")
		body.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(item.Description))
	}
	if item.Source != "" {
		body.WriteString("\n\n")
		body.WriteString(theme.Hint.Render("Source: " + item.Source))
	}
	if q := s.engine.Quiz(); q != nil {
		body.WriteString("\n\n")
		body.WriteString(s.renderQuiz(q, cw))
	}
	b.WriteString(components.Card(body.String(), cw, s.focus == focusContent))
	b.WriteString("\n\n")

	b.WriteString(s.renderNav())
	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.status))
	}

	return lipgloss.NewStyle().Width(width).MaxHeight(height).Render(b.String())
}

func (s *PlayerScreen) renderLockLine(width int) string {
	lock := s.engine.LockState()

	var label string
	color := theme.Success
	switch lock.Kind {
	case eng.TimedLock:
		label = fmt.Sprintf("Unlocks in %ds", lock.Remaining)
		color = theme.Accent
	case eng.QuizLock:
		label = "Finish the quiz to continue"
		color = theme.Accent
	default:
		label = "Completed"
	}
	return components.LockGauge(s.engine.LockProgress(), label, lock.Kind != eng.Unlocked, color, width)
}

func (s *PlayerScreen) renderQuiz(q *quiz.Session, width int) string {
	var b strings.Builder
	spec := q.Spec()

	switch q.Phase() {
	case quiz.PhaseIntro:
		name := spec.Name
		if name == "" {
			name = "Quiz"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(name))
		b.WriteString("\n")
		b.WriteString(theme.Dimmed.Render(fmt.Sprintf("%d questions · %s", q.Total(), spec.QuizType)))
		b.WriteString("\n\n")
		b.WriteString(components.NewButton("Start quiz", "Enter", false).View())

	case quiz.PhasePlaying:
		b.WriteString(components.LabeledMeter(q.PositionLabel(), q.Progress(), width))
		b.WriteString("\n\n")
		cur, _ := q.CurrentQuestion()
		if cur.IsMultipleChoice() {
			b.WriteString(lipgloss.NewStyle().Width(width).Render(components.ChoicesFromSession(q, s.cursor).View()))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(cur.Text))
			b.WriteString("\n\n")
			b.WriteString(s.input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if q.Reviewing() {
			b.WriteString(components.NewButton("Next question", "Enter", false).View())
		} else {
			b.WriteString(components.NewButton("Confirm", "Enter", !q.CanConfirm()).View())
		}

	case quiz.PhaseFinished:
		b.WriteString(renderResult(q.Result()))
		b.WriteString("\n\n")
		b.WriteString(components.NewButton("Retake", "R", false).View())
	}
	return b.String()
}

func renderResult(r *quiz.Result) string {
	if r == nil {
		return ""
	}
	title := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	if !r.Scored {
		return title.Render("Thanks for your answers!") + "\n" +
			theme.Dimmed.Render(fmt.Sprintf("%d responses recorded", r.Total))
	}
	return title.Render(fmt.Sprintf("Score: %d%%", r.ScorePercent)) + "\n" +
		theme.Dimmed.Render(fmt.Sprintf("%d of %d correct", r.CorrectCount, r.Total))
}

func (s *PlayerScreen) renderNav() string {
	items := s.engine.Items()
	idx := s.engine.ActiveIndex()

	prev := components.NewButton("Prev", "P", idx <= 0)
	nextDisabled := idx < 0 || idx >= len(items)-1 || !s.engine.IsAccessible(items[idx+1].ID)
	next := components.NewButton("Next", "N", nextDisabled)
	return prev.View() + "  " + next.View()
}
