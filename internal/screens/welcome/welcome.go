package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/course"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/ui/layout"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

const lampArt = `    .-""-.
   /      \
  |  .--.  |
   \ \__/ /
    '.__.'
     |==|
     |==|
     '--'`

// glow frames cycle around the lamp
var glowFrames = []string{"✦", "✧"}

type tickMsg time.Time

// WelcomeScreen introduces the course and starts a playback session on
// key press. It stays at the bottom of the stack so leaving the player
// comes back here.
type WelcomeScreen struct {
	course        course.Course
	playerFactory func() screen.Screen
	elapsed       time.Duration
	tickCount     int
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen for c. playerFactory is called once per
// playback session started from here.
func New(c course.Course, playerFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		course:        c,
		playerFactory: playerFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "any key", Description: "Start"},
		{Key: "Q", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "esc":
			return w, tea.Quit
		}
		// A key press during the animation skips it.
		if w.elapsed < totalDur {
			w.elapsed = totalDur
		}
		return w, w.startPlayback()
	}

	return w, nil
}

func (w *WelcomeScreen) startPlayback() tea.Cmd {
	p := w.playerFactory()
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: p}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Accent).Render(lampArt)

	// Phase 2+: glow around the lamp
	if w.elapsed >= phase1End {
		glow := glowFrames[w.tickCount%len(glowFrames)]
		g1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(glow)
		g2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(glow)

		lines := strings.Split(rendered, "\n")
		if len(lines) > 2 {
			lines[2] = g1 + "  " + lines[2] + "  " + g2
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	// Phase 3+: banner, course card and hint
	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(w.course.Name))
		if w.course.Description != "" {
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Width(min(width-8, 60)).
				Align(lipgloss.Center).
				Render(w.course.Description))
		}
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Render(w.courseFacts()))

		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to start"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (w *WelcomeScreen) courseFacts() string {
	items := course.Flatten(w.course)
	quizzes := 0
	for _, it := range items {
		if it.IsQuiz() {
			quizzes++
		}
	}
	facts := fmt.Sprintf("%d topics · %d items · %d quizzes", len(w.course.Topics), len(items), quizzes)

	locking := w.course.ContentLocking
	if locking.Enabled {
		facts += "\nContent unlocks in order"
		if locking.MinimumTime > 0 {
			facts += fmt.Sprintf(", at least %ds per item", locking.MinimumTime)
		}
	}
	return facts
}
