package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/course"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/player"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	playerscreen "github.com/lumenlearn/lumen/internal/screens/player"
	"github.com/lumenlearn/lumen/internal/screens/welcome"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/layout"
)

// Options holds the dependencies for the TUI application.
type Options struct {
	Course       course.Course
	Journal      store.Journal
	Logger       *logger.Logger
	TickInterval time.Duration
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the welcome screen at the bottom
// of the stack.
func newAppModel(opts Options) AppModel {
	factory := func() screen.Screen {
		return playerscreen.New(opts.Course, opts.TickInterval,
			player.WithJournal(opts.Journal),
			player.WithLogger(opts.Logger),
		)
	}
	return AppModel{
		router: router.New(welcome.New(opts.Course, factory)),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the frame for the current window size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	completed, total := 0, -1
	if active != nil {
		title = active.Title()
		if pp, ok := active.(screen.ProgressProvider); ok {
			completed, total = pp.CourseProgress()
		}
	}

	header := layout.RenderHeader(title, completed, total, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kp.KeyHints(), footerHints...)
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and closes any open playback session
// when it exits.
func Run(opts Options) error {
	if opts.Journal == nil {
		opts.Journal = store.NopJournal{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	p := tea.NewProgram(newAppModel(opts))
	final, err := p.Run()
	if m, ok := final.(AppModel); ok {
		m.router.CloseAll()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
