package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/courseclear/internal/config"
	"github.com/smileynet/courseclear/internal/loop"
	"github.com/smileynet/courseclear/internal/reveal"
	"github.com/smileynet/courseclear/internal/scene"
)

// FrameInterval is the delay between rendered frames while anything is
// animating.
const FrameInterval = 16 * time.Millisecond

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// Options configures the overlay model and displays.
type Options struct {
	Greeting       string
	Body           string
	BarCount       int // 0 derives the count from the terminal width
	Breakpoint     int
	CloseOnEscape  bool
	CloseOnOutside bool
	OpenOnStart    bool
	Timing         reveal.Timing
	Hold           time.Duration // plain mode only
	Theme          config.Theme
	Logger         *slog.Logger
}

// termHost derives the bar count from the current terminal width unless a
// fixed count is configured.
type termHost struct {
	greeting   string
	bars       int
	breakpoint int
	width      int
}

func (h *termHost) Greeting() string { return h.greeting }

func (h *termHost) BarCount() int {
	if h.bars > 0 {
		return h.bars
	}
	return reveal.DefaultBarCount(h.width, h.breakpoint)
}

// engine is the mutable reveal machinery shared by every copy of a Model.
type engine struct {
	loop   *loop.Loop
	scene  *scene.Scene
	rec    *reveal.Reconciler
	host   *termHost
	opened int
	closed int
}

func newEngine(opts Options) *engine {
	e := &engine{
		loop:  loop.New(),
		scene: scene.New(),
		host:  &termHost{greeting: opts.Greeting, bars: opts.BarCount, breakpoint: opts.Breakpoint},
	}
	log := opts.Logger
	e.scene.Mount()
	e.rec = reveal.New(e.scene, e.loop, e.host,
		reveal.WithTiming(opts.Timing),
		reveal.WithLogger(log),
		reveal.WithNotifier(reveal.NotifierFuncs{
			OnOpened: func() {
				e.opened++
				if log != nil {
					log.Info("overlay opened")
				}
			},
			OnClosed: func() {
				e.closed++
				if log != nil {
					log.Info("overlay closed")
				}
			},
		}),
	)
	return e
}

// Model is the Bubble Tea model for the course clear overlay.
type Model struct {
	engine    *engine
	keys      keyMap
	help      help.Model
	palette   palette
	opts      Options
	width     int
	height    int
	ticking   bool
	lastFrame time.Time
	quitting  bool
}

// frameMsg drives the reveal loop while anything is scheduled.
type frameMsg time.Time

// SetOpenMsg sets the overlay's open intent.
type SetOpenMsg struct {
	Open bool
}

// NewModel creates a Model with a mounted, closed overlay.
func NewModel(opts Options) Model {
	return Model{
		engine:  newEngine(opts),
		keys:    KeyMap(opts.CloseOnEscape),
		help:    help.New(),
		palette: newPalette(opts.Theme, lipgloss.HasDarkBackground()),
		opts:    opts,
	}
}

// Init opens the overlay when configured to.
func (m Model) Init() tea.Cmd {
	if !m.opts.OpenOnStart {
		return nil
	}
	return func() tea.Msg { return SetOpenMsg{Open: true} }
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.engine.host.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.engine.rec.Disconnect()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.engine.rec.Toggle()
			return m, m.startFrames()
		case key.Matches(msg, m.keys.Close):
			m.engine.rec.SetOpen(false)
			return m, m.startFrames()
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.outsideClickCloses(msg.Y) {
			m.engine.rec.SetOpen(false)
			return m, m.startFrames()
		}

	case SetOpenMsg:
		m.engine.rec.SetOpen(msg.Open)
		return m, m.startFrames()

	case frameMsg:
		now := time.Time(msg)
		elapsed := FrameInterval
		if !m.lastFrame.IsZero() {
			elapsed = max(now.Sub(m.lastFrame), 0)
		}
		m.lastFrame = now
		m.engine.loop.Tick(elapsed)
		if m.engine.loop.Pending() == 0 {
			m.ticking = false
			return m, nil
		}
		return m, nextFrame()
	}

	return m, nil
}

// outsideClickCloses reports whether a click on row y dismisses the overlay:
// the overlay is settled, outside clicks are enabled and y is off the band.
func (m Model) outsideClickCloses(y int) bool {
	if !m.opts.CloseOnOutside || m.engine.rec.Animating() || m.engine.rec.State() != reveal.Open {
		return false
	}
	top, bottom := band(m.canvasHeight())
	return y < top || y >= bottom
}

// startFrames begins the frame ticker if it is not already running.
func (m *Model) startFrames() tea.Cmd {
	if m.ticking || m.engine.loop.Pending() == 0 {
		return nil
	}
	m.ticking = true
	m.lastFrame = time.Time{}
	return nextFrame()
}

func nextFrame() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) canvasHeight() int {
	return max(m.height-helpBarHeight, 0)
}

// View renders the overlay above the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	h := m.canvasHeight()
	s := m.engine.scene
	var canvas string
	if s.Visible() {
		f := sample(s, m.width, h, m.opts.Body)
		canvas = render(f, m.palette.at(s.Opacity()))
	} else {
		canvas = lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center,
			hintStyle.Render("press space to reveal"))
	}

	status := statusStyle.Render(fmt.Sprintf("%s · %s", m.engine.rec.State(), m.engine.rec.Sequence().State()))
	footer := lipgloss.JoinHorizontal(lipgloss.Top, m.help.View(m.keys), "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, canvas, footer)
}

// State returns the overlay's visibility state.
func (m Model) State() reveal.VisibilityState {
	return m.engine.rec.State()
}

// Opened returns how many times the overlay finished opening.
func (m Model) Opened() int {
	return m.engine.opened
}

// Closed returns how many times the overlay finished closing.
func (m Model) Closed() int {
	return m.engine.closed
}
