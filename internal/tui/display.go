package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/courseclear/internal/loop"
	"github.com/smileynet/courseclear/internal/reveal"
	"github.com/smileynet/courseclear/internal/scene"
)

// Display plays the overlay until it is closed or ctx is done.
type Display interface {
	Run(ctx context.Context) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force plain text even if TTY.
	Overlay    Options
}

// NewDisplay returns a TUI display when the writer is a TTY, or a plain text
// display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer, opts: opts.Overlay}
	}

	return &TUIDisplay{w: opts.Writer, opts: opts.Overlay}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay plays one reveal on wall-clock time and prints each phase and
// lifecycle change as a timestamped line. The overlay opens immediately,
// stays open for the hold duration once settled, then fades out.
type PlainDisplay struct {
	w    io.Writer
	opts Options
}

// Run returns nil once the overlay has closed, or the context error if ctx
// ends first.
func (d *PlainDisplay) Run(ctx context.Context) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	l := loop.New()
	s := scene.New()
	s.Mount()
	host := &termHost{greeting: d.opts.Greeting, bars: d.opts.BarCount, breakpoint: d.opts.Breakpoint}

	closed := false
	var r *reveal.Reconciler
	r = reveal.New(s, l, host,
		reveal.WithTiming(d.opts.Timing),
		reveal.WithLogger(d.opts.Logger),
		reveal.WithObserver(func(st reveal.SequenceState) {
			d.line("phase %s", st)
		}),
		reveal.WithNotifier(reveal.NotifierFuncs{
			OnOpened: func() {
				d.line("opened: %s", s.Greeting())
				if d.opts.Body != "" {
					d.line("        %s", d.opts.Body)
				}
				l.AfterFunc(d.opts.Hold, func() {
					d.line("closing")
					r.SetOpen(false)
				})
			},
			OnClosed: func() {
				d.line("closed")
				closed = true
				stop()
			},
		}),
	)

	d.line("opening with %d bars", host.BarCount())
	r.SetOpen(true)

	err := l.Run(runCtx, FrameInterval)
	r.Disconnect()
	if closed {
		return nil
	}
	return err
}

func (d *PlainDisplay) line(format string, args ...any) {
	ts := time.Now().Format("15:04:05")
	_, _ = fmt.Fprintf(d.w, "[%s] %s\n", ts, fmt.Sprintf(format, args...))
}

// TUIDisplay plays the overlay in a full-screen Bubble Tea program.
// Falls back to PlainDisplay if the TUI program fails to start.
type TUIDisplay struct {
	w    io.Writer
	opts Options
}

// Run starts the Bubble Tea program and blocks until the user quits.
// If the TUI fails to initialize, it falls back to plain text output.
func (d *TUIDisplay) Run(ctx context.Context) error {
	p := tea.NewProgram(NewModel(d.opts),
		tea.WithOutput(d.w),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		plain := &PlainDisplay{w: d.w, opts: d.opts}
		return plain.Run(ctx)
	}

	return nil
}
