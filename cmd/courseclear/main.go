package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/courseclear"
	"github.com/smileynet/courseclear/internal/config"
	"github.com/smileynet/courseclear/internal/logging"
	"github.com/smileynet/courseclear/internal/reveal"
	"github.com/smileynet/courseclear/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errInterrupted marks a reveal stopped by a signal before it closed.
var errInterrupted = errors.New("interrupted")

// CLI is the top-level command structure for courseclear.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Play    PlayCmd          `cmd:"" help:"Play the course clear reveal."`
	Init    InitCmd          `cmd:"" help:"Write the example config file."`
}

// PlayCmd plays the reveal in the terminal.
type PlayCmd struct {
	Greeting *string        `help:"Greeting shown once the curtains close."`
	Bars     *int           `help:"Number of wave bars (0 derives it from the terminal width)."`
	Hold     *time.Duration `help:"How long plain output keeps the settled overlay open."`
	NoTUI    bool           `help:"Force plain text output even if stdout is a TTY." default:"false"`
	Config   string         `help:"Extra config file applied after the user and project files." type:"path"`
}

// loadConfig loads layered config from user, project and explicit paths with
// env overrides.
func loadConfig(explicit string) (*config.Config, error) {
	cfg, err := config.LoadLayered(config.Paths(".", explicit)...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes the play command.
func (p *PlayCmd) Run() error {
	cfg, err := loadConfig(p.Config)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	// Apply CLI flag overrides.
	p.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	plain := p.NoTUI || !isatty.IsTerminal(os.Stdout.Fd())
	logger, closeLog, err := newLogger(cfg.Log, plain, os.Stderr)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	display := tui.NewDisplay(tui.DisplayOptions{
		Writer:     os.Stdout,
		ForcePlain: p.NoTUI,
		Overlay:    overlayOptions(cfg, logger),
	})
	return p.run(ctx, display)
}

// run plays the display and maps cancellation to errInterrupted, enabling
// testable wiring.
func (p *PlayCmd) run(ctx context.Context, display tui.Display) error {
	err := display.Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("play: %w", errInterrupted)
	default:
		return fmt.Errorf("play: %w", err)
	}
}

// apply copies the flags that were set onto cfg.
func (p *PlayCmd) apply(cfg *config.Config) {
	if p.Greeting != nil {
		cfg.Reveal.Greeting = *p.Greeting
	}
	if p.Bars != nil {
		cfg.Reveal.BarCount = *p.Bars
	}
	if p.Hold != nil {
		cfg.Timing.Hold = *p.Hold
	}
}

// overlayOptions converts the validated config into display options.
func overlayOptions(cfg *config.Config, logger *slog.Logger) tui.Options {
	return tui.Options{
		Greeting:       cfg.Reveal.Greeting,
		Body:           cfg.Reveal.Body,
		BarCount:       cfg.Reveal.BarCount,
		Breakpoint:     cfg.Reveal.Breakpoint,
		CloseOnEscape:  cfg.Reveal.CloseOnEscape,
		CloseOnOutside: cfg.Reveal.CloseOnOutside,
		OpenOnStart:    true,
		Timing: reveal.Timing{
			Curtain: cfg.Timing.Curtain,
			Stagger: cfg.Timing.Stagger,
			Bar:     cfg.Timing.Bar,
			Fade:    cfg.Timing.Fade,
		},
		Hold:   cfg.Timing.Hold,
		Theme:  cfg.Theme,
		Logger: logger,
	}
}

// newLogger picks the log destination: the configured file, stderr for
// plain output, or nowhere while the full-screen UI owns the terminal.
func newLogger(c config.Log, plain bool, stderr io.Writer) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case c.File != "":
		f, err := logging.OpenFile(c.File)
		if err != nil {
			return nil, nil, err
		}
		return logging.New(f, level), func() { _ = f.Close() }, nil
	case plain:
		return logging.New(stderr, level), func() {}, nil
	default:
		return logging.Discard(), func() {}, nil
	}
}

// InitCmd writes the example config.
type InitCmd struct {
	Path  string `arg:"" optional:"" help:"Destination file (default: the user config file)." type:"path"`
	Force bool   `help:"Overwrite an existing file." default:"false"`
}

// Run executes the init command. A config.example.yaml under
// $XDG_DATA_HOME/courseclear/templates replaces the embedded one.
func (c *InitCmd) Run() error {
	local := filepath.Join(xdg.DataHome, "courseclear", "templates")
	return c.run(os.Stdout, courseclear.OverlayFS(local, courseclear.Templates))
}

func (c *InitCmd) run(w io.Writer, templates fs.FS) error {
	path := c.Path
	if path == "" {
		path = config.UserPath()
	}
	if err := courseclear.WriteExampleConfig(templates, path, c.Force); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	_, _ = fmt.Fprintf(w, "wrote %s\n", path)
	return nil
}

const (
	exitSuccess     = 0
	exitInterrupted = 1
	exitSetup       = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, errInterrupted) {
		return exitInterrupted
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("Plays the course clear reveal in the terminal."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
