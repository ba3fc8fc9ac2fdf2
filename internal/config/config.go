// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/courseclear/internal/logging"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = ".courseclear.yaml"

// Config holds all courseclear configuration.
type Config struct {
	Reveal Reveal `yaml:"reveal"`
	Timing Timing `yaml:"timing"`
	Theme  Theme  `yaml:"theme"`
	Log    Log    `yaml:"log"`
}

// Reveal holds the overlay content and behaviour.
type Reveal struct {
	Greeting       string `yaml:"greeting"`
	Body           string `yaml:"body"`
	BarCount       int    `yaml:"bar_count"`  // 0 derives the count from the terminal width
	Breakpoint     int    `yaml:"breakpoint"` // columns above which the wide bar count applies
	CloseOnEscape  bool   `yaml:"close_on_escape"`
	CloseOnOutside bool   `yaml:"close_on_outside"`
}

// Timing holds animation durations.
type Timing struct {
	Curtain time.Duration `yaml:"curtain"`
	Stagger time.Duration `yaml:"stagger"`
	Bar     time.Duration `yaml:"bar"`
	Fade    time.Duration `yaml:"fade"`
	Hold    time.Duration `yaml:"hold"` // how long plain mode keeps a settled overlay open
}

// Theme holds hex colours.
type Theme struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Backdrop   string `yaml:"backdrop"`
}

// Log holds logging settings.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Reveal: Reveal{
			Greeting:       "Course Clear!",
			Body:           "Every lesson in this course is complete.",
			Breakpoint:     96,
			CloseOnEscape:  true,
			CloseOnOutside: true,
		},
		Timing: Timing{
			Curtain: 300 * time.Millisecond,
			Stagger: 30 * time.Millisecond,
			Bar:     time.Second,
			Fade:    200 * time.Millisecond,
			Hold:    2 * time.Second,
		},
		Theme: Theme{
			Background: "#f3d41a",
			Foreground: "#2c2b55",
			Backdrop:   "#1d1c3b",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// UserPath returns the user config file under the XDG config home.
func UserPath() string {
	return filepath.Join(xdg.ConfigHome, "courseclear", "config.yaml")
}

// Paths returns the config layers in increasing priority: the user file,
// the project file in dir, then explicit if set.
func Paths(dir, explicit string) []string {
	paths := []string{
		UserPath(),
		filepath.Join(dir, ProjectFile),
	}
	if explicit != "" {
		paths = append(paths, explicit)
	}
	return paths
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Reveal.BarCount < 0 {
		return fmt.Errorf("config: reveal.bar_count must be non-negative, got %d", c.Reveal.BarCount)
	}
	if c.Reveal.Breakpoint <= 0 {
		return fmt.Errorf("config: reveal.breakpoint must be positive, got %d", c.Reveal.Breakpoint)
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"curtain", c.Timing.Curtain},
		{"stagger", c.Timing.Stagger},
		{"bar", c.Timing.Bar},
		{"fade", c.Timing.Fade},
	} {
		if d.value <= 0 {
			return fmt.Errorf("config: timing.%s must be positive, got %v", d.name, d.value)
		}
	}
	if c.Timing.Hold < 0 {
		return fmt.Errorf("config: timing.hold must be non-negative, got %v", c.Timing.Hold)
	}
	for _, col := range []struct {
		name  string
		value string
	}{
		{"background", c.Theme.Background},
		{"foreground", c.Theme.Foreground},
		{"backdrop", c.Theme.Backdrop},
	} {
		if _, err := colorful.Hex(col.value); err != nil {
			return fmt.Errorf("config: theme.%s must be a #rrggbb colour, got %q", col.name, col.value)
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: COURSECLEAR_GREETING, COURSECLEAR_BARS, COURSECLEAR_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("COURSECLEAR_GREETING"); v != "" {
		c.Reveal.Greeting = v
	}
	if v := os.Getenv("COURSECLEAR_BARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid COURSECLEAR_BARS %q: %w", v, err)
		}
		c.Reveal.BarCount = n
	}
	if v := os.Getenv("COURSECLEAR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Reveal *rawReveal `yaml:"reveal"`
	Timing *rawTiming `yaml:"timing"`
	Theme  *rawTheme  `yaml:"theme"`
	Log    *rawLog    `yaml:"log"`
}

type rawReveal struct {
	Greeting       *string `yaml:"greeting"`
	Body           *string `yaml:"body"`
	BarCount       *int    `yaml:"bar_count"`
	Breakpoint     *int    `yaml:"breakpoint"`
	CloseOnEscape  *bool   `yaml:"close_on_escape"`
	CloseOnOutside *bool   `yaml:"close_on_outside"`
}

type rawTiming struct {
	Curtain *time.Duration `yaml:"curtain"`
	Stagger *time.Duration `yaml:"stagger"`
	Bar     *time.Duration `yaml:"bar"`
	Fade    *time.Duration `yaml:"fade"`
	Hold    *time.Duration `yaml:"hold"`
}

type rawTheme struct {
	Background *string `yaml:"background"`
	Foreground *string `yaml:"foreground"`
	Backdrop   *string `yaml:"backdrop"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if r := layer.Reveal; r != nil {
		set(&c.Reveal.Greeting, r.Greeting)
		set(&c.Reveal.Body, r.Body)
		set(&c.Reveal.BarCount, r.BarCount)
		set(&c.Reveal.Breakpoint, r.Breakpoint)
		set(&c.Reveal.CloseOnEscape, r.CloseOnEscape)
		set(&c.Reveal.CloseOnOutside, r.CloseOnOutside)
	}
	if t := layer.Timing; t != nil {
		set(&c.Timing.Curtain, t.Curtain)
		set(&c.Timing.Stagger, t.Stagger)
		set(&c.Timing.Bar, t.Bar)
		set(&c.Timing.Fade, t.Fade)
		set(&c.Timing.Hold, t.Hold)
	}
	if t := layer.Theme; t != nil {
		set(&c.Theme.Background, t.Background)
		set(&c.Theme.Foreground, t.Foreground)
		set(&c.Theme.Backdrop, t.Backdrop)
	}
	if l := layer.Log; l != nil {
		set(&c.Log.Level, l.Level)
		set(&c.Log.File, l.File)
	}
}
