package reveal

import (
	"io"
	"log/slog"
	"time"
)

// Timing holds the durations of the reveal sequence.
type Timing struct {
	Curtain time.Duration // curtain transition
	Stagger time.Duration // delay between consecutive bar starts
	Bar     time.Duration // one bar's wave animation
	Fade    time.Duration // settled close fade-out
}

// DefaultTiming returns the standard reveal timing.
func DefaultTiming() Timing {
	return Timing{
		Curtain: 300 * time.Millisecond,
		Stagger: 30 * time.Millisecond,
		Bar:     time.Second,
		Fade:    200 * time.Millisecond,
	}
}

// withDefaults fills zero durations from DefaultTiming.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.Curtain <= 0 {
		t.Curtain = d.Curtain
	}
	if t.Stagger <= 0 {
		t.Stagger = d.Stagger
	}
	if t.Bar <= 0 {
		t.Bar = d.Bar
	}
	if t.Fade <= 0 {
		t.Fade = d.Fade
	}
	return t
}

type options struct {
	timing   Timing
	notifier Notifier
	observer func(SequenceState)
	logger   *slog.Logger
}

// Option configures a Reconciler.
type Option func(*options)

// WithTiming overrides the reveal durations. Zero fields keep their defaults.
func WithTiming(t Timing) Option {
	return func(o *options) {
		o.timing = t.withDefaults()
	}
}

// WithNotifier registers the receiver of Opened and Closed notifications.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n == nil {
			return
		}
		o.notifier = n
	}
}

// WithObserver registers a callback for every sequence state change.
func WithObserver(fn func(SequenceState)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			return
		}
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		timing:   DefaultTiming(),
		notifier: NotifierFuncs{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
