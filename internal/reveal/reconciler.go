package reveal

import (
	"log/slog"

	"github.com/smileynet/courseclear/internal/anim"
	"github.com/smileynet/courseclear/internal/loop"
	"github.com/smileynet/courseclear/internal/scene"
)

// VisibilityState is the overlay's open/close state.
type VisibilityState int

const (
	Closed VisibilityState = iota
	Opening
	Open
	ClosingInstant
	ClosingFade
)

func (v VisibilityState) String() string {
	switch v {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case ClosingInstant:
		return "closing-instant"
	case ClosingFade:
		return "closing-fade"
	default:
		return "unknown"
	}
}

// Reconciler maps open/close intent onto the reveal sequence. Opening runs
// the sequence; closing mid-sequence aborts it instantly; closing once
// settled plays a short fade-out.
type Reconciler struct {
	surface  Surface
	sched    loop.Scheduler
	host     Host
	seq      *Sequence
	notifier Notifier
	fadeFor  anim.Options
	log      *slog.Logger

	intent bool
	state  VisibilityState
	fade   *anim.Animation
}

// New wires the curtain and wave phases, the sequence and the reconciler
// over one surface and scheduler.
func New(surface Surface, sched loop.Scheduler, host Host, opts ...Option) *Reconciler {
	o := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&o)
	}

	curtains := NewCurtainPhase(surface, sched, o.timing.Curtain, o.logger)
	wave := NewWavePhase(surface, sched, func() int { return barCountOf(host) }, o.timing.Stagger, o.timing.Bar, o.logger)

	return &Reconciler{
		surface:  surface,
		sched:    sched,
		host:     host,
		seq:      NewSequence(curtains, wave, o.observer, o.logger),
		notifier: o.notifier,
		fadeFor:  anim.Options{Duration: o.timing.Fade, Easing: anim.Linear},
		log:      o.logger,
	}
}

// State returns the current visibility state.
func (r *Reconciler) State() VisibilityState {
	return r.state
}

// Sequence returns the underlying sequence controller.
func (r *Reconciler) Sequence() *Sequence {
	return r.seq
}

// Open reports the current open intent.
func (r *Reconciler) Open() bool {
	return r.intent
}

// Animating reports whether a reveal phase is running.
func (r *Reconciler) Animating() bool {
	return r.seq.Active()
}

// SetOpen records the open intent and reconciles the surface with it. While
// the surface is unmounted the intent is only recorded.
func (r *Reconciler) SetOpen(open bool) {
	r.intent = open
	if !r.surface.Mounted() {
		return
	}
	if open {
		r.open()
		return
	}
	r.close()
}

// Toggle flips the open intent.
func (r *Reconciler) Toggle() {
	r.SetOpen(!r.intent)
}

// Connect reconciles after the surface has been mounted.
func (r *Reconciler) Connect() {
	if r.intent && r.surface.Mounted() {
		r.open()
	}
}

// Disconnect stops everything in flight before the surface is unmounted. No
// notification is sent.
func (r *Reconciler) Disconnect() {
	r.seq.CancelActive()
	r.stopFade()
	r.setState(Closed)
}

func (r *Reconciler) open() {
	r.stopFade()
	r.seq.CancelActive()
	r.setState(Opening)

	r.surface.Show(greetingOf(r.host))
	r.seq.RunAll().Then(func(struct{}) {
		r.setState(Open)
		r.notifier.Opened()
	})
}

func (r *Reconciler) close() {
	switch {
	case r.seq.Active():
		r.setState(ClosingInstant)
		r.seq.CancelActive()
		r.hide()
	case r.state == Open:
		r.setState(ClosingFade)
		// Dropping this flag first lets the backdrop transition out alongside the fade.
		r.surface.SetFlag(scene.FlagCurtainsFinished, false)
		fade := anim.Play(r.sched, anim.Keyframes{1, 0}, r.fadeFor)
		r.fade = fade
		r.surface.Fade(fade)
		fade.OnFinish(func() {
			r.fade = nil
			r.hide()
		})
	}
}

func (r *Reconciler) hide() {
	r.surface.Hide()
	r.surface.SetFlag(scene.FlagCurtainsFinished, false)
	r.surface.SetFlag(scene.FlagWaveFinished, false)
	r.setState(Closed)
	r.notifier.Closed()
}

func (r *Reconciler) stopFade() {
	if r.fade == nil {
		return
	}
	r.fade.Cancel()
	r.fade = nil
}

func (r *Reconciler) setState(v VisibilityState) {
	if r.state == v {
		return
	}
	r.log.Debug("visibility", "from", r.state, "to", v)
	r.state = v
}
