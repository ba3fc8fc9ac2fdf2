package reveal

import "log/slog"

// SequenceState is where the reveal sequence currently is.
type SequenceState int

const (
	Idle SequenceState = iota
	Curtains
	Wave
	Settled
)

func (s SequenceState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Curtains:
		return "curtains"
	case Wave:
		return "wave"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Sequence chains the curtain phase into the wave phase. It owns the single
// active-phase slot: only Sequence assigns it, and at most one phase is ever
// running.
type Sequence struct {
	curtains Phase
	wave     Phase
	observer func(SequenceState)
	log      *slog.Logger

	state  SequenceState
	active *Task[struct{}]
	run    *Task[struct{}]
}

// NewSequence returns an idle sequence over the two phases.
func NewSequence(curtains, wave Phase, observer func(SequenceState), log *slog.Logger) *Sequence {
	return &Sequence{curtains: curtains, wave: wave, observer: observer, log: log}
}

// State returns the current sequence state.
func (s *Sequence) State() SequenceState {
	return s.state
}

// Active reports whether a phase is currently running.
func (s *Sequence) Active() bool {
	return s.active != nil
}

// RunAll cancels whatever phase is active and starts the sequence from the
// curtains. The returned task resolves when the wave completes. Canceling it
// cancels the sequence only while this run is still the current one.
func (s *Sequence) RunAll() *Task[struct{}] {
	s.CancelActive()

	var run *Task[struct{}]
	run, done := NewTask[struct{}](func() {
		if s.run == run {
			s.CancelActive()
		}
	})
	s.run = run

	curtains := s.start(Curtains, s.curtains)
	if curtains.Canceled() {
		s.CancelActive()
		return run
	}
	curtains.Then(func(struct{}) {
		wave := s.start(Wave, s.wave)
		if wave.Canceled() {
			s.CancelActive()
			return
		}
		wave.Then(func(struct{}) {
			s.active = nil
			s.run = nil
			s.setState(Settled)
			done(struct{}{})
		})
	})
	return run
}

func (s *Sequence) start(state SequenceState, p Phase) *Task[struct{}] {
	s.setState(state)
	s.log.Debug("phase started", "phase", p.Name())
	s.active = p.Start()
	return s.active
}

// CancelActive cancels the running phase, if any, abandons the pending run
// and returns to Idle.
func (s *Sequence) CancelActive() {
	active, run := s.active, s.run
	s.active, s.run = nil, nil
	if active != nil {
		s.log.Debug("phase canceled", "state", s.state)
		active.Cancel()
	}
	if run != nil {
		run.Cancel()
	}
	s.setState(Idle)
}

func (s *Sequence) setState(state SequenceState) {
	if s.state == state {
		return
	}
	s.state = state
	if s.observer != nil {
		s.observer(state)
	}
}
