// Package anim implements keyframe animations sampled against a loop.Scheduler.
package anim

import (
	"time"

	"github.com/fogleman/ease"

	"github.com/smileynet/courseclear/internal/loop"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Named easings matching the CSS timing keywords the overlay uses.
var (
	Linear  Easing = ease.Linear
	Ease    Easing = ease.InOutQuad
	EaseOut Easing = ease.OutQuad
)

// Keyframes are values evenly spaced over an animation's duration.
type Keyframes []float64

// WaveKeyframes is the vertical scale curve of a single wave bar.
var WaveKeyframes = Keyframes{1, 0.65, 0.37, 0.45, 0.53, 0.57, 0.54, 0.5, 0.47, 0.50}

// At samples the keyframes at progress p, interpolating linearly between
// neighbours. p is clamped to [0, 1].
func (k Keyframes) At(p float64) float64 {
	switch len(k) {
	case 0:
		return 0
	case 1:
		return k[0]
	}
	if p <= 0 {
		return k[0]
	}
	if p >= 1 {
		return k[len(k)-1]
	}
	pos := p * float64(len(k)-1)
	i := int(pos)
	frac := pos - float64(i)
	return k[i] + (k[i+1]-k[i])*frac
}

// Options configure a single animation.
type Options struct {
	Duration time.Duration
	Easing   Easing
}

// Animation plays keyframes once. Its finished signal fires when the duration
// elapses or Finish is called, whichever comes first. Cancel abandons it
// without firing.
type Animation struct {
	sched    loop.Scheduler
	frames   Keyframes
	opts     Options
	start    time.Duration
	timer    loop.Handle
	finished bool
	canceled bool
	onFinish []func()
}

// Play starts an animation on s at the current time.
func Play(s loop.Scheduler, frames Keyframes, opts Options) *Animation {
	if opts.Easing == nil {
		opts.Easing = Linear
	}
	a := &Animation{
		sched:  s,
		frames: frames,
		opts:   opts,
		start:  s.Now(),
	}
	a.timer = s.AfterFunc(opts.Duration, a.complete)
	return a
}

// Progress returns linear progress in [0, 1].
func (a *Animation) Progress() float64 {
	if a.finished {
		return 1
	}
	if a.opts.Duration <= 0 {
		return 0
	}
	p := float64(a.sched.Now()-a.start) / float64(a.opts.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Value returns the current eased keyframe value. A finished animation holds
// its last keyframe.
func (a *Animation) Value() float64 {
	if a.finished {
		return a.frames.At(1)
	}
	return a.frames.At(a.opts.Easing(a.Progress()))
}

// Finished reports whether the animation reached its end.
func (a *Animation) Finished() bool {
	return a.finished
}

// Running reports whether the animation is neither finished nor canceled.
func (a *Animation) Running() bool {
	return !a.finished && !a.canceled
}

// OnFinish registers fn to run when the animation finishes. If it already
// has, fn runs immediately. Callbacks of a canceled animation never run.
func (a *Animation) OnFinish(fn func()) {
	if a.canceled {
		return
	}
	if a.finished {
		fn()
		return
	}
	a.onFinish = append(a.onFinish, fn)
}

// Finish jumps to the end state and fires the finished signal.
func (a *Animation) Finish() {
	if !a.Running() {
		return
	}
	a.timer.Stop()
	a.complete()
}

// Cancel stops the animation where it is without firing the finished signal.
func (a *Animation) Cancel() {
	if !a.Running() {
		return
	}
	a.canceled = true
	a.timer.Stop()
	a.onFinish = nil
}

func (a *Animation) complete() {
	if !a.Running() {
		return
	}
	a.finished = true
	callbacks := a.onFinish
	a.onFinish = nil
	for _, fn := range callbacks {
		fn()
	}
}
