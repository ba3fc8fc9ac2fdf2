package reveal

import (
	"log/slog"
	"time"

	"github.com/smileynet/courseclear/internal/anim"
	"github.com/smileynet/courseclear/internal/loop"
	"github.com/smileynet/courseclear/internal/scene"
)

// WavePhase sweeps a row of bars across the surface, left to right.
type WavePhase struct {
	container Container
	sched     loop.Scheduler
	count     func() int
	stagger   time.Duration
	duration  time.Duration
	log       *slog.Logger
}

// NewWavePhase returns a wave phase. count is read each time the phase
// starts.
func NewWavePhase(c Container, s loop.Scheduler, count func() int, stagger, duration time.Duration, log *slog.Logger) *WavePhase {
	return &WavePhase{
		container: c,
		sched:     s,
		count:     count,
		stagger:   stagger,
		duration:  duration,
		log:       log,
	}
}

// Name implements Phase.
func (p *WavePhase) Name() string { return "wave" }

// Start creates every bar up front, then starts one bar's animation per
// stagger tick. The task resolves when the last bar's own animation finishes.
func (p *WavePhase) Start() *Task[struct{}] {
	if !p.container.Mounted() {
		return abandoned[struct{}]()
	}
	p.container.SetFlag(scene.FlagWaveFinished, false)

	n := p.count()
	if n < 1 {
		n = 1
	}
	bars := make([]*scene.Node, n)
	for i := range bars {
		g := BarGeometry(i, n)
		bars[i] = scene.NewBar(i, g.Offset, g.Width)
		p.container.Append(bars[i])
	}

	var (
		ticker loop.Handle
		anims  []*anim.Animation
	)
	cleanup := OnceWith(func(success bool) {
		ticker.Stop()
		for _, a := range anims {
			a.Finish()
		}
		for _, bar := range bars {
			p.container.Remove(bar)
		}
		if success {
			p.container.SetFlag(scene.FlagWaveFinished, true)
		}
	})

	task, resolve := NewTask[struct{}](func() { cleanup(false) })

	next := 0
	ticker = p.sched.Every(p.stagger, func() {
		if next >= len(bars) {
			ticker.Stop()
			return
		}
		bar := bars[next]
		next++

		a := anim.Play(p.sched, anim.WaveKeyframes, anim.Options{Duration: p.duration, Easing: anim.EaseOut})
		bar.Animate(a)
		anims = append(anims, a)

		if next < len(bars) {
			return
		}
		ticker.Stop()
		// Completion follows the last-started bar, not the slowest one.
		a.OnFinish(func() {
			if !task.Pending() {
				return
			}
			cleanup(true)
			p.log.Debug("wave finished", "bars", n)
			resolve(struct{}{})
		})
	})

	return task
}
