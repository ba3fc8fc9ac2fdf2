package reveal

import (
	"log/slog"
	"time"

	"github.com/smileynet/courseclear/internal/anim"
	"github.com/smileynet/courseclear/internal/loop"
	"github.com/smileynet/courseclear/internal/scene"
)

// Phase is one ordered stage of the reveal sequence.
type Phase interface {
	Name() string
	Start() *Task[struct{}]
}

// CurtainPhase closes a top and a bottom curtain over the surface.
type CurtainPhase struct {
	container Container
	sched     loop.Scheduler
	duration  time.Duration
	log       *slog.Logger
}

// NewCurtainPhase returns a curtain phase whose transition lasts duration.
func NewCurtainPhase(c Container, s loop.Scheduler, duration time.Duration, log *slog.Logger) *CurtainPhase {
	return &CurtainPhase{container: c, sched: s, duration: duration, log: log}
}

// Name implements Phase.
func (p *CurtainPhase) Name() string { return "curtains" }

// Start inserts both curtains and starts their transition two frames later,
// once the initial state has been drawn. The task resolves when the bottom
// curtain's transition ends.
func (p *CurtainPhase) Start() *Task[struct{}] {
	if !p.container.Mounted() {
		return abandoned[struct{}]()
	}
	p.container.SetFlag(scene.FlagWaveFinished, false)
	p.container.SetFlag(scene.FlagCurtainsFinished, false)

	top := scene.NewCurtain(scene.KindCurtainTop)
	bottom := scene.NewCurtain(scene.KindCurtainBottom)
	p.container.Append(top)
	p.container.Append(bottom)

	var (
		frame      loop.Handle
		transition []*anim.Animation
	)
	cleanup := Once(func() {
		frame.Stop()
		for _, a := range transition {
			a.Cancel()
		}
		p.container.Remove(top)
		p.container.Remove(bottom)
	})

	task, resolve := NewTask[struct{}](cleanup)

	frame = p.sched.RequestFrame(func() {
		frame = p.sched.RequestFrame(func() {
			opts := anim.Options{Duration: p.duration, Easing: anim.Ease}
			for _, n := range []*scene.Node{top, bottom} {
				a := anim.Play(p.sched, anim.Keyframes{0, 1}, opts)
				n.Animate(a)
				transition = append(transition, a)
			}
			// Both curtains share a duration; the bottom one alone signals the end.
			bottom.Animation().OnFinish(func() {
				cleanup()
				p.container.SetFlag(scene.FlagCurtainsFinished, true)
				p.log.Debug("curtains finished")
				resolve(struct{}{})
			})
		})
	})

	return task
}
