package reveal

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/smileynet/courseclear/internal/loop"
	"github.com/smileynet/courseclear/internal/scene"
)

const frame = 16 * time.Millisecond

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// runFor ticks l one frame at a time for at least d.
func runFor(l *loop.Loop, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		l.Tick(frame)
	}
}

func mountedScene() *scene.Scene {
	s := scene.New()
	s.Mount()
	return s
}

func TestCurtainPhase_WaitsTwoFramesBeforeTransition(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	p := NewCurtainPhase(s, l, 300*time.Millisecond, discard)

	task := p.Start()

	if got := s.Count(scene.KindCurtainTop) + s.Count(scene.KindCurtainBottom); got != 2 {
		t.Fatalf("curtains = %d, want 2", got)
	}
	nodes := s.Nodes()
	l.Tick(frame)
	for _, n := range nodes {
		if n.Animation() != nil {
			t.Fatalf("%s transition started after one frame", n.Kind)
		}
	}
	l.Tick(frame)
	for _, n := range nodes {
		if n.Animation() == nil || !n.Animation().Running() {
			t.Fatalf("%s transition not running after two frames", n.Kind)
		}
	}
	if !task.Pending() {
		t.Fatal("task settled before the transition ran")
	}
}

func TestCurtainPhase_ResolvesOnBottomTransitionEnd(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	p := NewCurtainPhase(s, l, 300*time.Millisecond, discard)

	task := p.Start()
	l.Tick(frame)
	l.Tick(frame) // transition starts at 32ms, ends at 332ms

	l.Advance(299 * time.Millisecond)
	if !task.Pending() {
		t.Fatal("resolved before the transition ended")
	}
	l.Advance(time.Millisecond)

	if !task.Resolved() {
		t.Fatal("task not resolved after the transition ended")
	}
	if got := len(s.Nodes()); got != 0 {
		t.Errorf("nodes after success = %d, want 0", got)
	}
	if !s.Flag(scene.FlagCurtainsFinished) {
		t.Error("curtains-finished flag not set")
	}
	if got := l.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}

func TestCurtainPhase_CancelBeforeFrame(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	p := NewCurtainPhase(s, l, 300*time.Millisecond, discard)

	task := p.Start()
	nodes := s.Nodes()
	l.Tick(frame)
	task.Cancel()

	if got := l.Pending(); got != 0 {
		t.Errorf("Pending() after cancel = %d, want 0", got)
	}
	if got := len(s.Nodes()); got != 0 {
		t.Errorf("nodes after cancel = %d, want 0", got)
	}

	runFor(l, time.Second)
	for _, n := range nodes {
		if n.Animation() != nil {
			t.Errorf("%s was touched after removal", n.Kind)
		}
	}
	if s.Flag(scene.FlagCurtainsFinished) {
		t.Error("curtains-finished set after cancel")
	}
}

func TestCurtainPhase_CancelMidTransition(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	p := NewCurtainPhase(s, l, 300*time.Millisecond, discard)

	task := p.Start()
	runFor(l, 100*time.Millisecond)
	task.Cancel()
	task.Cancel()

	if got := l.Pending(); got != 0 {
		t.Errorf("Pending() after cancel = %d, want 0", got)
	}
	if got := len(s.Nodes()); got != 0 {
		t.Errorf("nodes after cancel = %d, want 0", got)
	}
	runFor(l, time.Second)
	if task.Resolved() || s.Flag(scene.FlagCurtainsFinished) {
		t.Error("canceled curtain phase completed")
	}
}

func TestCurtainPhase_UnmountedIsNoop(t *testing.T) {
	l := loop.New()
	s := scene.New()
	task := NewCurtainPhase(s, l, 300*time.Millisecond, discard).Start()

	if !task.Canceled() {
		t.Error("task on unmounted container should be abandoned")
	}
	if got := l.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}

func newWave(s *scene.Scene, l *loop.Loop, bars int) *WavePhase {
	return NewWavePhase(s, l, func() int { return bars }, 30*time.Millisecond, time.Second, discard)
}

func TestWavePhase_CreatesAllBarsUpFront(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	newWave(s, l, 4).Start()

	nodes := s.Nodes()
	if len(nodes) != 4 {
		t.Fatalf("bars = %d, want 4", len(nodes))
	}
	for i, n := range nodes {
		g := BarGeometry(i, 4)
		if n.Kind != scene.KindBar || n.Index != i || n.Offset != g.Offset || n.Width != g.Width {
			t.Errorf("bar %d = %+v, want index %d geometry %+v", i, n, i, g)
		}
		if n.Animation() != nil {
			t.Errorf("bar %d animating before the first tick", i)
		}
	}
}

func TestWavePhase_StaggersInIndexOrder(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	newWave(s, l, 5).Start()
	nodes := s.Nodes()

	for step := 1; step <= 5; step++ {
		l.Advance(30 * time.Millisecond)
		for i, n := range nodes {
			started := n.Animation() != nil
			if want := i < step; started != want {
				t.Fatalf("after %d ticks bar %d started = %v, want %v", step, i, started, want)
			}
		}
	}
}

func TestWavePhase_CompletesOnLastBarFinish(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	task := newWave(s, l, 3).Start()

	// Bars start at 30, 60 and 90ms; the last one ends at 1090ms.
	l.Advance(1089 * time.Millisecond)
	if !task.Pending() {
		t.Fatal("resolved before the last bar finished")
	}
	if s.Flag(scene.FlagWaveFinished) {
		t.Fatal("wave-finished set early")
	}
	l.Advance(time.Millisecond)

	if !task.Resolved() {
		t.Fatal("task not resolved")
	}
	if got := len(s.Nodes()); got != 0 {
		t.Errorf("bars after success = %d, want 0", got)
	}
	if !s.Flag(scene.FlagWaveFinished) {
		t.Error("wave-finished flag not set")
	}
	if got := l.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}

func TestWavePhase_CancelMidSequence(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	task := newWave(s, l, 10).Start()
	nodes := s.Nodes()

	l.Advance(95 * time.Millisecond) // three bars started
	task.Cancel()

	if got := len(s.Nodes()); got != 0 {
		t.Errorf("bars after cancel = %d, want 0", got)
	}
	if got := l.Pending(); got != 0 {
		t.Errorf("Pending() after cancel = %d, want 0", got)
	}
	for i, n := range nodes[:3] {
		a := n.Animation()
		if a == nil || !a.Finished() {
			t.Errorf("bar %d animation not forced to its end", i)
			continue
		}
		if got := n.Scale(); got != 0.5 {
			t.Errorf("bar %d scale = %v, want end state 0.5", i, got)
		}
	}
	for i, n := range nodes[3:] {
		if n.Animation() != nil {
			t.Errorf("bar %d started after cancel", i+3)
		}
	}
	if s.Flag(scene.FlagWaveFinished) {
		t.Error("wave-finished set on cancel")
	}
	if task.Resolved() {
		t.Error("canceled task resolved")
	}
}

func TestWavePhase_CancelAfterLastStart(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	task := newWave(s, l, 2).Start()

	l.Advance(500 * time.Millisecond)
	task.Cancel()

	if task.Resolved() {
		t.Error("forcing the last bar to finish resolved a canceled task")
	}
	if s.Flag(scene.FlagWaveFinished) {
		t.Error("wave-finished set on cancel")
	}
	if got := l.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}

func TestWavePhase_ReadsCountOnEachStart(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	count := 2
	p := NewWavePhase(s, l, func() int { return count }, 30*time.Millisecond, time.Second, discard)

	first := p.Start()
	if got := s.Count(scene.KindBar); got != 2 {
		t.Fatalf("bars = %d, want 2", got)
	}
	first.Cancel()

	count = 6
	p.Start()
	if got := s.Count(scene.KindBar); got != 6 {
		t.Errorf("bars = %d, want 6", got)
	}
}

func TestWavePhase_NonPositiveCountUsesOneBar(t *testing.T) {
	l := loop.New()
	s := mountedScene()
	newWave(s, l, 0).Start()
	if got := s.Count(scene.KindBar); got != 1 {
		t.Errorf("bars = %d, want 1", got)
	}
}
