// Package loop provides the single-threaded cooperative scheduler the reveal
// engine runs on. Callbacks never run concurrently: they run on whichever
// goroutine calls Tick, Advance, Frame or Run.
package loop

import (
	"container/heap"
	"context"
	"time"
)

// Handle identifies a scheduled callback.
type Handle interface {
	// Stop prevents the callback from running again. It reports whether the
	// callback was still pending.
	Stop() bool
}

// Scheduler is the set of suspension points available to animation code.
type Scheduler interface {
	// Now returns the time elapsed since the scheduler started.
	Now() time.Duration
	// AfterFunc runs fn once, d after now.
	AfterFunc(d time.Duration, fn func()) Handle
	// Every runs fn every period, starting one period from now.
	Every(period time.Duration, fn func()) Handle
	// RequestFrame runs fn at the next frame boundary.
	RequestFrame(fn func()) Handle
}

// Loop is a Scheduler driven by explicit time advancement.
type Loop struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
	frames []*entry
}

var _ Scheduler = (*Loop)(nil)

// New returns a Loop at time zero with nothing scheduled.
func New() *Loop {
	return &Loop{}
}

type entry struct {
	loop   *Loop
	fn     func()
	due    time.Duration
	period time.Duration
	seq    uint64
	index  int
	frame  bool
	done   bool
}

// Stop implements Handle.
func (e *entry) Stop() bool {
	if e.done {
		return false
	}
	e.done = true
	l := e.loop
	if e.frame {
		for i, f := range l.frames {
			if f == e {
				l.frames = append(l.frames[:i], l.frames[i+1:]...)
				break
			}
		}
		return true
	}
	if e.index >= 0 {
		heap.Remove(&l.timers, e.index)
	}
	return true
}

// Now implements Scheduler.
func (l *Loop) Now() time.Duration {
	return l.now
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	return l.push(&entry{loop: l, fn: fn, due: l.now + d})
}

// Every implements Scheduler. A non-positive period panics.
func (l *Loop) Every(period time.Duration, fn func()) Handle {
	if period <= 0 {
		panic("loop: non-positive period")
	}
	return l.push(&entry{loop: l, fn: fn, due: l.now + period, period: period})
}

// RequestFrame implements Scheduler. Callbacks requested while a frame is
// being flushed run at the following frame.
func (l *Loop) RequestFrame(fn func()) Handle {
	e := &entry{loop: l, fn: fn, frame: true, index: -1}
	l.frames = append(l.frames, e)
	return e
}

func (l *Loop) push(e *entry) *entry {
	l.seq++
	e.seq = l.seq
	heap.Push(&l.timers, e)
	return e
}

// Advance moves time forward by d, running every timer that falls due in
// order of due time. Each callback observes Now() equal to its due time.
func (l *Loop) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := l.now + d
	for len(l.timers) > 0 && l.timers[0].due <= target {
		e := heap.Pop(&l.timers).(*entry)
		l.now = e.due
		if e.period > 0 {
			e.due += e.period
			l.push(e)
		} else {
			e.done = true
		}
		e.fn()
	}
	l.now = target
}

// Frame runs the frame callbacks that were requested before the call.
func (l *Loop) Frame() {
	batch := l.frames
	l.frames = nil
	for _, e := range batch {
		if e.done {
			continue
		}
		e.done = true
		e.fn()
	}
}

// Tick advances time by d and then flushes one frame.
func (l *Loop) Tick(d time.Duration) {
	l.Advance(d)
	l.Frame()
}

// Pending returns the number of timers and frame callbacks still scheduled.
func (l *Loop) Pending() int {
	return len(l.timers) + len(l.frames)
}

// Run drives the loop from wall-clock time, ticking once per interval until
// ctx is done.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Tick(now.Sub(last))
			last = now
		}
	}
}

// timerHeap orders entries by due time, then by scheduling order.
type timerHeap []*entry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
