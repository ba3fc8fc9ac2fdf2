// Package scene holds the overlay surface and the transient nodes animation
// phases mount into it. Renderers read it; only animation phases mutate it.
package scene

import (
	"github.com/smileynet/courseclear/internal/anim"
)

// Flag is a named state flag on the surface, consumed by renderers.
type Flag string

const (
	FlagCurtainsFinished Flag = "is-curtains-finished"
	FlagWaveFinished     Flag = "is-wave-finished"
)

// Kind identifies what a transient node draws.
type Kind int

const (
	KindCurtainTop Kind = iota
	KindCurtainBottom
	KindBar
)

func (k Kind) String() string {
	switch k {
	case KindCurtainTop:
		return "curtain-top"
	case KindCurtainBottom:
		return "curtain-bottom"
	case KindBar:
		return "bar"
	default:
		return "unknown"
	}
}

// Node is a transient scene element. Its vertical scale is either static or
// sampled from the animation attached to it.
type Node struct {
	Kind  Kind
	Index int
	// Offset and Width are percentages of the surface width.
	Offset float64
	Width  float64

	base     float64
	anim     *anim.Animation
	attached bool
}

// NewCurtain returns a full-width curtain at scale zero.
func NewCurtain(kind Kind) *Node {
	return &Node{Kind: kind, Width: 100}
}

// NewBar returns a full-height bar.
func NewBar(index int, offset, width float64) *Node {
	return &Node{Kind: KindBar, Index: index, Offset: offset, Width: width, base: 1}
}

// Scale returns the node's current vertical scale.
func (n *Node) Scale() float64 {
	if n.anim != nil {
		return n.anim.Value()
	}
	return n.base
}

// Animate drives the node's scale from a.
func (n *Node) Animate(a *anim.Animation) {
	n.anim = a
}

// Animation returns the animation attached to the node, if any.
func (n *Node) Animation() *anim.Animation {
	return n.anim
}

// Attached reports whether the node is currently in a scene.
func (n *Node) Attached() bool {
	return n.attached
}

// Scene is the overlay surface.
type Scene struct {
	mounted  bool
	visible  bool
	greeting string
	fade     *anim.Animation
	flags    map[Flag]bool
	nodes    []*Node
}

// New returns an unmounted, hidden scene.
func New() *Scene {
	return &Scene{flags: make(map[Flag]bool)}
}

// Mount makes the scene accept nodes.
func (s *Scene) Mount() {
	s.mounted = true
}

// Unmount detaches every node and hides the surface.
func (s *Scene) Unmount() {
	for _, n := range s.nodes {
		n.attached = false
	}
	s.nodes = nil
	s.mounted = false
	s.visible = false
	s.fade = nil
}

// Mounted reports whether the scene is mounted.
func (s *Scene) Mounted() bool {
	return s.mounted
}

// Append attaches n. It is a no-op when unmounted or when n is already attached.
func (s *Scene) Append(n *Node) {
	if !s.mounted || n == nil || n.attached {
		return
	}
	n.attached = true
	s.nodes = append(s.nodes, n)
}

// Remove detaches n if it is attached.
func (s *Scene) Remove(n *Node) {
	if n == nil || !n.attached {
		return
	}
	for i, m := range s.nodes {
		if m == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	n.attached = false
}

// SetFlag turns a state flag on or off.
func (s *Scene) SetFlag(f Flag, on bool) {
	if on {
		s.flags[f] = true
		return
	}
	delete(s.flags, f)
}

// Flag reports whether f is set.
func (s *Scene) Flag(f Flag) bool {
	return s.flags[f]
}

// Show makes the surface visible at full opacity with the given greeting.
func (s *Scene) Show(greeting string) {
	if !s.mounted {
		return
	}
	s.visible = true
	s.greeting = greeting
	s.fade = nil
}

// Hide makes the surface invisible.
func (s *Scene) Hide() {
	s.visible = false
	s.fade = nil
}

// Fade drives the surface opacity from a.
func (s *Scene) Fade(a *anim.Animation) {
	s.fade = a
}

// Visible reports whether the surface is shown.
func (s *Scene) Visible() bool {
	return s.visible
}

// Opacity returns the current surface opacity in [0, 1].
func (s *Scene) Opacity() float64 {
	if !s.visible {
		return 0
	}
	if s.fade != nil {
		return s.fade.Value()
	}
	return 1
}

// Greeting returns the text shown while the reveal plays.
func (s *Scene) Greeting() string {
	return s.greeting
}

// Nodes returns the attached nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Count returns how many attached nodes are of kind k.
func (s *Scene) Count(k Kind) int {
	c := 0
	for _, n := range s.nodes {
		if n.Kind == k {
			c++
		}
	}
	return c
}
