package reveal

import (
	"strings"

	"github.com/smileynet/courseclear/internal/anim"
	"github.com/smileynet/courseclear/internal/scene"
)

// DefaultGreeting is shown when the host supplies a blank greeting.
const DefaultGreeting = "Course Clear!"

// Container is the mount point phases render transient nodes into.
type Container interface {
	Mounted() bool
	Append(n *scene.Node)
	Remove(n *scene.Node)
	SetFlag(f scene.Flag, on bool)
}

// Surface is the overlay the reconciler shows and hides.
type Surface interface {
	Container
	Show(greeting string)
	Hide()
	Fade(a *anim.Animation)
}

// Host supplies the configuration read at the start of every reveal. Hosts
// differ only in where these values come from.
type Host interface {
	Greeting() string
	BarCount() int
}

// Notifier receives the overlay's public lifecycle notifications.
type Notifier interface {
	Opened()
	Closed()
}

// StaticHost is a Host with fixed values.
type StaticHost struct {
	Text string
	Bars int
}

// Greeting implements Host.
func (h StaticHost) Greeting() string { return h.Text }

// BarCount implements Host.
func (h StaticHost) BarCount() int { return h.Bars }

// NotifierFuncs adapts functions into a Notifier. Nil fields are skipped.
type NotifierFuncs struct {
	OnOpened func()
	OnClosed func()
}

// Opened implements Notifier.
func (n NotifierFuncs) Opened() {
	if n.OnOpened != nil {
		n.OnOpened()
	}
}

// Closed implements Notifier.
func (n NotifierFuncs) Closed() {
	if n.OnClosed != nil {
		n.OnClosed()
	}
}

func greetingOf(h Host) string {
	if g := strings.TrimSpace(h.Greeting()); g != "" {
		return g
	}
	return DefaultGreeting
}

func barCountOf(h Host) int {
	if n := h.BarCount(); n > 0 {
		return n
	}
	return 1
}
