package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the overlay key bindings.
type keyMap struct {
	Toggle key.Binding
	Close  key.Binding
	Quit   key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Close, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Close},
		{k.Quit},
	}
}

// KeyMap returns the overlay key bindings. The close binding is disabled
// when escape should not dismiss the overlay.
func KeyMap(closeOnEscape bool) keyMap {
	k := keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "o"),
			key.WithHelp("space/o", "open/close"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	k.Close.SetEnabled(closeOnEscape)
	return k
}
