package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/smileynet/courseclear/internal/config"
)

var (
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
)

// palette holds the overlay colours. Opacity is rendered by blending each
// colour toward the terminal canvas.
type palette struct {
	fill     colorful.Color
	ink      colorful.Color
	backdrop colorful.Color
	canvas   colorful.Color
}

func newPalette(t config.Theme, dark bool) palette {
	def := config.DefaultConfig().Theme
	canvas := colorful.Color{R: 1, G: 1, B: 1}
	if dark {
		canvas = colorful.Color{}
	}
	return palette{
		fill:     parseHex(t.Background, def.Background),
		ink:      parseHex(t.Foreground, def.Foreground),
		backdrop: parseHex(t.Backdrop, def.Backdrop),
		canvas:   canvas,
	}
}

func parseHex(s, fallback string) colorful.Color {
	if c, err := colorful.Hex(s); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

// cellStyles are the lipgloss styles for one rendered frame.
type cellStyles struct {
	fill        lipgloss.Style
	backdrop    lipgloss.Style
	inkFill     lipgloss.Style
	inkBackdrop lipgloss.Style
	inkBare     lipgloss.Style
}

// at returns the styles for the given opacity in [0, 1].
func (p palette) at(opacity float64) cellStyles {
	blend := func(c colorful.Color) lipgloss.Color {
		return lipgloss.Color(p.canvas.BlendRgb(c, opacity).Clamped().Hex())
	}
	fill, ink, backdrop := blend(p.fill), blend(p.ink), blend(p.backdrop)
	return cellStyles{
		fill:        lipgloss.NewStyle().Background(fill),
		backdrop:    lipgloss.NewStyle().Background(backdrop),
		inkFill:     lipgloss.NewStyle().Background(fill).Foreground(ink).Bold(true),
		inkBackdrop: lipgloss.NewStyle().Background(backdrop).Foreground(fill).Bold(true),
		inkBare:     lipgloss.NewStyle().Foreground(fill).Bold(true),
	}
}

// render turns a sampled frame into terminal output, one styled run per
// stretch of identical cells.
func render(f *frame, st cellStyles) string {
	var b strings.Builder
	for y := 0; y < f.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row, text := f.cells[y], f.text[y]
		for x := 0; x < f.w; {
			start := x
			inked := text[x] != 0
			for x < f.w && row[x] == row[start] && (text[x] != 0) == inked {
				x++
			}
			run := make([]rune, x-start)
			for i := range run {
				if r := text[start+i]; r != 0 {
					run[i] = r
				} else {
					run[i] = ' '
				}
			}
			b.WriteString(styleFor(row[start], inked, st).Render(string(run)))
		}
	}
	return b.String()
}

func styleFor(c cell, inked bool, st cellStyles) lipgloss.Style {
	switch {
	case inked && c == cellFill:
		return st.inkFill
	case inked && c == cellBackdrop:
		return st.inkBackdrop
	case inked:
		return st.inkBare
	case c == cellFill:
		return st.fill
	case c == cellBackdrop:
		return st.backdrop
	default:
		return lipgloss.NewStyle()
	}
}
