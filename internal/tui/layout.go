package tui

import (
	"math"

	"github.com/smileynet/courseclear/internal/reveal"
	"github.com/smileynet/courseclear/internal/scene"
)

// cell is what occupies one terminal cell of the overlay.
type cell uint8

const (
	cellEmpty cell = iota
	cellBackdrop
	cellFill
)

// frame is a sampled overlay: a cell grid plus the text drawn over it.
type frame struct {
	w, h  int
	cells [][]cell
	text  [][]rune // nil rune means no text in that cell
}

func newFrame(w, h int) *frame {
	f := &frame{w: w, h: h, cells: make([][]cell, h), text: make([][]rune, h)}
	for y := range f.cells {
		f.cells[y] = make([]cell, w)
		f.text[y] = make([]rune, w)
	}
	return f
}

func (f *frame) fillRows(top, bottom int, c cell) {
	for y := max(top, 0); y < min(bottom, f.h); y++ {
		for x := range f.cells[y] {
			f.cells[y][x] = c
		}
	}
}

func (f *frame) fillRect(x0, y0, w, h int, c cell) {
	for y := max(y0, 0); y < min(y0+h, f.h); y++ {
		for x := max(x0, 0); x < min(x0+w, f.w); x++ {
			f.cells[y][x] = c
		}
	}
}

// centerText writes s centred on row y, clipped to the frame width.
func (f *frame) centerText(y int, s string) {
	if y < 0 || y >= f.h || s == "" {
		return
	}
	runes := []rune(s)
	if len(runes) > f.w {
		runes = runes[:f.w]
	}
	start := (f.w - len(runes)) / 2
	copy(f.text[y][start:], runes)
}

// band returns the rows of the content band: the middle half of the screen.
func band(h int) (top, bottom int) {
	if h <= 0 {
		return 0, 0
	}
	height := max(h/2, 1)
	top = (h - height) / 2
	return top, top + height
}

// sample renders s onto a w×h frame. Curtains grow from the top and bottom
// edges, bars scale vertically around the middle row, and the content band
// appears once the wave has finished.
func sample(s *scene.Scene, w, h int, body string) *frame {
	f := newFrame(w, h)
	if !s.Visible() || w <= 0 || h <= 0 {
		return f
	}

	if s.Flag(scene.FlagCurtainsFinished) {
		f.fillRows(0, h, cellBackdrop)
	}

	bars := s.Count(scene.KindBar)
	half := float64(h) / 2
	for _, n := range s.Nodes() {
		switch n.Kind {
		case scene.KindCurtainTop:
			f.fillRows(0, scaled(n.Scale(), half), cellFill)
		case scene.KindCurtainBottom:
			f.fillRows(h-scaled(n.Scale(), half), h, cellFill)
		case scene.KindBar:
			x, width := reveal.BarGeometry(n.Index, bars).Cells(w)
			height := scaled(n.Scale(), float64(h))
			f.fillRect(x, (h-height)/2, width, height, cellFill)
		}
	}

	top, bottom := band(h)
	if s.Flag(scene.FlagWaveFinished) {
		f.fillRows(top, bottom, cellFill)
	}
	if s.Flag(scene.FlagCurtainsFinished) {
		greetingRow := max(top+(bottom-top)/2-1, top)
		f.centerText(greetingRow, s.Greeting())
		if s.Flag(scene.FlagWaveFinished) {
			bodyRow := greetingRow + 2
			if bodyRow >= bottom {
				bodyRow = greetingRow + 1
			}
			if bodyRow < bottom {
				f.centerText(bodyRow, body)
			}
		}
	}
	return f
}

func scaled(scale, extent float64) int {
	return int(math.Round(math.Max(scale, 0) * extent))
}
