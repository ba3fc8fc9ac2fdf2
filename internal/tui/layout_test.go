package tui

import (
	"strings"
	"testing"

	"github.com/smileynet/courseclear/internal/anim"
	"github.com/smileynet/courseclear/internal/loop"
	"github.com/smileynet/courseclear/internal/reveal"
	"github.com/smileynet/courseclear/internal/scene"
)

func shownScene(greeting string) *scene.Scene {
	s := scene.New()
	s.Mount()
	s.Show(greeting)
	return s
}

// hold pins n at a fixed scale.
func hold(l *loop.Loop, n *scene.Node, scale float64) {
	n.Animate(anim.Play(l, anim.Keyframes{scale}, anim.Options{Duration: 1}))
}

func countCells(f *frame, c cell) int {
	total := 0
	for _, row := range f.cells {
		for _, got := range row {
			if got == c {
				total++
			}
		}
	}
	return total
}

func TestSample_HiddenSceneIsEmpty(t *testing.T) {
	s := scene.New()
	s.Mount()
	f := sample(s, 40, 10, "body")
	if got := countCells(f, cellEmpty); got != 400 {
		t.Errorf("empty cells = %d, want 400", got)
	}
}

func TestSample_CurtainsGrowFromEdges(t *testing.T) {
	l := loop.New()
	s := shownScene("Hi")
	top, bottom := scene.NewCurtain(scene.KindCurtainTop), scene.NewCurtain(scene.KindCurtainBottom)
	s.Append(top)
	s.Append(bottom)

	if got := countCells(sample(s, 10, 20, ""), cellFill); got != 0 {
		t.Fatalf("collapsed curtains filled %d cells", got)
	}

	hold(l, top, 0.5)
	hold(l, bottom, 0.5)
	f := sample(s, 10, 20, "")
	for y := range 20 {
		want := cellEmpty
		if y < 5 || y >= 15 {
			want = cellFill
		}
		if f.cells[y][0] != want {
			t.Errorf("row %d = %v, want %v", y, f.cells[y][0], want)
		}
	}
}

func TestSample_FullBarsCoverScreen(t *testing.T) {
	l := loop.New()
	s := shownScene("Hi")
	const count = 7
	for i := range count {
		g := reveal.BarGeometry(i, count)
		n := scene.NewBar(i, g.Offset, g.Width)
		s.Append(n)
		hold(l, n, 1)
	}

	f := sample(s, 80, 24, "")
	if got := countCells(f, cellFill); got != 80*24 {
		t.Errorf("filled cells = %d, want %d", got, 80*24)
	}
}

func TestSample_HalfBarIsCentred(t *testing.T) {
	l := loop.New()
	s := shownScene("Hi")
	n := scene.NewBar(0, 0, 100)
	s.Append(n)
	hold(l, n, 0.5)

	f := sample(s, 4, 20, "")
	for y := range 20 {
		want := cellEmpty
		if y >= 5 && y < 15 {
			want = cellFill
		}
		if f.cells[y][2] != want {
			t.Errorf("row %d = %v, want %v", y, f.cells[y][2], want)
		}
	}
}

func TestSample_SettledShowsBandAndText(t *testing.T) {
	s := shownScene("Course Clear!")
	s.SetFlag(scene.FlagCurtainsFinished, true)
	s.SetFlag(scene.FlagWaveFinished, true)

	f := sample(s, 40, 20, "All done")
	top, bottom := band(20)
	for y := range 20 {
		want := cellBackdrop
		if y >= top && y < bottom {
			want = cellFill
		}
		if f.cells[y][0] != want {
			t.Errorf("row %d = %v, want %v", y, f.cells[y][0], want)
		}
	}

	var lines []string
	for _, row := range f.text {
		lines = append(lines, strings.TrimSpace(strings.ReplaceAll(string(row), "\x00", " ")))
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Course Clear!") || !strings.Contains(joined, "All done") {
		t.Errorf("text rows = %q, want greeting and body", joined)
	}
}

func TestSample_GreetingWaitsForCurtains(t *testing.T) {
	s := shownScene("Hidden")
	f := sample(s, 40, 20, "")
	for _, row := range f.text {
		for _, r := range row {
			if r != 0 {
				t.Fatal("greeting drawn before the curtains finished")
			}
		}
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		h          int
		top, botom int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{20, 5, 15},
		{23, 6, 17},
	}
	for _, tt := range tests {
		top, bottom := band(tt.h)
		if top != tt.top || bottom != tt.botom {
			t.Errorf("band(%d) = %d, %d; want %d, %d", tt.h, top, bottom, tt.top, tt.botom)
		}
	}
}

func TestRender_KeepsRowsAndText(t *testing.T) {
	s := shownScene("Bravo")
	s.SetFlag(scene.FlagCurtainsFinished, true)
	s.SetFlag(scene.FlagWaveFinished, true)

	out := render(sample(s, 30, 9, ""), newPalette(themeForTest(), true).at(1))
	if got := strings.Count(out, "\n"); got != 8 {
		t.Errorf("rendered %d line breaks, want 8", got)
	}
	if !strings.Contains(out, "Bravo") {
		t.Errorf("render output missing greeting:\n%s", out)
	}
}
