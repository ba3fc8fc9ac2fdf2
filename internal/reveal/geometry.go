package reveal

// BarFudge is the extra width, in cells, each bar is drawn with so rounding
// never leaves a gap between neighbours.
const BarFudge = 1

// Geometry places one wave bar. Offset and Width are percentages of the
// surface width.
type Geometry struct {
	Index  int
	Count  int
	Offset float64
	Width  float64
}

// BarGeometry returns the placement of bar index out of count. Bars are laid
// edge to edge: width is 100/count and offset is index times width.
func BarGeometry(index, count int) Geometry {
	if count < 1 {
		count = 1
	}
	w := 100 / float64(count)
	return Geometry{Index: index, Count: count, Offset: float64(index) * w, Width: w}
}

// Cells maps the geometry onto a surface total cells wide. The span is
// widened by BarFudge and clipped to the surface.
func (g Geometry) Cells(total int) (start, width int) {
	if total <= 0 || g.Count < 1 {
		return 0, 0
	}
	start = g.Index * total / g.Count
	end := (g.Index+1)*total/g.Count + BarFudge
	if end > total {
		end = total
	}
	if start >= end {
		return start, 0
	}
	return start, end - start
}

// DefaultBarCount is the bar count policy when none is configured: surfaces
// wider than breakpoint get 22 bars, narrower ones 11.
func DefaultBarCount(width, breakpoint int) int {
	if width > breakpoint {
		return 22
	}
	return 11
}
