package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnap(t *testing.T) {
	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"rounds down", Pt(73, 124), Pt(50, 100)},
		{"rounds up", Pt(76, 126), Pt(100, 150)},
		{"half rounds up", Pt(75, 125), Pt(100, 150)},
		{"already on grid", Pt(100, 200), Pt(100, 200)},
		{"origin", Pt(0, 0), Pt(0, 0)},
		{"negative", Pt(-26, -24), Pt(-50, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snap(tt.in, 50)
			assert.True(t, got.Near(tt.want), "Snap(%v) = %v, want %v", tt.in, got, tt.want)
		})
	}
}

func TestSnapIdempotent(t *testing.T) {
	for _, p := range []Point{Pt(12.3, 99.9), Pt(-140, 260), Pt(1e4+1, 3)} {
		once := Snap(p, 50)
		assert.Equal(t, once, Snap(once, 50))
	}
}

func TestSnapZeroGrid(t *testing.T) {
	p := Pt(13, 17)
	assert.Equal(t, p, Snap(p, 0))
}

func TestSegmentClipsAtOutlines(t *testing.T) {
	a := Circle{C: Pt(0, 0), R: 30}
	b := Circle{C: Pt(200, 0), R: 30}

	from, to := Segment(a, b, 0)
	assert.InDelta(t, 30, from.X, 1e-9)
	assert.InDelta(t, 170, to.X, 1e-9)
	assert.InDelta(t, 0, from.Y, 1e-9)
}

func TestSegmentBendSeparatesDirections(t *testing.T) {
	a := Circle{C: Pt(0, 0), R: 30}
	b := Circle{C: Pt(200, 0), R: 30}

	f1, _ := Segment(a, b, 8)
	f2, _ := Segment(b, a, 8)
	// Opposite directions bend to opposite sides of the centre line.
	assert.True(t, f1.Y*f2.Y < 0 || math.Abs(f1.Y-f2.Y) > 1, "f1=%v f2=%v", f1, f2)
}

func TestTowardsInsideCircle(t *testing.T) {
	c := Circle{C: Pt(10, 10), R: 30}
	from, to := Towards(c, Pt(15, 12))
	assert.Equal(t, c.C, from)
	assert.Equal(t, Pt(15, 12), to)
}

func TestSelfLoopAnchoredOnOutline(t *testing.T) {
	c := Circle{C: Pt(100, 100), R: 30}
	for _, side := range []LoopSide{LoopTop, LoopRight, LoopBottom, LoopLeft} {
		pts := SelfLoop(c, side)
		if assert.Len(t, pts, 7) {
			apex := pts[3]
			assert.Greater(t, c.C.Dist(apex), c.R, "apex must lie outside the node for side %d", side)
		}
	}
}

func TestBounds(t *testing.T) {
	min, max := Bounds([]Point{Pt(3, -1), Pt(-2, 5), Pt(0, 0)})
	assert.Equal(t, Pt(-2, -1), min)
	assert.Equal(t, Pt(3, 5), max)
}
