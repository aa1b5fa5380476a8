// Package geom provides the diagram-space geometry used by the editor:
// points, node circles, grid snapping and edge routing.
package geom

import "math"

// Epsilon is the tolerance below which two coordinates are considered equal.
const Epsilon = 1e-5

// Point represents a 2D coordinate in diagram space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{p.X + d.X, p.Y + d.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

// Len returns the Euclidean length of p taken as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 {
	return p.Sub(q).Len()
}

// Near reports whether p and q differ by no more than Epsilon on either axis.
func (p Point) Near(q Point) bool {
	return math.Abs(p.X-q.X) <= Epsilon && math.Abs(p.Y-q.Y) <= Epsilon
}

// Snap quantizes p to the nearest grid intersection. Halves round up,
// so with a 50 unit grid 75 snaps to 100 and 74.9 to 50.
func Snap(p Point, grid float64) Point {
	if grid <= 0 {
		return p
	}
	return Point{snapAxis(p.X, grid), snapAxis(p.Y, grid)}
}

func snapAxis(v, grid float64) float64 {
	return math.Floor(v/grid+0.5) * grid
}

// Circle is the outline of a node.
type Circle struct {
	C Point
	R float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point) bool {
	return c.C.Dist(p) <= c.R
}

// Boundary returns the point where the ray from the centre toward p leaves
// the circle. When p coincides with the centre the rightmost point is used.
func (c Circle) Boundary(p Point) Point {
	d := p.Sub(c.C)
	l := d.Len()
	if l < Epsilon {
		return Point{c.C.X + c.R, c.C.Y}
	}
	return c.C.Add(d.Scale(c.R / l))
}

// Segment computes a straight edge between two circles, clipped at both
// outlines. A non-zero bend shifts the segment sideways (perpendicular to
// the centre line) so that the two directions of a bidirectional pair do
// not overlap.
func Segment(from, to Circle, bend float64) (Point, Point) {
	d := to.C.Sub(from.C)
	l := d.Len()
	if l < Epsilon {
		return from.C, to.C
	}
	perp := Point{-d.Y / l, d.X / l}.Scale(bend)
	a := from.Boundary(to.C.Add(perp))
	b := to.Boundary(from.C.Add(perp))
	return a, b
}

// Towards returns the point where an edge from c heading for p leaves c.
// Used for edges with a free (unattached) end.
func Towards(c Circle, p Point) (Point, Point) {
	if c.Contains(p) {
		return c.C, p
	}
	return c.Boundary(p), p
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// LoopSide indicates which side of a node a self-loop extends to.
type LoopSide int

const (
	LoopTop LoopSide = iota // Default: loop above the node
	LoopRight
	LoopBottom
	LoopLeft
)

// SelfLoop computes the 7 control points for a self-loop on c, forming two
// cubic Bézier segments: P0..P3 (tail to apex) and P3..P6 (apex to head).
func SelfLoop(c Circle, side LoopSide) []Point {
	cx, cy, r := c.C.X, c.C.Y, c.R
	offset := r * 0.9
	port := r * 0.45
	spread := r * 0.5

	switch side {
	case LoopRight:
		dx := r + offset
		return []Point{
			{cx + r, cy - port},
			{cx + r + dx*0.4, cy - port - spread},
			{cx + dx, cy - spread},
			{cx + dx, cy},
			{cx + dx, cy + spread},
			{cx + r + dx*0.4, cy + port + spread},
			{cx + r, cy + port},
		}
	case LoopLeft:
		dx := r + offset
		return []Point{
			{cx - r, cy - port},
			{cx - r - dx*0.4, cy - port - spread},
			{cx - dx, cy - spread},
			{cx - dx, cy},
			{cx - dx, cy + spread},
			{cx - r - dx*0.4, cy + port + spread},
			{cx - r, cy + port},
		}
	case LoopBottom:
		dy := r + offset
		return []Point{
			{cx - port, cy + r},
			{cx - port - spread, cy + r + dy*0.4},
			{cx - spread, cy + dy},
			{cx, cy + dy},
			{cx + spread, cy + dy},
			{cx + port + spread, cy + r + dy*0.4},
			{cx + port, cy + r},
		}
	default:
		dy := r + offset
		return []Point{
			{cx - port, cy - r},
			{cx - port - spread, cy - r - dy*0.4},
			{cx - spread, cy - dy},
			{cx, cy - dy},
			{cx + spread, cy - dy},
			{cx + port + spread, cy - r - dy*0.4},
			{cx + port, cy - r},
		}
	}
}

// Bounds returns the bounding box of a set of points.
func Bounds(points []Point) (min, max Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
