package quadtree

import (
	"math"
	"strconv"
)

// Quadrant indexes the four children of a subdivided node.
type Quadrant int

const (
	NorthWest Quadrant = iota
	NorthEast
	SouthWest
	SouthEast
)

func (q Quadrant) String() string {
	switch q {
	case NorthWest:
		return "nw"
	case NorthEast:
		return "ne"
	case SouthWest:
		return "sw"
	case SouthEast:
		return "se"
	default:
		return "Quadrant(" + strconv.Itoa(int(q)) + ")"
	}
}

// Point is a 2D position.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return "[" + strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64) + "]"
}

// Rect is a closed axis-aligned rectangle. Min is the north-west corner and
// Max the south-east one, so Y grows southwards as in screen space.
type Rect struct {
	Min, Max Point
}

func (r Rect) String() string {
	return r.Min.String() + "-" + r.Max.String()
}

// Center returns the midpoint of the diagonal. Halving before the sum keeps
// it finite for any finite rectangle.
func (r Rect) Center() Point {
	return Point{
		X: r.Min.X/2 + r.Max.X/2,
		Y: r.Min.Y/2 + r.Max.Y/2,
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether r and o overlap. Rectangles touching along an
// edge or at a corner intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && r.Max.X >= o.Min.X &&
		r.Min.Y <= o.Max.Y && r.Max.Y >= o.Min.Y
}

// Valid reports whether every coordinate is finite and Min <= Max on both
// axes. Zero-area rectangles are valid.
func (r Rect) Valid() bool {
	for _, v := range [...]float64{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y
}

// Quadrants splits r at its center, indexed by Quadrant. The four rectangles
// tile r and share the edges through the center.
func (r Rect) Quadrants() [4]Rect {
	c := r.Center()
	return [4]Rect{
		NorthWest: {Min: r.Min, Max: c},
		NorthEast: {Min: Point{c.X, r.Min.Y}, Max: Point{r.Max.X, c.Y}},
		SouthWest: {Min: Point{r.Min.X, c.Y}, Max: Point{c.X, r.Max.Y}},
		SouthEast: {Min: c, Max: r.Max},
	}
}
