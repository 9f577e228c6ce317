package mathscroll

import "math"

// Point represents a position or a displacement on the canvas.
// The canvas uses scene coordinates: origin at the frame center, X grows to
// the right and Y grows upward.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Unit direction vectors used for placement and alignment.
var (
	Origin    = Point{}
	Up        = Point{X: 0, Y: 1}
	Down      = Point{X: 0, Y: -1}
	Left      = Point{X: -1, Y: 0}
	Right     = Point{X: 1, Y: 0}
	UpLeft    = Point{X: -1, Y: 1}
	UpRight   = Point{X: 1, Y: 1}
	DownLeft  = Point{X: -1, Y: -1}
	DownRight = Point{X: 1, Y: -1}
)

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Neg returns the opposite vector.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Near reports whether p and q differ by less than eps on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) < eps && math.Abs(p.Y-q.Y) < eps
}

// Rect is an axis-aligned bounding rectangle in scene coordinates.
// A Rect with Min greater than Max on either axis is empty; EmptyRect
// returns the canonical empty value, which is the identity for Union.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyRect returns a rectangle that contains nothing.
func EmptyRect() Rect {
	return Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// RectFromCenter returns a rectangle of the given size centered on c.
func RectFromCenter(c Point, w, h float64) Rect {
	return Rect{MinX: c.X - w/2, MinY: c.Y - h/2, MaxX: c.X + w/2, MaxY: c.Y + h/2}
}

// IsEmpty reports whether the rectangle contains no points.
func (r Rect) IsEmpty() bool {
	return r.MinX > r.MaxX || r.MinY > r.MaxY
}

// Width returns the horizontal extent, zero for an empty rectangle.
func (r Rect) Width() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the vertical extent, zero for an empty rectangle.
func (r Rect) Height() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxY - r.MinY
}

// Center returns the rectangle center.
func (r Rect) Center() Point {
	if r.IsEmpty() {
		return Origin
	}
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return Rect{
		MinX: math.Min(r.MinX, s.MinX),
		MinY: math.Min(r.MinY, s.MinY),
		MaxX: math.Max(r.MaxX, s.MaxX),
		MaxY: math.Max(r.MaxY, s.MaxY),
	}
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Point) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{MinX: r.MinX + d.X, MinY: r.MinY + d.Y, MaxX: r.MaxX + d.X, MaxY: r.MaxY + d.Y}
}

// Inset returns the rectangle grown by buff on every side
// (shrunk for negative buff).
func (r Rect) Inset(buff float64) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{MinX: r.MinX - buff, MinY: r.MinY - buff, MaxX: r.MaxX + buff, MaxY: r.MaxY + buff}
}

// CriticalPoint returns the point of the rectangle selected by dir:
// for each axis a negative component picks the minimum edge, a positive
// one the maximum edge and zero the center. CriticalPoint(UpLeft) is the
// top-left corner, CriticalPoint(Up) the middle of the top edge.
func (r Rect) CriticalPoint(dir Point) Point {
	c := r.Center()
	p := c
	switch {
	case dir.X < 0:
		p.X = r.MinX
	case dir.X > 0:
		p.X = r.MaxX
	}
	switch {
	case dir.Y < 0:
		p.Y = r.MinY
	case dir.Y > 0:
		p.Y = r.MaxY
	}
	return p
}
