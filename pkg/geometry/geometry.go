// Package geometry provides the value types shared by every stage of the
// routing engine: points and axis-aligned rectangles expressed in a single
// diagram-local coordinate space.
package geometry

import "math"

// Point represents a coordinate in diagram space
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rect represents an axis-aligned rectangle in diagram space.
// Rect is an immutable value; every helper returns a new value.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NewPoint creates a new point
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// NewRect creates a new rectangle
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Add returns p translated by (dx, dy)
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return math.Hypot(other.X-p.X, other.Y-p.Y)
}

// Left returns the X coordinate of the left edge
func (r Rect) Left() float64 { return r.X }

// Right returns the X coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the Y coordinate of the top edge
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the Y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Center returns the center point of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.CenterX(), Y: r.CenterY()}
}

// TopCenter returns the midpoint of the top edge
func (r Rect) TopCenter() Point {
	return Point{X: r.CenterX(), Y: r.Top()}
}

// BottomCenter returns the midpoint of the bottom edge
func (r Rect) BottomCenter() Point {
	return Point{X: r.CenterX(), Y: r.Bottom()}
}

// LeftCenter returns the midpoint of the left edge
func (r Rect) LeftCenter() Point {
	return Point{X: r.Left(), Y: r.CenterY()}
}

// RightCenter returns the midpoint of the right edge
func (r Rect) RightCenter() Point {
	return Point{X: r.Right(), Y: r.CenterY()}
}

// IsEmpty reports whether the rectangle has no area
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains checks if a point is within the rectangle.
// The left and top edges are inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() &&
		p.Y >= r.Top() && p.Y < r.Bottom()
}

// Intersects checks if two rectangles overlap
func (r Rect) Intersects(other Rect) bool {
	// No intersection if one box is completely to the left, right, above, or below the other
	if r.Left() >= other.Right() || other.Left() >= r.Right() {
		return false
	}
	if r.Top() >= other.Bottom() || other.Top() >= r.Bottom() {
		return false
	}
	return true
}

// Union returns the smallest rectangle containing both rectangles.
// An empty rectangle does not contribute to the union.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x1 := math.Min(r.Left(), other.Left())
	y1 := math.Min(r.Top(), other.Top())
	x2 := math.Max(r.Right(), other.Right())
	y2 := math.Max(r.Bottom(), other.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Translate applies an offset, e.g. a scroll or pan offset reported by the host
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Inset shrinks the rectangle by d on every side; a negative d grows it
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}
