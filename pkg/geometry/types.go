// Package geometry provides the 2D primitives used to place symbols on a
// schematic sheet: points, axis-aligned boxes, rotations and segments.
package geometry

import "math"

// Point represents a 2D coordinate on the sheet.
type Point struct {
	X float64
	Y float64
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Box represents an axis-aligned rectangle (min_x, min_y, max_x, max_y).
type Box struct {
	Min Point
	Max Point
}

// NewBox creates an empty bounding box that any call to Expand will replace.
func NewBox() Box {
	return Box{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// BoxOf returns the normalized box spanning the two corners.
func BoxOf(x1, y1, x2, y2 float64) Box {
	return Box{
		Min: Point{X: math.Min(x1, x2), Y: math.Min(y1, y2)},
		Max: Point{X: math.Max(x1, x2), Y: math.Max(y1, y2)},
	}
}

// IsEmpty checks if the bounding box is empty
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Expand expands the bounding box to include a position
func (b *Box) Expand(p Point) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
}

// ExpandBox expands to include another bounding box
func (b *Box) ExpandBox(other Box) {
	if !other.IsEmpty() {
		b.Expand(other.Min)
		b.Expand(other.Max)
	}
}

// Contains checks if a point lies within the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects checks if two bounding boxes overlap.
func (b Box) Intersects(other Box) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// Width returns the width of the bounding box
func (b Box) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the height of the bounding box
func (b Box) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Center returns the center point of the bounding box
func (b Box) Center() Point {
	return Point{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
	}
}

// Corners returns the four corners in the order
// (min,min), (min,max), (max,max), (max,min).
func (b Box) Corners() [4]Point {
	return [4]Point{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Min.X, Y: b.Max.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Max.X, Y: b.Min.Y},
	}
}
