// Package geometry provides basic geometric types used throughout the application.
package geometry

import "image"

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointInt represents a 2D point with integer coordinates.
// Canvas pixels are always addressed with PointInt.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for PointInt{X: x, Y: y}.
func Pt(x, y int) PointInt {
	return PointInt{X: x, Y: y}
}

// Image converts to an image.Point.
func (p PointInt) Image() image.Point {
	return image.Pt(p.X, p.Y)
}

// In reports whether p lies inside a width x height raster.
func (p PointInt) In(width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height
}

// RectInt represents a rectangle with integer coordinates.
// Width and Height may be negative while a drag is in progress;
// call Normalize before consuming it.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectFromPoints returns the signed rectangle spanning from a to b.
func RectFromPoints(a, b PointInt) RectInt {
	return RectInt{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}
}

// Normalize returns an equivalent rectangle with a top-left origin and a
// non-negative size.
func (r RectInt) Normalize() RectInt {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Empty reports whether the rectangle covers no pixels.
func (r RectInt) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Image converts a normalized rectangle to an image.Rectangle.
func (r RectInt) Image() image.Rectangle {
	n := r.Normalize()
	return image.Rect(n.X, n.Y, n.X+n.Width, n.Y+n.Height)
}

// Size represents a 2D size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// Bounds returns the size as a zero-origin image.Rectangle.
func (s Size) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}
