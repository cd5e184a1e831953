// Package selection tracks the rectangular marquee used for partial export.
package selection

import (
	"image"

	"magic-paint/pkg/geometry"
)

// Selection is a drag rectangle. The zero value is "no selection".
type Selection struct {
	rect   geometry.RectInt
	active bool // true between Start and Clear
	drag   bool // true between Start and Freeze
}

// Start clears any previous selection and anchors a new one at p.
func (s *Selection) Start(p geometry.PointInt) {
	s.rect = geometry.RectInt{X: p.X, Y: p.Y}
	s.active = true
	s.drag = true
}

// Update moves the free corner to p while a drag is in progress.
func (s *Selection) Update(p geometry.PointInt) {
	if !s.drag {
		return
	}
	s.rect = geometry.RectFromPoints(geometry.Pt(s.rect.X, s.rect.Y), p)
}

// Freeze ends the drag; the rectangle stays until cleared.
func (s *Selection) Freeze() {
	s.drag = false
}

// Dragging reports whether a drag is in progress.
func (s *Selection) Dragging() bool {
	return s.drag
}

// Clear removes the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Raw returns the signed rectangle as dragged.
func (s *Selection) Raw() geometry.RectInt {
	return s.rect
}

// Rect returns the normalized rectangle and whether it covers any area.
// A zero-area selection counts as no selection.
func (s *Selection) Rect() (geometry.RectInt, bool) {
	if !s.active || s.rect.Empty() {
		return geometry.RectInt{}, false
	}
	return s.rect.Normalize(), true
}

// Bounds returns the normalized selection clipped to a canvas of the given
// size.
func (s *Selection) Bounds(size geometry.Size) (image.Rectangle, bool) {
	r, ok := s.Rect()
	if !ok {
		return image.Rectangle{}, false
	}
	b := r.Image().Intersect(size.Bounds())
	return b, !b.Empty()
}
