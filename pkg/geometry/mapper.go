package geometry

import (
	"errors"
	"math"
)

// ZoomLevels are the magnification steps offered by the magnifier.
var ZoomLevels = []float64{1, 2, 6, 8}

// ErrInvalidZoom is returned for a zero or negative zoom factor.
var ErrInvalidZoom = errors.New("zoom must be positive")

// Mapper converts pointer positions between screen space and canvas pixels.
// Every pointer path (drawing, picking, selecting) goes through the same
// Mapper so a stroke stays continuous when the zoom changes.
type Mapper struct {
	Origin Point2D // on-screen position of the canvas top-left corner
	Zoom   float64
}

// NewMapper creates a Mapper with the given zoom and a zero origin.
func NewMapper(zoom float64) (Mapper, error) {
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return Mapper{}, ErrInvalidZoom
	}
	return Mapper{Zoom: zoom}, nil
}

// ToCanvas maps a screen position to integer canvas coordinates:
// floor((screen - origin) / zoom).
func (m Mapper) ToCanvas(screen Point2D) PointInt {
	z := m.Zoom
	if z <= 0 {
		z = 1
	}
	return PointInt{
		X: int(math.Floor((screen.X - m.Origin.X) / z)),
		Y: int(math.Floor((screen.Y - m.Origin.Y) / z)),
	}
}

// ToScreen maps a canvas pixel's top-left corner back to screen space.
func (m Mapper) ToScreen(p PointInt) Point2D {
	return Point2D{
		X: float64(p.X)*m.Zoom + m.Origin.X,
		Y: float64(p.Y)*m.Zoom + m.Origin.Y,
	}
}

// NextZoom returns the zoom level after current, or current at the top.
func NextZoom(current float64) float64 {
	for _, z := range ZoomLevels {
		if z > current {
			return z
		}
	}
	return current
}

// PrevZoom returns the zoom level before current, or current at the bottom.
func PrevZoom(current float64) float64 {
	for i := len(ZoomLevels) - 1; i >= 0; i-- {
		if ZoomLevels[i] < current {
			return ZoomLevels[i]
		}
	}
	return current
}
