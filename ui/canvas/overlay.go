package canvas

import (
	"image/color"

	"magic-paint/pkg/geometry"
)

// Overlay is what the view draws on top of the composite, in canvas pixels.
type Overlay struct {
	Selection    geometry.RectInt // normalized marquee
	HasSelection bool
	On, Off      color.NRGBA // marquee dash colors
	Dash         int         // dash length in screen pixels
}

// DefaultOverlay returns an empty overlay with the classic black and white
// marching-ants marquee.
func DefaultOverlay() Overlay {
	return Overlay{
		On:   color.NRGBA{A: 255},
		Off:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Dash: 4,
	}
}
