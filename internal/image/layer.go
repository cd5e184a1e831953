package image

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// BackgroundID is the id of the bottom layer every canvas starts with.
const BackgroundID = "background"

// White is the background and eraser color.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Layer represents a single bitmap layer on the canvas.
type Layer struct {
	ID      string  // Stable, never reused
	Name    string  // Display label
	Visible bool    // Included in the composite and eligible for input
	Buffer  *Buffer // Exclusively owned pixels

	background bool
}

// NewLayer creates a transparent layer of the given size.
func NewLayer(id, name string, width, height int) *Layer {
	return &Layer{
		ID:      id,
		Name:    name,
		Visible: true,
		Buffer:  NewBuffer(width, height),
	}
}

// NewBackgroundLayer creates the opaque white bottom layer.
func NewBackgroundLayer(name string, width, height int) *Layer {
	l := NewLayer(BackgroundID, name, width, height)
	l.background = true
	l.Buffer.Fill(White)
	return l
}

// IsBackground reports whether this is the opaque bottom layer.
func (l *Layer) IsBackground() bool {
	return l.background
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int {
	return l.Buffer.Width()
}

// Height returns the layer height in pixels.
func (l *Layer) Height() int {
	return l.Buffer.Height()
}

// Clear erases the layer. The background is repainted white instead of
// becoming transparent.
func (l *Layer) Clear() {
	if l.background {
		l.Buffer.Fill(White)
		return
	}
	l.Buffer.Clear()
}

// Load replaces the layer contents with src scaled to the canvas size.
// On the background the image is composited over white so it stays opaque.
func (l *Layer) Load(src image.Image) {
	if l.background {
		l.Buffer.Fill(White)
		l.Buffer.DrawScaled(src, xdraw.Over)
		return
	}
	l.Buffer.Clear()
	l.Buffer.DrawScaled(src, xdraw.Src)
}

// Invert inverts the layer colors, keeping alpha.
func (l *Layer) Invert() {
	l.Buffer.Invert()
}

// PixelAt returns the color at the specified pixel coordinates.
func (l *Layer) PixelAt(x, y int) (color.NRGBA, error) {
	return l.Buffer.At(x, y)
}
