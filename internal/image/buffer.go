// Package image provides pixel buffers, layers, compositing and image codecs.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

var (
	// ErrOutOfBounds is returned for pixel access outside the buffer.
	ErrOutOfBounds = errors.New("pixel out of bounds")
	// ErrSizeMismatch is returned when restored data does not fit the buffer.
	ErrSizeMismatch = errors.New("buffer size mismatch")
)

// Buffer is a fixed-size, non-premultiplied 8-bit RGBA raster.
type Buffer struct {
	img *image.NRGBA
}

// NewBuffer allocates a fully transparent buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer rectangle, always anchored at (0,0).
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// Image exposes the underlying raster for compositing and rasterization.
// Callers must not retain it across a Decode or Overwrite.
func (b *Buffer) Image() *image.NRGBA { return b.img }

func (b *Buffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.img.Rect.Max.X && y < b.img.Rect.Max.Y
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) (color.NRGBA, error) {
	if !b.inside(x, y) {
		return color.NRGBA{}, fmt.Errorf("read (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return b.img.NRGBAAt(x, y), nil
}

// Set writes the pixel at (x, y).
func (b *Buffer) Set(x, y int, c color.NRGBA) error {
	if !b.inside(x, y) {
		return fmt.Errorf("write (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	b.img.SetNRGBA(x, y, c)
	return nil
}

// Plot writes the pixel if it lies inside the buffer and reports whether it did.
// Rasterizers use it so strokes may run off the canvas edge.
func (b *Buffer) Plot(x, y int, c color.NRGBA) bool {
	if !b.inside(x, y) {
		return false
	}
	b.img.SetNRGBA(x, y, c)
	return true
}

// Pixels returns a copy of the raw RGBA bytes, row-major.
func (b *Buffer) Pixels() []byte {
	out := make([]byte, len(b.img.Pix))
	copy(out, b.img.Pix)
	return out
}

// Overwrite replaces every pixel with pix, which must come from Pixels of an
// equally sized buffer.
func (b *Buffer) Overwrite(pix []byte) error {
	if len(pix) != len(b.img.Pix) {
		return fmt.Errorf("overwrite %d bytes into %d: %w", len(pix), len(b.img.Pix), ErrSizeMismatch)
	}
	copy(b.img.Pix, pix)
	return nil
}

// Encode serializes the buffer as PNG.
func (b *Buffer) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.img); err != nil {
		return nil, fmt.Errorf("encode buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode restores the buffer from PNG data produced by Encode.
// The decoded image must have exactly the buffer's dimensions.
func (b *Buffer) Decode(data []byte) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode buffer: %w", err)
	}
	if img.Bounds().Dx() != b.Width() || img.Bounds().Dy() != b.Height() {
		return fmt.Errorf("decode %v into %v: %w", img.Bounds().Size(), b.Bounds().Size(), ErrSizeMismatch)
	}
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == b.img.Stride {
		copy(b.img.Pix, n.Pix)
		return nil
	}
	xdraw.Draw(b.img, b.img.Rect, img, img.Bounds().Min, xdraw.Src)
	return nil
}

// Fill paints every pixel with c.
func (b *Buffer) Fill(c color.NRGBA) {
	pix := b.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// Clear makes every pixel fully transparent.
func (b *Buffer) Clear() {
	clear(b.img.Pix)
}

// Invert inverts the color channels of every pixel, leaving alpha intact.
func (b *Buffer) Invert() {
	pix := b.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 255 - pix[i]
		pix[i+1] = 255 - pix[i+1]
		pix[i+2] = 255 - pix[i+2]
	}
}

// DrawScaled scales src to cover the whole buffer and draws it with op.
func (b *Buffer) DrawScaled(src image.Image, op xdraw.Op) {
	xdraw.CatmullRom.Scale(b.img, b.img.Rect, src, src.Bounds(), op, nil)
}

// Equal reports whether two buffers hold identical pixels.
func (b *Buffer) Equal(other *Buffer) bool {
	return other != nil && b.img.Rect == other.img.Rect && bytes.Equal(b.img.Pix, other.img.Pix)
}
