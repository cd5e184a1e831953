// Package fill implements connected-region recoloring.
package fill

import (
	"fmt"
	"image"
	"image/color"

	pimage "magic-paint/internal/image"
)

// Flood recolors the 4-connected region of pixels that exactly match the
// color at (x, y). It returns the number of pixels changed. Filling with the
// color already present changes nothing.
func Flood(buf *pimage.Buffer, x, y int, fill color.NRGBA) (int, error) {
	target, err := buf.At(x, y)
	if err != nil {
		return 0, fmt.Errorf("flood fill: %w", err)
	}
	if target == fill {
		return 0, nil
	}

	img := buf.Image()
	w, h := buf.Width(), buf.Height()
	filled := 0
	stack := []image.Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if img.NRGBAAt(p.X, p.Y) != target {
			continue
		}
		img.SetNRGBA(p.X, p.Y, fill)
		filled++

		if p.X > 0 {
			stack = append(stack, image.Point{X: p.X - 1, Y: p.Y})
		}
		if p.X < w-1 {
			stack = append(stack, image.Point{X: p.X + 1, Y: p.Y})
		}
		if p.Y > 0 {
			stack = append(stack, image.Point{X: p.X, Y: p.Y - 1})
		}
		if p.Y < h-1 {
			stack = append(stack, image.Point{X: p.X, Y: p.Y + 1})
		}
	}
	return filled, nil
}
