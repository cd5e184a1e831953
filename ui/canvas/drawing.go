package canvas

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"magic-paint/internal/paint"
)

// Render scales the composite into a w×h viewport with nearest-neighbour
// sampling, so zoomed pixels stay square, and draws the overlay on top.
// Transparent areas (a hidden background) show a checkerboard. w and h are
// device pixels and need not be an exact multiple of the canvas size.
func Render(src *image.NRGBA, w, h int, ov Overlay) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if src == nil || w <= 0 || h <= 0 {
		return out
	}
	sb := src.Bounds()
	if sb.Empty() {
		return out
	}
	checker(out, checkerCell)
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), src, sb, xdraw.Over, nil)

	if ov.HasSelection {
		paint.DashedRect(out, toScreen(ov.Selection.Image(), sb, w, h), ov.On, ov.Off, ov.Dash)
	}
	return out
}

// toScreen maps a rectangle in canvas pixels onto the viewport.
func toScreen(r, canvas image.Rectangle, w, h int) image.Rectangle {
	sx := func(x int) int { return x * w / canvas.Dx() }
	sy := func(y int) int { return y * h / canvas.Dy() }
	return image.Rect(sx(r.Min.X), sy(r.Min.Y), sx(r.Max.X), sy(r.Max.Y))
}

const checkerCell = 8

// checker fills dst with a light checkerboard used behind a transparent canvas.
func checker(dst *image.NRGBA, cell int) {
	light := color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	dark := color.NRGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				dst.SetNRGBA(x, y, light)
			} else {
				dst.SetNRGBA(x, y, dark)
			}
		}
	}
}
