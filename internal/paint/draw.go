package paint

import (
	"image"
	"image/color"
	"math"

	pimage "magic-paint/internal/image"
	"magic-paint/pkg/geometry"
)

// DefaultCornerRadius is the corner radius of rounded rectangles.
const DefaultCornerRadius = 10

// Stamp writes the kernel centered on p. Pixels off the buffer are skipped.
func Stamp(buf *pimage.Buffer, p geometry.PointInt, k Kernel, col color.NRGBA) {
	for _, o := range k {
		buf.Plot(p.X+o.X, p.Y+o.Y, col)
	}
}

// Stroke draws a segment from a to b by stamping k at every Bresenham step.
func Stroke(buf *pimage.Buffer, a, b geometry.PointInt, k Kernel, col color.NRGBA) {
	x1, y1 := a.X, a.Y
	x2, y2 := b.X, b.Y

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		Stamp(buf, geometry.Pt(x1, y1), k, col)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Line draws a round-capped segment of the given width.
func Line(buf *pimage.Buffer, a, b geometry.PointInt, width int, col color.NRGBA) {
	Stroke(buf, a, b, RoundKernel(width), col)
}

// Polyline connects the points in order, closing the path back to the first
// point when closed is set.
func Polyline(buf *pimage.Buffer, pts []geometry.PointInt, closed bool, width int, col color.NRGBA) {
	if len(pts) == 0 {
		return
	}
	k := RoundKernel(width)
	if len(pts) == 1 {
		Stamp(buf, pts[0], k, col)
		return
	}
	for i := 1; i < len(pts); i++ {
		Stroke(buf, pts[i-1], pts[i], k, col)
	}
	if closed {
		Stroke(buf, pts[len(pts)-1], pts[0], k, col)
	}
}

// Rect outlines the rectangle with corners a and b.
func Rect(buf *pimage.Buffer, a, b geometry.PointInt, width int, col color.NRGBA) {
	Polyline(buf, []geometry.PointInt{a, {X: b.X, Y: a.Y}, b, {X: a.X, Y: b.Y}}, true, width, col)
}

// Ellipse outlines the ellipse inscribed in the bounding box of a and b.
func Ellipse(buf *pimage.Buffer, a, b geometry.PointInt, width int, col color.NRGBA) {
	rx := math.Abs(float64(b.X-a.X)) / 2
	ry := math.Abs(float64(b.Y-a.Y)) / 2
	cx := float64(min(a.X, b.X)) + rx
	cy := float64(min(a.Y, b.Y)) + ry
	Polyline(buf, arc(cx, cy, rx, ry, 0, 2*math.Pi), true, width, col)
}

// RoundedRect outlines the rectangle with corners a and b using corner radius
// r, clamped to half the shorter side.
func RoundedRect(buf *pimage.Buffer, a, b geometry.PointInt, r, width int, col color.NRGBA) {
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	r = min(r, (x1-x0)/2, (y1-y0)/2)
	if r <= 0 {
		Rect(buf, a, b, width, col)
		return
	}

	fr := float64(r)
	var path []geometry.PointInt
	path = append(path, arc(float64(x1-r), float64(y0+r), fr, fr, -math.Pi/2, 0)...)
	path = append(path, arc(float64(x1-r), float64(y1-r), fr, fr, 0, math.Pi/2)...)
	path = append(path, arc(float64(x0+r), float64(y1-r), fr, fr, math.Pi/2, math.Pi)...)
	path = append(path, arc(float64(x0+r), float64(y0+r), fr, fr, math.Pi, 3*math.Pi/2)...)
	Polyline(buf, path, true, width, col)
}

// arc samples an elliptical arc from angle start to end, densely enough that
// consecutive samples are at most a pixel or two apart.
func arc(cx, cy, rx, ry, start, end float64) []geometry.PointInt {
	steps := int(math.Ceil(max(rx, ry)*(end-start))) + 4
	pts := make([]geometry.PointInt, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := start + (end-start)*float64(i)/float64(steps)
		p := geometry.Pt(
			int(math.Round(cx+rx*math.Cos(t))),
			int(math.Round(cy+ry*math.Sin(t))),
		)
		if n := len(pts); n > 0 && pts[n-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	return pts
}

// DashedRect outlines r on dst with alternating dashes of on and off colors.
// Used for the selection marquee, which is drawn at screen scale.
func DashedRect(dst *image.NRGBA, r image.Rectangle, on, off color.NRGBA, dash int) {
	if dash < 1 {
		dash = 1
	}
	r = r.Canon()
	b := dst.Bounds()
	plot := func(x, y, i int) {
		if !(image.Point{X: x, Y: y}).In(b) {
			return
		}
		if (i/dash)%2 == 0 {
			dst.SetNRGBA(x, y, on)
		} else {
			dst.SetNRGBA(x, y, off)
		}
	}
	// Walk the outline once, clockwise from the top-left corner, so every
	// pixel gets exactly one dash phase.
	i := 0
	for x := r.Min.X; x < r.Max.X; x++ {
		plot(x, r.Min.Y, i)
		i++
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		plot(r.Max.X-1, y, i)
		i++
	}
	if r.Dy() > 1 {
		for x := r.Max.X - 2; x >= r.Min.X; x-- {
			plot(x, r.Max.Y-1, i)
			i++
		}
	}
	if r.Dx() > 1 {
		for y := r.Max.Y - 2; y > r.Min.Y; y-- {
			plot(r.Min.X, y, i)
			i++
		}
	}
}
