package paint

import (
	"image"
	"image/color"
	"math/rand/v2"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	pimage "magic-paint/internal/image"
	"magic-paint/pkg/geometry"
)

// Spray scatters dots pixels uniformly inside the disc of the given radius
// around center.
func Spray(buf *pimage.Buffer, center geometry.PointInt, radius, dots int, rng *rand.Rand, col color.NRGBA) {
	if radius < 1 {
		buf.Plot(center.X, center.Y, col)
		return
	}
	r2 := radius * radius
	for placed := 0; placed < dots; {
		dx := rng.IntN(2*radius+1) - radius
		dy := rng.IntN(2*radius+1) - radius
		if dx*dx+dy*dy > r2 {
			continue
		}
		buf.Plot(center.X+dx, center.Y+dy, col)
		placed++
	}
}

// TextFace is the fixed bitmap face used by the text tool.
var TextFace font.Face = basicfont.Face7x13

// Text stamps s with its top-left corner at p and returns the bounds that
// were touched. Lines are split on '\n'; there is no wrapping.
func Text(buf *pimage.Buffer, p geometry.PointInt, s string, col color.NRGBA) image.Rectangle {
	if s == "" {
		return image.Rectangle{}
	}
	m := TextFace.Metrics()
	lineHeight := m.Height.Ceil()
	d := &font.Drawer{
		Dst:  buf.Image(),
		Src:  image.NewUniform(col),
		Face: TextFace,
	}

	var touched image.Rectangle
	for i, line := range strings.Split(s, "\n") {
		d.Dot = fixed.P(p.X, p.Y+m.Ascent.Ceil()+i*lineHeight)
		bounds, _ := d.BoundString(line)
		touched = touched.Union(image.Rect(
			bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
			bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
		))
		d.DrawString(line)
	}
	return touched.Intersect(buf.Bounds())
}
