package paint

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pimage "magic-paint/internal/image"
	"magic-paint/pkg/geometry"
)

var ink = color.NRGBA{A: 255}

func count(buf *pimage.Buffer, c color.NRGBA) int {
	n := 0
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			if p, _ := buf.At(x, y); p == c {
				n++
			}
		}
	}
	return n
}

func TestTipRoundTrip(t *testing.T) {
	tips := Tips()
	require.Len(t, tips, 12)
	for _, tip := range tips {
		parsed, err := ParseTip(tip.String())
		require.NoError(t, err)
		assert.Equal(t, tip, parsed)
	}
	_, err := ParseTip("round")
	assert.Error(t, err)
	_, err = ParseTip("oval-m")
	assert.Error(t, err)
}

func TestTipScale(t *testing.T) {
	assert.Equal(t, 2, Tip{Size: TipSmall}.Scale())
	assert.Equal(t, 3, DefaultTip.Scale())
	assert.Equal(t, 4, Tip{Size: TipLarge}.Scale())
}

func TestKernels(t *testing.T) {
	tests := []struct {
		name   string
		kernel Kernel
		want   int
	}{
		{"width 1", RoundKernel(1), 1},
		{"round 2", RoundKernel(2), 4},
		{"round 3", RoundKernel(3), 9},
		{"square 4", TipKernel(TipSquare, 4), 16},
		{"slant 5", TipKernel(TipSlant, 5), 5},
		{"backslant 5", TipKernel(TipBackslant, 5), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.kernel, tt.want)
		})
	}
	assert.Contains(t, TipKernel(TipSlant, 3), image.Pt(1, -1))
	assert.Contains(t, TipKernel(TipBackslant, 3), image.Pt(1, 1))
}

func TestLineEndpoints(t *testing.T) {
	buf := pimage.NewBuffer(20, 20)
	Line(buf, geometry.Pt(2, 3), geometry.Pt(15, 9), 1, ink)

	a, _ := buf.At(2, 3)
	b, _ := buf.At(15, 9)
	assert.Equal(t, ink, a)
	assert.Equal(t, ink, b)
	assert.Equal(t, 14, count(buf, ink), "one pixel per step along the major axis")
}

func TestLineClipsAtEdges(t *testing.T) {
	buf := pimage.NewBuffer(10, 10)
	assert.NotPanics(t, func() {
		Line(buf, geometry.Pt(-5, 5), geometry.Pt(20, 5), 3, ink)
	})
	assert.Equal(t, 30, count(buf, ink))
}

func TestRectOutline(t *testing.T) {
	buf := pimage.NewBuffer(20, 20)
	Rect(buf, geometry.Pt(12, 12), geometry.Pt(2, 2), 1, ink)

	assert.Equal(t, 40, count(buf, ink))
	c, _ := buf.At(7, 7)
	assert.Equal(t, color.NRGBA{}, c, "outline only")
}

func TestEllipseStaysInBox(t *testing.T) {
	buf := pimage.NewBuffer(40, 40)
	Ellipse(buf, geometry.Pt(5, 10), geometry.Pt(35, 30), 1, ink)

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c, _ := buf.At(x, y)
			if c == ink {
				assert.True(t, x >= 5 && x <= 35 && y >= 10 && y <= 30, "(%d,%d) outside box", x, y)
			}
		}
	}
	left, _ := buf.At(5, 20)
	top, _ := buf.At(20, 10)
	center, _ := buf.At(20, 20)
	assert.Equal(t, ink, left)
	assert.Equal(t, ink, top)
	assert.Equal(t, color.NRGBA{}, center)
}

func TestEllipseIsClosed(t *testing.T) {
	buf := pimage.NewBuffer(40, 40)
	buf.Fill(pimage.White)
	Ellipse(buf, geometry.Pt(5, 5), geometry.Pt(34, 34), 1, ink)

	// No gaps: a 4-connected walk from the center never reaches the corner.
	seen := map[image.Point]bool{}
	stack := []image.Point{{20, 20}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[p] || !p.In(buf.Bounds()) {
			continue
		}
		if c, _ := buf.At(p.X, p.Y); c != pimage.White {
			continue
		}
		seen[p] = true
		stack = append(stack, p.Add(image.Pt(1, 0)), p.Add(image.Pt(-1, 0)), p.Add(image.Pt(0, 1)), p.Add(image.Pt(0, -1)))
	}
	assert.False(t, seen[image.Pt(0, 0)])
}

func TestRoundedRectCorners(t *testing.T) {
	buf := pimage.NewBuffer(50, 50)
	RoundedRect(buf, geometry.Pt(5, 5), geometry.Pt(45, 45), DefaultCornerRadius, 1, ink)

	corner, _ := buf.At(5, 5)
	assert.Equal(t, color.NRGBA{}, corner, "corner is cut")
	edge, _ := buf.At(25, 5)
	assert.Equal(t, ink, edge)

	small := pimage.NewBuffer(10, 10)
	assert.NotPanics(t, func() {
		RoundedRect(small, geometry.Pt(1, 1), geometry.Pt(4, 8), DefaultCornerRadius, 1, ink)
	})
	assert.Positive(t, count(small, ink))
}

func TestSprayStaysInRadius(t *testing.T) {
	buf := pimage.NewBuffer(50, 50)
	rng := rand.New(rand.NewPCG(1, 2))
	Spray(buf, geometry.Pt(25, 25), 8, 200, rng, ink)

	n := 0
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if c, _ := buf.At(x, y); c == ink {
				n++
				dx, dy := x-25, y-25
				assert.LessOrEqual(t, dx*dx+dy*dy, 64)
			}
		}
	}
	assert.Positive(t, n)
}

func TestSprayDeterministic(t *testing.T) {
	a := pimage.NewBuffer(30, 30)
	b := pimage.NewBuffer(30, 30)
	Spray(a, geometry.Pt(15, 15), 6, 40, rand.New(rand.NewPCG(7, 7)), ink)
	Spray(b, geometry.Pt(15, 15), 6, 40, rand.New(rand.NewPCG(7, 7)), ink)
	assert.True(t, a.Equal(b))
}

func TestTextStamp(t *testing.T) {
	buf := pimage.NewBuffer(100, 40)
	r := Text(buf, geometry.Pt(2, 2), "Hi\nyo", ink)
	assert.False(t, r.Empty())
	assert.Positive(t, count(buf, ink))

	for y := 0; y < 40; y++ {
		for x := 0; x < 100; x++ {
			if c, _ := buf.At(x, y); c == ink {
				assert.True(t, image.Pt(x, y).In(r), "(%d,%d) outside reported bounds", x, y)
			}
		}
	}

	empty := pimage.NewBuffer(10, 10)
	assert.True(t, Text(empty, geometry.Pt(0, 0), "", ink).Empty())
}

func TestDashedRect(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	on := color.NRGBA{A: 255}
	off := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	DashedRect(dst, image.Rect(15, 15, 5, 5), on, off, 2)

	assert.Equal(t, on, dst.NRGBAAt(5, 5))
	assert.Equal(t, on, dst.NRGBAAt(6, 5))
	assert.Equal(t, off, dst.NRGBAAt(7, 5))
	assert.Equal(t, color.NRGBA{}, dst.NRGBAAt(10, 10))
	assert.Equal(t, on, dst.NRGBAAt(5, 5), "the first corner keeps its phase")
}

func TestDashedRectPhaseRunsOnceAroundOutline(t *testing.T) {
	on := color.NRGBA{A: 255}
	off := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	dst := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	DashedRect(dst, image.Rect(0, 0, 4, 3), on, off, 1)
	want := map[image.Point]color.NRGBA{
		{0, 0}: on, {1, 0}: off, {2, 0}: on, {3, 0}: off,
		{3, 1}: on, {3, 2}: off,
		{2, 2}: on, {1, 2}: off, {0, 2}: on,
		{0, 1}: off,
	}
	for p, c := range want {
		assert.Equal(t, c, dst.NRGBAAt(p.X, p.Y), "%v", p)
	}
	assert.Equal(t, color.NRGBA{}, dst.NRGBAAt(1, 1))

	column := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	DashedRect(column, image.Rect(2, 0, 3, 4), on, off, 1)
	for y, c := range []color.NRGBA{on, off, on, off} {
		assert.Equal(t, c, column.NRGBAAt(2, y), "y=%d", y)
	}
}
