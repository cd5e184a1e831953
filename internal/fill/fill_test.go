package fill

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pimage "magic-paint/internal/image"
)

var (
	black = color.NRGBA{A: 255}
	green = color.NRGBA{G: 255, A: 255}
	white = pimage.White
)

// boxed returns a 10x10 white buffer with a black square outline from (2,2) to (7,7).
func boxed(t *testing.T) *pimage.Buffer {
	t.Helper()
	b := pimage.NewBuffer(10, 10)
	b.Fill(white)
	for i := 2; i <= 7; i++ {
		require.NoError(t, b.Set(i, 2, black))
		require.NoError(t, b.Set(i, 7, black))
		require.NoError(t, b.Set(2, i, black))
		require.NoError(t, b.Set(7, i, black))
	}
	return b
}

func TestFloodIdempotent(t *testing.T) {
	b := pimage.NewBuffer(16, 16)
	b.Fill(green)
	before := b.Pixels()

	n, err := Flood(b, 5, 5, green)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, before, b.Pixels())
}

func TestFloodInsideStaysInside(t *testing.T) {
	b := boxed(t)
	n, err := Flood(b, 4, 4, green)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c, _ := b.At(x, y)
			inside := x > 2 && x < 7 && y > 2 && y < 7
			border := !inside && x >= 2 && x <= 7 && y >= 2 && y <= 7
			switch {
			case inside:
				assert.Equal(t, green, c, "(%d,%d)", x, y)
			case border:
				assert.Equal(t, black, c, "(%d,%d)", x, y)
			default:
				assert.Equal(t, white, c, "(%d,%d)", x, y)
			}
		}
	}
}

func TestFloodOutsideStaysOutside(t *testing.T) {
	b := boxed(t)
	n, err := Flood(b, 0, 0, green)
	require.NoError(t, err)
	assert.Equal(t, 100-36, n)

	c, _ := b.At(4, 4)
	assert.Equal(t, white, c)
	c, _ = b.At(9, 9)
	assert.Equal(t, green, c)
}

func TestFloodExactMatchOnly(t *testing.T) {
	b := pimage.NewBuffer(3, 1)
	b.Fill(white)
	require.NoError(t, b.Set(1, 0, color.NRGBA{R: 254, G: 255, B: 255, A: 255}))

	n, err := Flood(b, 0, 0, green)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a near-white pixel blocks the fill")
}

func TestFloodLargeRegion(t *testing.T) {
	b := pimage.NewBuffer(512, 512)
	n, err := Flood(b, 0, 0, green)
	require.NoError(t, err)
	assert.Equal(t, 512*512, n)
}

func TestFloodOutOfBounds(t *testing.T) {
	b := pimage.NewBuffer(3, 3)
	_, err := Flood(b, 3, 0, green)
	assert.ErrorIs(t, err, pimage.ErrOutOfBounds)
}
