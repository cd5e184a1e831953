// Package paint rasterizes strokes and shapes onto pixel buffers.
//
// Every primitive is aliased: pixels are either written with the exact
// color or left untouched, so flood fill boundaries stay exact.
package paint

import (
	"fmt"
	"image"
	"strings"
)

// TipShape is the footprint of a brush stamp.
type TipShape int

const (
	TipRound TipShape = iota
	TipSquare
	TipSlant     // "/"
	TipBackslant // "\"
)

// TipSize scales the brush footprint.
type TipSize int

const (
	TipSmall TipSize = iota
	TipMedium
	TipLarge
)

// Tip is a brush tip: a shape and a size.
type Tip struct {
	Shape TipShape
	Size  TipSize
}

// DefaultTip is the medium round tip.
var DefaultTip = Tip{Shape: TipRound, Size: TipMedium}

var (
	shapeNames = []string{"round", "square", "slant", "backslant"}
	sizeNames  = []string{"s", "m", "l"}
)

// Scale is the line width multiplier of the tip size.
func (t Tip) Scale() int {
	switch t.Size {
	case TipSmall:
		return 2
	case TipLarge:
		return 4
	default:
		return 3
	}
}

// String returns the tip in "shape-size" form, e.g. "round-m".
func (t Tip) String() string {
	if int(t.Shape) >= len(shapeNames) || int(t.Size) >= len(sizeNames) || t.Shape < 0 || t.Size < 0 {
		return "unknown"
	}
	return shapeNames[t.Shape] + "-" + sizeNames[t.Size]
}

// ParseTip parses the output of Tip.String.
func ParseTip(s string) (Tip, error) {
	shape, size, ok := strings.Cut(strings.ToLower(s), "-")
	if !ok {
		return Tip{}, fmt.Errorf("invalid brush tip %q", s)
	}
	t := Tip{Shape: -1, Size: -1}
	for i, n := range shapeNames {
		if n == shape {
			t.Shape = TipShape(i)
		}
	}
	for i, n := range sizeNames {
		if n == size {
			t.Size = TipSize(i)
		}
	}
	if t.Shape < 0 || t.Size < 0 {
		return Tip{}, fmt.Errorf("invalid brush tip %q", s)
	}
	return t, nil
}

// Tips lists every tip, shape-major.
func Tips() []Tip {
	var out []Tip
	for s := range shapeNames {
		for z := range sizeNames {
			out = append(out, Tip{Shape: TipShape(s), Size: TipSize(z)})
		}
	}
	return out
}

// Kernel is the set of pixel offsets written around each point of a stroke.
type Kernel []image.Point

// RoundKernel returns a filled disc of the given diameter.
func RoundKernel(width int) Kernel {
	if width <= 1 {
		return Kernel{{}}
	}
	lo, hi := -(width-1)/2, width/2
	c := float64(lo+hi) / 2
	r2 := float64(width) * float64(width) / 4
	var k Kernel
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			fx, fy := float64(dx)-c, float64(dy)-c
			if fx*fx+fy*fy <= r2 {
				k = append(k, image.Pt(dx, dy))
			}
		}
	}
	return k
}

// TipKernel returns the footprint of shape at the given width.
func TipKernel(shape TipShape, width int) Kernel {
	if width <= 1 {
		return Kernel{{}}
	}
	lo, hi := -(width-1)/2, width/2
	var k Kernel
	switch shape {
	case TipSquare:
		for dy := lo; dy <= hi; dy++ {
			for dx := lo; dx <= hi; dx++ {
				k = append(k, image.Pt(dx, dy))
			}
		}
	case TipSlant:
		for i := lo; i <= hi; i++ {
			k = append(k, image.Pt(i, -i))
		}
	case TipBackslant:
		for i := lo; i <= hi; i++ {
			k = append(k, image.Pt(i, i))
		}
	default:
		return RoundKernel(width)
	}
	return k
}
