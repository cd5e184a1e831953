// Package colorutil provides shared color utilities for the paint program.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common colors used throughout the application.
var (
	Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// paletteHex is the classic 28-color palette, two rows of 14.
var paletteHex = [...]string{
	"#000000", "#808080", "#800000", "#808000", "#008000", "#008080", "#000080",
	"#800080", "#808040", "#004040", "#0080FF", "#004080", "#8000FF", "#804000",
	"#FFFFFF", "#C0C0C0", "#FF0000", "#FFFF00", "#00FF00", "#00FFFF", "#0000FF",
	"#FF00FF", "#FFFF80", "#00FF80", "#80FFFF", "#8080FF", "#FF0080", "#FF8040",
}

// PaletteColumns is the number of swatches per palette row.
const PaletteColumns = 14

// Palette returns the swatch colors in display order.
func Palette() []color.NRGBA {
	out := make([]color.NRGBA, len(paletteHex))
	for i, h := range paletteHex {
		out[i] = MustParseHex(h)
	}
	return out
}

// ParseHex parses "#RRGGBB", "RRGGBB", "#RGB" or "#RRGGBBAA".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustParseHex is ParseHex for constants; it panics on bad input.
func MustParseHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#RRGGBB", adding alpha only when it is not opaque.
func Hex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Contrast returns black or white, whichever reads better on c.
func Contrast(c color.NRGBA) color.NRGBA {
	// Rec. 601 luma
	y := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	if y > 140 {
		return Black
	}
	return White
}
