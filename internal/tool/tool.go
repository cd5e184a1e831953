// Package tool interprets pointer input into pixel buffer edits.
package tool

import (
	"fmt"
	"image/color"
	"strings"

	pimage "magic-paint/internal/image"
	"magic-paint/internal/paint"
)

// Tool identifies the active drawing tool.
type Tool int

const (
	Pencil Tool = iota
	Pen
	Brush
	Eraser
	Airbrush
	Fill
	Picker
	Magnifier
	Line
	Rectangle
	Ellipse
	RoundedRect
	Polygon
	Text
	Select
	Hand
)

var toolNames = [...]string{
	Pencil:      "pencil",
	Pen:         "pen",
	Brush:       "brush",
	Eraser:      "eraser",
	Airbrush:    "airbrush",
	Fill:        "fill",
	Picker:      "picker",
	Magnifier:   "magnifier",
	Line:        "line",
	Rectangle:   "rectangle",
	Ellipse:     "ellipse",
	RoundedRect: "rounded-rectangle",
	Polygon:     "polygon",
	Text:        "text",
	Select:      "select",
	Hand:        "hand",
}

// All returns every tool in toolbar order.
func All() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range toolNames {
		out[i] = Tool(i)
	}
	return out
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Parse returns the tool named s.
func Parse(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return Pencil, fmt.Errorf("unknown tool %q", s)
}

// Freehand reports whether the tool paints along the pointer path.
func (t Tool) Freehand() bool {
	switch t {
	case Pencil, Pen, Brush, Eraser, Airbrush:
		return true
	}
	return false
}

// Shape reports whether the tool drags out a previewed shape.
func (t Tool) Shape() bool {
	switch t {
	case Line, Rectangle, Ellipse, RoundedRect:
		return true
	}
	return false
}

// Mutates reports whether the tool can change pixels.
func (t Tool) Mutates() bool {
	return t.Freehand() || t.Shape() || t == Fill || t == Polygon || t == Text
}

// Button is the pointer button that started an interaction.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Default option values.
const (
	DefaultLineWidth = 1
	DefaultSprayDots = 12
)

// LineWidths are the widths offered by the tool options box.
var LineWidths = []int{1, 2, 4, 6, 8}

// Options are the user-adjustable tool settings.
type Options struct {
	Primary   color.NRGBA
	Secondary color.NRGBA
	LineWidth int
	Tip       paint.Tip
	Text      string // stamped by the text tool
}

// DefaultOptions returns black on white, width 1, medium round tip.
func DefaultOptions() Options {
	return Options{
		Primary:   color.NRGBA{A: 255},
		Secondary: pimage.White,
		LineWidth: DefaultLineWidth,
		Tip:       paint.DefaultTip,
	}
}

func (o Options) width() int {
	return max(o.LineWidth, 1)
}

// Color returns the stroke color for tool t pressed with button b.
// The eraser always paints the background color.
func (o Options) Color(t Tool, b Button) color.NRGBA {
	switch {
	case t == Eraser:
		return pimage.White
	case b == ButtonSecondary:
		return o.Secondary
	default:
		return o.Primary
	}
}

// Kernel returns the stamp footprint of a freehand tool.
// Pencil and eraser use the line width, pen doubles it and the brush scales
// it by the tip size.
func (o Options) Kernel(t Tool) paint.Kernel {
	w := o.width()
	switch t {
	case Pen:
		return paint.RoundKernel(w * 2)
	case Brush:
		return paint.TipKernel(o.Tip.Shape, w*o.Tip.Scale())
	default:
		return paint.RoundKernel(w)
	}
}

// SprayRadius is the airbrush radius for the current line width.
func (o Options) SprayRadius() int {
	return 4 * o.width()
}
