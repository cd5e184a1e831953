package image

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Composite flattens layers into a single image.
type Composite struct {
	Width     int
	Height    int
	Layers    []*Layer    // bottom to top
	BackColor color.Color // nil leaves the target transparent
}

// NewComposite creates a new Composite with the specified dimensions.
func NewComposite(width, height int) *Composite {
	return &Composite{
		Width:  width,
		Height: height,
	}
}

// AddLayer adds a layer on top of the composite.
func (c *Composite) AddLayer(layer *Layer) {
	c.Layers = append(c.Layers, layer)
}

// Render draws every visible layer, bottom to top, onto a fresh image.
// Visibility is binary: hidden layers are skipped entirely.
func (c *Composite) Render() *image.NRGBA {
	result := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	if c.BackColor != nil {
		xdraw.Draw(result, result.Bounds(), &image.Uniform{C: c.BackColor}, image.Point{}, xdraw.Src)
	}

	for _, l := range c.Layers {
		if l == nil || l.Buffer == nil || !l.Visible {
			continue
		}
		src := l.Buffer.Image()
		xdraw.Draw(result, result.Bounds(), src, src.Rect.Min, xdraw.Over)
	}
	return result
}

// RenderRect renders the composite cropped to r. The crop is clipped to the
// canvas; ok is false when nothing remains.
func (c *Composite) RenderRect(r image.Rectangle) (img *image.NRGBA, ok bool) {
	r = r.Canon().Intersect(image.Rect(0, 0, c.Width, c.Height))
	if r.Empty() {
		return nil, false
	}
	full := c.Render()
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Draw(out, out.Bounds(), full, r.Min, xdraw.Src)
	return out, true
}

// Export flattens the visible layers of the stack.
func (s *Stack) Export() *image.NRGBA {
	return s.composite().Render()
}

// ExportRect flattens the visible layers and crops to r.
func (s *Stack) ExportRect(r image.Rectangle) (*image.NRGBA, bool) {
	return s.composite().RenderRect(r)
}

func (s *Stack) composite() *Composite {
	c := NewComposite(s.width, s.height)
	for _, l := range s.layers {
		c.AddLayer(l)
	}
	return c
}
