// Package canvas provides the zoomable paint surface.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"magic-paint/internal/app"
	"magic-paint/internal/tool"
	"magic-paint/pkg/geometry"
)

// PaintCanvas shows the document and turns pointer input into tool events.
type PaintCanvas struct {
	widget.BaseWidget

	state *app.State

	raster  *fynecanvas.Raster
	content *paintContent
	scroll  *container.Scroll
	backing *fynecanvas.Rectangle

	// Callbacks
	onHover func(p geometry.PointInt, inside bool)
}

// paintContent wraps the raster to receive mouse events at canvas scale.
type paintContent struct {
	widget.BaseWidget
	canvas  *PaintCanvas
	raster  *fynecanvas.Raster
	pressed bool
	button  desktop.MouseButton
}

var (
	_ desktop.Mouseable   = (*paintContent)(nil)
	_ desktop.Hoverable   = (*paintContent)(nil)
	_ desktop.Cursorable  = (*paintContent)(nil)
	_ fyne.Draggable      = (*paintContent)(nil)
	_ fyne.DoubleTappable = (*paintContent)(nil)
)

func newPaintContent(pc *PaintCanvas, raster *fynecanvas.Raster) *paintContent {
	c := &paintContent{canvas: pc, raster: raster}
	c.ExtendBaseWidget(c)
	return c
}

func (c *paintContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

func (c *paintContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

// mapper converts positions relative to this widget into canvas pixels.
func (c *paintContent) mapper() geometry.Mapper {
	return geometry.Mapper{Zoom: c.canvas.state.Zoom()}
}

func (c *paintContent) toCanvas(pos fyne.Position) geometry.PointInt {
	return c.mapper().ToCanvas(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
}

func buttonOf(b desktop.MouseButton) (tool.Button, bool) {
	switch b {
	case desktop.MouseButtonPrimary:
		return tool.ButtonPrimary, true
	case desktop.MouseButtonSecondary:
		return tool.ButtonSecondary, true
	}
	return 0, false
}

func (c *paintContent) MouseDown(ev *desktop.MouseEvent) {
	b, ok := buttonOf(ev.Button)
	if !ok {
		return
	}
	c.pressed, c.button = true, ev.Button
	c.canvas.state.PointerDown(c.toCanvas(ev.Position), b)
}

func (c *paintContent) MouseUp(ev *desktop.MouseEvent) {
	if !c.pressed {
		return
	}
	c.pressed = false
	c.canvas.state.PointerUp(c.toCanvas(ev.Position))
}

func (c *paintContent) MouseIn(ev *desktop.MouseEvent) {
	c.hover(ev.Position)
}

// MouseMoved reports hover motion and secondary-button drags. The driver
// starts drag sequences only for the primary button; that motion arrives
// through Dragged.
func (c *paintContent) MouseMoved(ev *desktop.MouseEvent) {
	p := c.hover(ev.Position)
	if !c.pressed || c.button != desktop.MouseButtonPrimary {
		c.canvas.state.PointerMove(p)
	}
}

func (c *paintContent) MouseOut() {
	if c.canvas.onHover != nil {
		c.canvas.onHover(geometry.PointInt{}, false)
	}
	if c.pressed {
		c.pressed = false
		c.canvas.state.PointerLeave()
	}
}

func (c *paintContent) hover(pos fyne.Position) geometry.PointInt {
	p := c.toCanvas(pos)
	if c.canvas.onHover != nil {
		size := c.canvas.state.Size()
		c.canvas.onHover(p, p.In(size.Width, size.Height))
	}
	return p
}

func (c *paintContent) Dragged(ev *fyne.DragEvent) {
	if c.canvas.state.Tool() == tool.Hand {
		c.canvas.pan(ev.Dragged)
		return
	}
	if c.pressed && c.button == desktop.MouseButtonPrimary {
		c.canvas.state.PointerMove(c.toCanvas(ev.Position))
	}
}

func (c *paintContent) DragEnd() {}

func (c *paintContent) DoubleTapped(ev *fyne.PointEvent) {
	c.canvas.state.DoubleClick(c.toCanvas(ev.Position))
}

func (c *paintContent) Cursor() desktop.Cursor {
	switch c.canvas.state.Tool() {
	case tool.Hand:
		return desktop.PointerCursor
	case tool.Text:
		return desktop.TextCursor
	}
	if !c.canvas.state.CanPaint() {
		return desktop.DefaultCursor
	}
	return desktop.CrosshairCursor
}

// NewPaintCanvas creates the paint surface bound to state.
func NewPaintCanvas(state *app.State) *PaintCanvas {
	pc := &PaintCanvas{state: state}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.content = newPaintContent(pc, pc.raster)

	pc.backing = fynecanvas.NewRectangle(app.WorkspaceColor())
	pc.scroll = container.NewScroll(container.NewCenter(pc.content))
	pc.scroll.Direction = container.ScrollBoth

	refresh := func(interface{}) { pc.raster.Refresh() }
	state.On(app.EventCanvasChanged, refresh)
	state.On(app.EventSelectionChanged, refresh)
	state.On(app.EventLayersChanged, refresh)
	state.On(app.EventZoomChanged, func(interface{}) { pc.updateContentSize() })

	pc.updateContentSize()
	pc.ExtendBaseWidget(pc)
	return pc
}

// OnHover sets a callback receiving the canvas position under the pointer.
func (pc *PaintCanvas) OnHover(callback func(p geometry.PointInt, inside bool)) {
	pc.onHover = callback
}

// updateContentSize sizes the raster to the canvas at the current zoom.
func (pc *PaintCanvas) updateContentSize() {
	size := pc.state.Size()
	zoom := float32(pc.state.Zoom())
	s := fyne.NewSize(float32(size.Width)*zoom, float32(size.Height)*zoom)

	pc.raster.SetMinSize(s)
	pc.raster.Resize(s)
	pc.content.Resize(s)
	pc.content.Refresh()
	pc.scroll.Refresh()
}

// pan scrolls the viewport opposite to a hand-tool drag.
func (pc *PaintCanvas) pan(d fyne.Delta) {
	pc.scroll.Offset.X -= d.DX
	pc.scroll.Offset.Y -= d.DY
	pc.scroll.Refresh()
}

func (pc *PaintCanvas) draw(w, h int) image.Image {
	ov := DefaultOverlay()
	if r, ok := pc.state.SelectionOverlay(); ok {
		ov.Selection, ov.HasSelection = r, true
	}
	return Render(pc.state.Composite(), w, h, ov)
}

// Refresh redraws the canvas.
func (pc *PaintCanvas) Refresh() {
	pc.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (pc *PaintCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(pc.backing, pc.scroll))
}
