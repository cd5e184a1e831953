package tool

import (
	"image/color"
	"math/rand/v2"

	"magic-paint/internal/fill"
	pimage "magic-paint/internal/image"
	"magic-paint/internal/paint"
	"magic-paint/internal/selection"
	"magic-paint/pkg/geometry"
)

// Input is everything a pointer event needs from the application, passed
// explicitly on every call.
type Input struct {
	Tool      Tool
	Options   Options
	Buffer    *pimage.Buffer       // active layer; nil disables input
	Selection *selection.Selection // nil disables the select tool
	Zoom      float64              // current magnification, for the magnifier
}

// Pick is a color sampled by the picker.
type Pick struct {
	Color   color.NRGBA
	Primary bool
}

// Result tells the caller what an event did.
type Result struct {
	Commit    bool    // pixels changed and a history checkpoint is due
	Redraw    bool    // the canvas or the selection overlay changed
	Pick      *Pick   // picker sampled a color
	Zoom      float64 // non-zero: new magnification
	Selection bool    // selection rectangle changed
}

// session is the state of one interaction. It lives from pointer-down to
// pointer-up, or across several clicks for the polygon tool.
type session struct {
	buf      *pimage.Buffer
	tool     Tool
	button   Button
	pressed  bool
	start    geometry.PointInt
	last     geometry.PointInt
	snapshot []byte              // buffer before the current preview
	baseline []byte              // polygon: buffer before the first vertex
	vertices []geometry.PointInt // polygon: committed vertices
}

// Engine is the tool state machine. It holds only the in-flight session;
// tools, colors and buffers arrive with each event.
type Engine struct {
	s         session
	rng       *rand.Rand
	SprayDots int // dots per airbrush event
}

// NewEngine creates an engine. rng drives the airbrush; nil seeds one from
// the runtime.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{rng: rng, SprayDots: DefaultSprayDots}
}

// Collecting reports whether a polygon is being built.
func (e *Engine) Collecting() bool {
	return e.s.tool == Polygon && e.s.baseline != nil
}

// Pressed reports whether a drag is in progress.
func (e *Engine) Pressed() bool {
	return e.s.pressed
}

// sync abandons a session that belongs to another buffer or tool, so an
// unfinished polygon or drag leaves its own buffer as it found it.
func (e *Engine) sync(in Input) {
	if e.s.tool != in.Tool || (e.s.buf != nil && e.s.buf != in.Buffer) {
		e.Abandon()
	}
}

func (e *Engine) restore(data []byte) {
	if data != nil {
		_ = e.s.buf.Overwrite(data)
	}
}

// PointerDown starts an interaction at canvas point p.
func (e *Engine) PointerDown(in Input, p geometry.PointInt, b Button) Result {
	e.sync(in)

	switch in.Tool {
	case Magnifier:
		if b == ButtonSecondary {
			return Result{Zoom: geometry.PrevZoom(in.Zoom)}
		}
		return Result{Zoom: geometry.NextZoom(in.Zoom)}
	case Hand:
		return Result{}
	case Select:
		if in.Selection == nil {
			return Result{}
		}
		in.Selection.Start(p)
		e.s = session{tool: Select, button: b, pressed: true, start: p, last: p}
		return Result{Redraw: true, Selection: true}
	}

	buf := in.Buffer
	if buf == nil {
		return Result{}
	}

	switch in.Tool {
	case Picker:
		c, err := buf.At(p.X, p.Y)
		if err != nil {
			return Result{}
		}
		return Result{Pick: &Pick{Color: c, Primary: b == ButtonPrimary}}

	case Fill:
		n, err := fill.Flood(buf, p.X, p.Y, in.Options.Color(Fill, b))
		if err != nil || n == 0 {
			return Result{}
		}
		return Result{Commit: true, Redraw: true}

	case Text:
		if in.Options.Text == "" {
			return Result{}
		}
		r := paint.Text(buf, p, in.Options.Text, in.Options.Color(Text, b))
		return Result{Commit: !r.Empty(), Redraw: true}

	case Polygon:
		return e.polygonDown(in, p, b)
	}

	e.s = session{buf: buf, tool: in.Tool, button: b, pressed: true, start: p, last: p, snapshot: buf.Pixels()}
	switch {
	case in.Tool.Shape():
		return Result{}
	case in.Tool == Airbrush:
		paint.Spray(buf, p, in.Options.SprayRadius(), e.SprayDots, e.rng, in.Options.Color(Airbrush, b))
	default:
		paint.Stamp(buf, p, in.Options.Kernel(in.Tool), in.Options.Color(in.Tool, b))
	}
	return Result{Redraw: true}
}

// PointerMove handles motion, pressed or not. Only the polygon tool reacts
// to unpressed motion.
func (e *Engine) PointerMove(in Input, p geometry.PointInt) Result {
	e.sync(in)

	if in.Tool == Select {
		if !e.s.pressed || in.Selection == nil {
			return Result{}
		}
		in.Selection.Update(p)
		e.s.last = p
		return Result{Redraw: true, Selection: true}
	}
	if in.Buffer == nil {
		return Result{}
	}

	if in.Tool == Polygon {
		return e.polygonMove(in, p)
	}
	if !e.s.pressed {
		return Result{}
	}

	col := in.Options.Color(in.Tool, e.s.button)
	switch {
	case in.Tool.Shape():
		e.restore(e.s.snapshot)
		drawShape(in.Buffer, in.Tool, e.s.start, p, in.Options.width(), col)
	case in.Tool == Airbrush:
		paint.Spray(in.Buffer, p, in.Options.SprayRadius(), e.SprayDots, e.rng, col)
	case in.Tool.Freehand():
		paint.Stroke(in.Buffer, e.s.last, p, in.Options.Kernel(in.Tool), col)
	default:
		return Result{}
	}
	e.s.last = p
	return Result{Redraw: true}
}

// PointerUp finishes a drag. Freehand strokes and shapes commit here.
func (e *Engine) PointerUp(in Input, p geometry.PointInt) Result {
	e.sync(in)

	if in.Tool == Select {
		if !e.s.pressed || in.Selection == nil {
			return Result{}
		}
		in.Selection.Update(p)
		in.Selection.Freeze()
		e.s = session{}
		return Result{Redraw: true, Selection: true}
	}
	if in.Tool == Polygon {
		return e.polygonUp(in, p)
	}
	if !e.s.pressed || in.Buffer == nil {
		return Result{}
	}

	if in.Tool.Shape() {
		e.restore(e.s.snapshot)
		drawShape(in.Buffer, in.Tool, e.s.start, p, in.Options.width(), in.Options.Color(in.Tool, e.s.button))
	}
	e.s = session{}
	return Result{Commit: true, Redraw: true}
}

// Release ends a drag at the last point seen, as when the pointer leaves
// the canvas mid-stroke.
func (e *Engine) Release(in Input) Result {
	if !e.s.pressed || in.Tool == Polygon {
		return Result{}
	}
	return e.PointerUp(in, e.s.last)
}

// DoubleClick closes an open polygon back to its first vertex.
func (e *Engine) DoubleClick(in Input, _ geometry.PointInt) Result {
	e.sync(in)
	if in.Tool != Polygon || in.Buffer == nil || len(e.s.vertices) < 2 {
		return Result{}
	}
	e.restore(e.s.snapshot)
	first, last := e.s.vertices[0], e.s.vertices[len(e.s.vertices)-1]
	paint.Line(in.Buffer, last, first, in.Options.width(), in.Options.Color(Polygon, e.s.button))
	e.s = session{}
	return Result{Commit: true, Redraw: true}
}

// Abandon cancels any interaction without committing. An unfinished polygon
// is erased by restoring the buffer from before its first vertex.
func (e *Engine) Abandon() Result {
	var r Result
	switch {
	case e.s.baseline != nil:
		e.restore(e.s.baseline)
		r.Redraw = true
	case e.s.snapshot != nil && e.s.pressed:
		e.restore(e.s.snapshot)
		r.Redraw = true
	}
	e.s = session{}
	return r
}

// SwitchTool abandons the current interaction and clears the selection when
// leaving the select tool.
func (e *Engine) SwitchTool(in Input, next Tool) Result {
	if next == in.Tool {
		return Result{}
	}
	r := e.Abandon()
	if in.Tool == Select && in.Selection != nil {
		if _, ok := in.Selection.Rect(); ok || in.Selection.Dragging() {
			r.Redraw, r.Selection = true, true
		}
		in.Selection.Clear()
	}
	return r
}

// Escape abandons an unfinished polygon or drag and clears the selection.
func (e *Engine) Escape(in Input) Result {
	r := e.Abandon()
	if in.Selection != nil {
		if _, ok := in.Selection.Rect(); ok {
			r.Redraw, r.Selection = true, true
		}
		in.Selection.Clear()
	}
	return r
}

func (e *Engine) polygonDown(in Input, p geometry.PointInt, b Button) Result {
	if len(e.s.vertices) == 0 {
		snap := in.Buffer.Pixels()
		e.s = session{
			buf: in.Buffer, tool: Polygon, button: b, pressed: true,
			start: p, last: p, snapshot: snap, baseline: snap,
		}
		return Result{}
	}

	e.restore(e.s.snapshot)
	prev := e.s.vertices[len(e.s.vertices)-1]
	paint.Line(in.Buffer, prev, p, in.Options.width(), in.Options.Color(Polygon, b))
	e.s.vertices = append(e.s.vertices, p)
	e.s.snapshot = in.Buffer.Pixels()
	e.s.button = b
	e.s.last = p
	return Result{Redraw: true}
}

func (e *Engine) polygonMove(in Input, p geometry.PointInt) Result {
	if e.s.baseline == nil {
		return Result{}
	}
	from := e.s.start
	if n := len(e.s.vertices); n > 0 {
		from = e.s.vertices[n-1]
	} else if !e.s.pressed {
		return Result{}
	}
	e.restore(e.s.snapshot)
	paint.Line(in.Buffer, from, p, in.Options.width(), in.Options.Color(Polygon, e.s.button))
	e.s.last = p
	return Result{Redraw: true}
}

// polygonUp ends the first press: the dragged edge becomes the first two
// vertices, or a bare click becomes the first vertex.
func (e *Engine) polygonUp(in Input, p geometry.PointInt) Result {
	if !e.s.pressed || in.Buffer == nil {
		return Result{}
	}
	e.s.pressed = false
	if len(e.s.vertices) > 0 {
		return Result{}
	}

	e.restore(e.s.snapshot)
	e.s.vertices = []geometry.PointInt{e.s.start}
	if p != e.s.start {
		paint.Line(in.Buffer, e.s.start, p, in.Options.width(), in.Options.Color(Polygon, e.s.button))
		e.s.vertices = append(e.s.vertices, p)
	}
	e.s.snapshot = in.Buffer.Pixels()
	e.s.last = p
	return Result{Redraw: true}
}

func drawShape(buf *pimage.Buffer, t Tool, a, b geometry.PointInt, width int, col color.NRGBA) {
	switch t {
	case Line:
		paint.Line(buf, a, b, width, col)
	case Rectangle:
		paint.Rect(buf, a, b, width, col)
	case Ellipse:
		paint.Ellipse(buf, a, b, width, col)
	case RoundedRect:
		paint.RoundedRect(buf, a, b, paint.DefaultCornerRadius, width, col)
	}
}
