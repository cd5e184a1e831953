package canvas

import (
	"context"
	"image/color"
	"math/rand/v2"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magic-paint/internal/app"
	pimage "magic-paint/internal/image"
	"magic-paint/internal/tool"
	"magic-paint/pkg/geometry"
)

var (
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func newTestCanvas(t *testing.T) (*PaintCanvas, *app.State) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	state := app.NewState(context.Background(), app.Options{
		Width: 40, Height: 20,
		Rand: rand.New(rand.NewPCG(3, 3)),
	})
	state.SetSecondary(red)
	return NewPaintCanvas(state), state
}

func mouse(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: b}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Dragged: fyne.NewDelta(1, 0)}
}

func at(state *app.State, x, y int) color.NRGBA {
	return state.Composite().NRGBAAt(x, y)
}

func TestPrimaryDragStrokes(t *testing.T) {
	pc, state := newTestCanvas(t)
	c := pc.content

	c.MouseDown(mouse(2, 5, desktop.MouseButtonPrimary))
	c.Dragged(drag(20, 5))
	c.MouseMoved(mouse(20, 5, desktop.MouseButtonPrimary))
	c.Dragged(drag(35, 5))
	c.MouseUp(mouse(35, 5, desktop.MouseButtonPrimary))

	for _, x := range []int{2, 10, 20, 30, 35} {
		assert.Equal(t, black, at(state, x, 5), "x=%d", x)
	}
	assert.True(t, state.CanUndo())
}

func TestSecondaryDragStrokesThroughMouseMoved(t *testing.T) {
	pc, state := newTestCanvas(t)
	c := pc.content

	c.MouseDown(mouse(2, 5, desktop.MouseButtonSecondary))
	c.MouseMoved(mouse(20, 5, desktop.MouseButtonSecondary))
	c.MouseMoved(mouse(35, 5, desktop.MouseButtonSecondary))
	c.MouseUp(mouse(35, 5, desktop.MouseButtonSecondary))

	for _, x := range []int{2, 10, 20, 30, 35} {
		assert.Equal(t, red, at(state, x, 5), "x=%d", x)
	}
	assert.True(t, state.CanUndo())
}

func TestSecondaryDragPreviewsShape(t *testing.T) {
	pc, state := newTestCanvas(t)
	state.SetTool(tool.Rectangle)
	c := pc.content

	c.MouseDown(mouse(5, 5, desktop.MouseButtonSecondary))
	c.MouseMoved(mouse(25, 15, desktop.MouseButtonSecondary))
	assert.Equal(t, red, at(state, 15, 5), "preview drawn before release")
	assert.False(t, state.CanUndo())

	c.MouseUp(mouse(25, 15, desktop.MouseButtonSecondary))
	assert.Equal(t, red, at(state, 15, 15))
	assert.True(t, state.CanUndo())
}

func TestHoverDoesNotPaint(t *testing.T) {
	pc, state := newTestCanvas(t)
	var inside []bool
	pc.OnHover(func(_ geometry.PointInt, in bool) { inside = append(inside, in) })

	pc.content.MouseIn(mouse(3, 3, desktop.MouseButtonPrimary))
	pc.content.MouseMoved(mouse(10, 3, desktop.MouseButtonPrimary))
	pc.content.MouseOut()

	assert.Equal(t, pimage.White, at(state, 10, 3))
	assert.False(t, state.CanUndo())
	assert.Equal(t, []bool{true, true, false}, inside)
}

func TestPointerLeaveCommitsStroke(t *testing.T) {
	pc, state := newTestCanvas(t)
	c := pc.content

	c.MouseDown(mouse(2, 5, desktop.MouseButtonPrimary))
	c.Dragged(drag(15, 5))
	c.MouseOut()

	assert.True(t, state.CanUndo(), "leaving the canvas finishes the stroke")
	assert.Equal(t, black, at(state, 10, 5))

	c.MouseUp(mouse(15, 5, desktop.MouseButtonPrimary))
	require.True(t, state.Undo())
	assert.False(t, state.CanUndo(), "the release after leaving adds nothing")
	assert.Equal(t, pimage.White, at(state, 10, 5))
}

func TestDoubleTapClosesPolygon(t *testing.T) {
	pc, state := newTestCanvas(t)
	state.SetTool(tool.Polygon)
	c := pc.content

	c.MouseDown(mouse(5, 5, desktop.MouseButtonPrimary))
	c.Dragged(drag(15, 15))
	c.MouseUp(mouse(15, 15, desktop.MouseButtonPrimary))
	c.MouseDown(mouse(30, 5, desktop.MouseButtonPrimary))
	c.MouseUp(mouse(30, 5, desktop.MouseButtonPrimary))

	assert.Equal(t, pimage.White, at(state, 20, 5), "closing edge not drawn yet")
	assert.False(t, state.CanUndo())

	c.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(30, 5)})
	assert.Equal(t, black, at(state, 20, 5))
	assert.True(t, state.CanUndo())
}
