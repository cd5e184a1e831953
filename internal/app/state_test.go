package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magic-paint/internal/ai"
	pimage "magic-paint/internal/image"
	"magic-paint/internal/tool"
	"magic-paint/pkg/geometry"
)

var (
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func newState(t *testing.T, o Options) *State {
	t.Helper()
	if o.Width == 0 {
		o.Width, o.Height = 20, 10
	}
	o.Rand = rand.New(rand.NewPCG(7, 7))
	return NewState(context.Background(), o)
}

func redPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}
	data, err := pimage.EncodePNG(img)
	require.NoError(t, err)
	return data
}

type fakeGenerator struct {
	mu      sync.Mutex
	data    []byte
	err     error
	release chan struct{}
	reqs    []ai.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req ai.Request) ([]byte, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.data, f.err
}

func (f *fakeGenerator) requests() []ai.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ai.Request(nil), f.reqs...)
}

func TestNewStateSeedsHistory(t *testing.T) {
	s := newState(t, Options{})
	assert.Equal(t, geometry.NewSize(20, 10), s.Size())
	require.Len(t, s.Layers(), 1)
	assert.True(t, s.Layers()[0].Background)
	assert.False(t, s.CanUndo())
	assert.False(t, s.Undo(), "undo at the floor is a no-op")
	assert.Equal(t, pimage.White, s.Composite().NRGBAAt(0, 0))
}

func TestDrawCommitAndUndo(t *testing.T) {
	s := newState(t, Options{})
	var redraws int
	s.On(EventCanvasChanged, func(interface{}) { redraws++ })

	s.PointerDown(geometry.Pt(2, 2), tool.ButtonPrimary)
	s.PointerMove(geometry.Pt(8, 2))
	r := s.PointerUp(geometry.Pt(8, 2))
	assert.True(t, r.Commit)
	assert.Positive(t, redraws)
	assert.True(t, s.Modified())

	assert.Equal(t, black, s.Composite().NRGBAAt(5, 2))
	require.True(t, s.CanUndo())

	assert.True(t, s.Undo())
	assert.Equal(t, pimage.White, s.Composite().NRGBAAt(5, 2))
	assert.False(t, s.CanUndo())
}

func TestPointerLeaveCommitsStroke(t *testing.T) {
	s := newState(t, Options{})
	s.PointerDown(geometry.Pt(1, 1), tool.ButtonPrimary)
	s.PointerMove(geometry.Pt(4, 1))
	r := s.PointerLeave()
	assert.True(t, r.Commit)
	assert.True(t, s.CanUndo())
	assert.Equal(t, black, s.Composite().NRGBAAt(3, 1))
}

func TestInvisibleLayerIgnoresInput(t *testing.T) {
	s := newState(t, Options{})
	id := s.AddLayer()
	require.NoError(t, s.SetLayerVisible(id, false))

	r := s.PointerDown(geometry.Pt(2, 2), tool.ButtonPrimary)
	assert.False(t, r.Redraw)
	s.PointerUp(geometry.Pt(2, 2))
	assert.False(t, s.CanUndo())
}

func TestCanPaintFollowsLayerVisibility(t *testing.T) {
	s := newState(t, Options{})
	assert.True(t, s.CanPaint())

	id := s.AddLayer()
	require.NoError(t, s.SetLayerVisible(id, false))
	assert.False(t, s.CanPaint(), "pencil on a hidden layer")

	s.SetTool(tool.Hand)
	assert.True(t, s.CanPaint(), "navigation tools work on hidden layers")
	s.SetTool(tool.Fill)
	assert.False(t, s.CanPaint())

	require.NoError(t, s.SetLayerVisible(id, true))
	assert.True(t, s.CanPaint())
}

func TestPickerAndMagnifier(t *testing.T) {
	s := newState(t, Options{})
	s.SetTool(tool.Fill)
	s.SetPrimary(red)
	s.PointerDown(geometry.Pt(0, 0), tool.ButtonPrimary)

	s.SetPrimary(black)
	s.SetTool(tool.Picker)
	var picked []tool.Options
	s.On(EventOptionsChanged, func(d interface{}) { picked = append(picked, d.(tool.Options)) })
	s.PointerDown(geometry.Pt(5, 5), tool.ButtonSecondary)
	assert.Equal(t, red, s.ToolOptions().Secondary)
	assert.Equal(t, black, s.ToolOptions().Primary)
	require.NotEmpty(t, picked)

	s.SetTool(tool.Magnifier)
	s.PointerDown(geometry.Pt(0, 0), tool.ButtonPrimary)
	assert.Equal(t, 2.0, s.Zoom())
	s.PointerDown(geometry.Pt(0, 0), tool.ButtonSecondary)
	assert.Equal(t, 1.0, s.Zoom())
	s.ZoomIn()
	s.ZoomIn()
	assert.Equal(t, 6.0, s.Zoom())
	s.ZoomOut()
	assert.Equal(t, 2.0, s.Zoom())
}

func TestSelectionLifecycle(t *testing.T) {
	s := newState(t, Options{})
	s.SetTool(tool.Select)
	s.PointerDown(geometry.Pt(10, 8), tool.ButtonPrimary)
	s.PointerMove(geometry.Pt(4, 2))
	s.PointerUp(geometry.Pt(4, 2))

	r, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, image.Rect(4, 2, 10, 8), r)

	img, ok := s.ExportSelection()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 6, 6), img.Bounds())
	assert.Equal(t, img.Bounds(), s.AssistantImage().Bounds())

	s.SetTool(tool.Pencil)
	_, ok = s.Selection()
	assert.False(t, ok, "leaving the select tool clears the selection")
	assert.Equal(t, image.Rect(0, 0, 20, 10), s.AssistantImage().Bounds())

	s.SetTool(tool.Select)
	s.PointerDown(geometry.Pt(1, 1), tool.ButtonPrimary)
	s.PointerUp(geometry.Pt(3, 3))
	s.Deselect()
	_, ok = s.Selection()
	assert.False(t, ok)
	assert.ErrorIs(t, s.SaveSelection(filepath.Join(t.TempDir(), "x.png")), ErrNoSelection)
}

func TestEscapeAbandonsPolygon(t *testing.T) {
	s := newState(t, Options{})
	s.SetTool(tool.Polygon)
	s.PointerDown(geometry.Pt(1, 1), tool.ButtonPrimary)
	s.PointerUp(geometry.Pt(1, 1))
	s.PointerDown(geometry.Pt(15, 1), tool.ButtonPrimary)
	s.PointerUp(geometry.Pt(15, 1))
	assert.Equal(t, black, s.Composite().NRGBAAt(8, 1))

	s.Escape()
	assert.Equal(t, pimage.White, s.Composite().NRGBAAt(8, 1))
	assert.False(t, s.CanUndo())
}

func TestClearAndInvert(t *testing.T) {
	s := newState(t, Options{})
	s.Invert()
	assert.Equal(t, black, s.Composite().NRGBAAt(0, 0))
	s.Clear()
	assert.Equal(t, pimage.White, s.Composite().NRGBAAt(0, 0))
	assert.True(t, s.Undo())
	assert.Equal(t, black, s.Composite().NRGBAAt(0, 0))
}

func TestLayers(t *testing.T) {
	s := newState(t, Options{LayerName: func(n int) string { return "Calque " + string(rune('0'+n)) }})
	var changes int
	s.On(EventLayersChanged, func(interface{}) { changes++ })

	a := s.AddLayer()
	b := s.AddLayer()
	layers := s.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, "Calque 2", layers[1].Name)
	assert.Equal(t, "Calque 3", layers[2].Name)
	assert.True(t, layers[2].Active)
	assert.Equal(t, 2, changes)

	assert.True(t, s.MoveLayerDown(b))
	assert.False(t, s.MoveLayerDown(b), "nothing moves below the background")
	assert.Equal(t, b, s.Layers()[1].ID)
	assert.True(t, s.MoveLayerUp(b))

	require.NoError(t, s.RenameLayer(a, "  Ink "))
	assert.Equal(t, "Ink", s.Layers()[1].Name)
	require.NoError(t, s.RenameLayer(a, " "))
	assert.Equal(t, "Ink", s.Layers()[1].Name)

	require.NoError(t, s.SelectLayer(a))
	assert.Equal(t, a, s.ActiveLayer())
	require.NoError(t, s.DeleteLayer(a))
	assert.Equal(t, b, s.ActiveLayer())
	assert.ErrorIs(t, s.DeleteLayer(pimage.BackgroundID), pimage.ErrBackgroundLocked)
	assert.ErrorIs(t, s.SelectLayer("gone"), pimage.ErrNoLayer)
}

func TestGenerateAppliesResult(t *testing.T) {
	gen := &fakeGenerator{data: redPNG(t, 4, 4)}
	s := newState(t, Options{Generator: gen})
	finished := make(chan struct{}, 1)
	s.On(EventGenerationFinished, func(interface{}) { finished <- struct{}{} })

	require.NoError(t, s.Generate("  a red square "))
	s.Wait()
	<-finished

	assert.False(t, s.Busy())
	assert.Equal(t, red, s.Composite().NRGBAAt(19, 9))
	assert.True(t, s.CanUndo(), "the result is checkpointed")

	reqs := gen.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "a red square", reqs[0].Prompt)
	sketch, err := pimage.DecodeBytes(reqs[0].Sketch)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), sketch.Bounds())
	assert.False(t, reqs[0].UsesReference())
}

func TestGenerateBusy(t *testing.T) {
	gen := &fakeGenerator{data: redPNG(t, 2, 2), release: make(chan struct{})}
	s := newState(t, Options{Generator: gen})

	require.NoError(t, s.Generate("one"))
	assert.True(t, s.Busy())
	assert.ErrorIs(t, s.Generate("two"), ErrBusy)

	s.PointerDown(geometry.Pt(1, 1), tool.ButtonPrimary)
	r := s.PointerUp(geometry.Pt(1, 1))
	assert.True(t, r.Commit, "drawing is not blocked while generating")

	close(gen.release)
	s.Wait()
	assert.False(t, s.Busy())
	assert.Len(t, gen.requests(), 1)
}

func TestGenerateFailureLeavesCanvas(t *testing.T) {
	boom := errors.New("boom")
	gen := &fakeGenerator{err: boom}
	s := newState(t, Options{Generator: gen})
	failed := make(chan error, 1)
	s.On(EventGenerationFailed, func(d interface{}) { failed <- d.(error) })

	require.NoError(t, s.Generate("x"))
	s.Wait()
	assert.ErrorIs(t, <-failed, boom)
	assert.False(t, s.CanUndo())
	assert.Equal(t, pimage.White, s.Composite().NRGBAAt(0, 0))

	gen.err, gen.data = nil, []byte("not an image")
	require.NoError(t, s.Generate("x"))
	s.Wait()
	assert.Error(t, <-failed)
}

func TestGenerateRejects(t *testing.T) {
	s := newState(t, Options{})
	assert.ErrorIs(t, s.Generate("x"), ErrNoGenerator)
	s.SetGenerator(&fakeGenerator{})
	assert.ErrorIs(t, s.Generate("   "), ai.ErrNoPrompt)
	assert.False(t, s.Busy())
}

func TestReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.png")
	require.NoError(t, os.WriteFile(path, redPNG(t, 3, 3), 0o644))
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))

	gen := &fakeGenerator{data: redPNG(t, 2, 2)}
	s := newState(t, Options{Generator: gen})
	assert.Error(t, s.LoadReference(bad))
	assert.False(t, s.UseReference())

	require.NoError(t, s.LoadReference(path))
	assert.True(t, s.UseReference())
	require.NoError(t, s.Generate("x"))
	s.Wait()

	s.SetUseReference(false)
	require.NoError(t, s.Generate("y"))
	s.Wait()

	reqs := gen.requests()
	require.Len(t, reqs, 2)
	assert.True(t, reqs[0].UsesReference())
	assert.False(t, reqs[1].UsesReference())

	s.ClearReference()
	assert.Nil(t, s.Reference())
}

type recordingCommentator struct {
	got []byte
}

func (r *recordingCommentator) Comment(_ context.Context, data []byte, _, _ string) (string, error) {
	r.got = data
	return "nice potato", nil
}

func TestRoastPrefersSelection(t *testing.T) {
	c := &recordingCommentator{}
	s := newState(t, Options{Assistant: ai.NewAssistant(c, ai.Script{}, nil)})

	assert.Equal(t, "nice potato", s.Roast(context.Background()))
	img, err := pimage.DecodeBytes(c.got)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())

	s.SetTool(tool.Select)
	s.PointerDown(geometry.Pt(2, 2), tool.ButtonPrimary)
	s.PointerUp(geometry.Pt(5, 7))
	s.Roast(context.Background())
	img, err = pimage.DecodeBytes(c.got)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 5), img.Bounds())

	assert.Empty(t, newState(t, Options{}).Roast(context.Background()))
}

func TestSaveAndOpen(t *testing.T) {
	s := newState(t, Options{})
	s.Invert()
	path := filepath.Join(t.TempDir(), "drawing.bmp")
	require.NoError(t, s.SaveImage(path))
	assert.False(t, s.Modified())

	other := newState(t, Options{Width: 40, Height: 20})
	require.NoError(t, other.OpenFile(path))
	assert.Equal(t, black, other.Composite().NRGBAAt(39, 19))
	assert.True(t, other.CanUndo())

	assert.Error(t, other.OpenFile(filepath.Join(t.TempDir(), "missing.png")))
}
