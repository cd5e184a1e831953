// Package app holds the editor state shared by the canvas, panels and menus.
package app

import (
	"context"
	"errors"
	"fmt"
	goimage "image"
	"image/color"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"magic-paint/internal/ai"
	"magic-paint/internal/history"
	"magic-paint/internal/image"
	"magic-paint/internal/logger"
	"magic-paint/internal/paint"
	"magic-paint/internal/selection"
	"magic-paint/internal/tool"
	"magic-paint/pkg/geometry"
)

var (
	// ErrBusy is returned when a generation is already running.
	ErrBusy = errors.New("generation already in progress")
	// ErrNoGenerator is returned when no image generator is configured.
	ErrNoGenerator = errors.New("no image generator configured")
	// ErrNoSelection is returned when exporting a selection that is empty.
	ErrNoSelection = errors.New("nothing selected")
)

// EventType identifies different application events.
type EventType int

const (
	EventCanvasChanged EventType = iota
	EventLayersChanged
	EventToolChanged
	EventOptionsChanged
	EventZoomChanged
	EventSelectionChanged
	EventReferenceChanged
	EventModified
	EventGenerationStarted
	EventGenerationFinished
	EventGenerationFailed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// LayerInfo is a copy of a layer's metadata for display.
type LayerInfo struct {
	ID         string
	Name       string
	Visible    bool
	Background bool
	Active     bool
}

// Options configures a new State.
type Options struct {
	Width, Height  int
	History        int
	BackgroundName string
	// LayerName names the n-th layer; nil uses "Layer n".
	LayerName func(n int) string
	Generator ai.Generator
	Assistant *ai.Assistant
	Timeout   time.Duration
	// Rand drives the airbrush; nil seeds from the runtime.
	Rand *rand.Rand
}

// State holds the document and the editor settings. Every exported method is
// safe to call from any goroutine; listeners run on the caller's goroutine
// and must not call back into a method holding the lock.
type State struct {
	mu sync.RWMutex

	stack   *image.Stack
	history *history.Manager
	engine  *tool.Engine
	sel     selection.Selection

	tool tool.Tool
	opts tool.Options
	zoom float64

	reference    []byte
	useReference bool
	modified     bool

	layerName func(int) string
	generator ai.Generator
	assistant *ai.Assistant
	timeout   time.Duration

	busy atomic.Bool
	jobs sync.WaitGroup
	ctx  context.Context

	listeners map[EventType][]EventListener
}

// NewState creates a document with a white background and seeds history
// with it.
func NewState(ctx context.Context, o Options) *State {
	if o.History <= 0 {
		o.History = history.DefaultCapacity
	}
	if o.BackgroundName == "" {
		o.BackgroundName = "Background"
	}
	if o.LayerName == nil {
		o.LayerName = func(n int) string { return fmt.Sprintf("Layer %d", n) }
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s := &State{
		stack:     image.NewStack(o.Width, o.Height, o.BackgroundName),
		history:   history.New(o.History),
		engine:    tool.NewEngine(o.Rand),
		tool:      tool.Pencil,
		opts:      tool.DefaultOptions(),
		zoom:      1,
		layerName: o.LayerName,
		generator: o.Generator,
		assistant: o.Assistant,
		timeout:   o.Timeout,
		ctx:       ctx,
		listeners: make(map[EventType][]EventListener),
	}
	if err := s.history.Reset(s.stack.Layers()); err != nil {
		logger.L(ctx).Error("seed history", zap.Error(err))
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *State) log() *zap.Logger {
	return logger.L(s.ctx)
}

// Size returns the canvas dimensions.
func (s *State) Size() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stack.Size()
}

// Modified reports whether the document changed since the last save.
func (s *State) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// commitLocked records a history checkpoint. Callers hold the write lock.
func (s *State) commitLocked() {
	if err := s.history.Capture(s.stack.Layers()); err != nil {
		s.log().Error("capture history", zap.Error(err))
	}
	s.modified = true
}

// --- tool and options ---

// Tool returns the active tool.
func (s *State) Tool() tool.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool switches tools, abandoning any unfinished interaction.
func (s *State) SetTool(t tool.Tool) {
	s.mu.Lock()
	if t == s.tool {
		s.mu.Unlock()
		return
	}
	r := s.engine.SwitchTool(s.inputLocked(), t)
	s.tool = t
	s.mu.Unlock()

	s.log().Debug("switch tool", zap.Stringer("tool", t))
	s.Emit(EventToolChanged, t)
	s.emitResult(r)
}

// ToolOptions returns the colors, width, tip and text used by the tools.
func (s *State) ToolOptions() tool.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

func (s *State) updateOptions(f func(o *tool.Options)) {
	s.mu.Lock()
	f(&s.opts)
	o := s.opts
	s.mu.Unlock()
	s.Emit(EventOptionsChanged, o)
}

// SetPrimary sets the color used by the primary button.
func (s *State) SetPrimary(c color.NRGBA) {
	s.updateOptions(func(o *tool.Options) { o.Primary = c })
}

// SetSecondary sets the color used by the secondary button.
func (s *State) SetSecondary(c color.NRGBA) {
	s.updateOptions(func(o *tool.Options) { o.Secondary = c })
}

// SetLineWidth sets the base stroke width in pixels.
func (s *State) SetLineWidth(w int) {
	if w < 1 {
		w = 1
	}
	s.updateOptions(func(o *tool.Options) { o.LineWidth = w })
}

// SetTip sets the brush tip.
func (s *State) SetTip(t paint.Tip) {
	s.updateOptions(func(o *tool.Options) { o.Tip = t })
}

// SetText sets the string stamped by the text tool.
func (s *State) SetText(text string) {
	s.updateOptions(func(o *tool.Options) { o.Text = text })
}

// Zoom returns the current magnification.
func (s *State) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

// SetZoom changes the magnification. Non-positive values are ignored.
func (s *State) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	s.mu.Lock()
	changed := z != s.zoom
	s.zoom = z
	s.mu.Unlock()
	if changed {
		s.Emit(EventZoomChanged, z)
	}
}

// ZoomIn steps to the next magnification level.
func (s *State) ZoomIn() {
	s.SetZoom(geometry.NextZoom(s.Zoom()))
}

// ZoomOut steps to the previous magnification level.
func (s *State) ZoomOut() {
	s.SetZoom(geometry.PrevZoom(s.Zoom()))
}

// --- pointer input ---

// inputLocked assembles the engine input. An invisible active layer gets no
// buffer so tools ignore it.
func (s *State) inputLocked() tool.Input {
	in := tool.Input{Tool: s.tool, Options: s.opts, Selection: &s.sel, Zoom: s.zoom}
	if l := s.stack.Active(); l != nil && l.Visible {
		in.Buffer = l.Buffer
	}
	return in
}

func (s *State) apply(f func(e *tool.Engine, in tool.Input) tool.Result) tool.Result {
	s.mu.Lock()
	r := f(s.engine, s.inputLocked())
	if r.Commit {
		s.commitLocked()
	}
	if r.Pick != nil {
		if r.Pick.Primary {
			s.opts.Primary = r.Pick.Color
		} else {
			s.opts.Secondary = r.Pick.Color
		}
	}
	s.mu.Unlock()

	s.emitResult(r)
	if r.Zoom > 0 {
		s.SetZoom(r.Zoom)
	}
	return r
}

func (s *State) emitResult(r tool.Result) {
	if r.Redraw {
		s.Emit(EventCanvasChanged, nil)
	}
	if r.Selection {
		s.Emit(EventSelectionChanged, nil)
	}
	if r.Pick != nil {
		s.Emit(EventOptionsChanged, s.ToolOptions())
	}
	if r.Commit {
		s.Emit(EventModified, true)
	}
}

// PointerDown forwards a press at canvas point p.
func (s *State) PointerDown(p geometry.PointInt, b tool.Button) tool.Result {
	return s.apply(func(e *tool.Engine, in tool.Input) tool.Result { return e.PointerDown(in, p, b) })
}

// PointerMove forwards motion to canvas point p.
func (s *State) PointerMove(p geometry.PointInt) tool.Result {
	return s.apply(func(e *tool.Engine, in tool.Input) tool.Result { return e.PointerMove(in, p) })
}

// PointerUp forwards a release at canvas point p.
func (s *State) PointerUp(p geometry.PointInt) tool.Result {
	return s.apply(func(e *tool.Engine, in tool.Input) tool.Result { return e.PointerUp(in, p) })
}

// DoubleClick forwards a double click at canvas point p.
func (s *State) DoubleClick(p geometry.PointInt) tool.Result {
	return s.apply(func(e *tool.Engine, in tool.Input) tool.Result { return e.DoubleClick(in, p) })
}

// PointerLeave ends a drag that left the canvas at the last point seen.
// An open polygon stays open.
func (s *State) PointerLeave() tool.Result {
	return s.apply(func(e *tool.Engine, in tool.Input) tool.Result { return e.Release(in) })
}

// Escape abandons an unfinished polygon or drag and clears the selection.
func (s *State) Escape() {
	s.apply(func(e *tool.Engine, in tool.Input) tool.Result { return e.Escape(in) })
}

// Deselect clears the selection.
func (s *State) Deselect() {
	s.mu.Lock()
	_, had := s.sel.Rect()
	s.sel.Clear()
	s.mu.Unlock()
	if had {
		s.Emit(EventSelectionChanged, nil)
	}
}

// Selection returns the normalized selection clipped to the canvas.
func (s *State) Selection() (goimage.Rectangle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.Bounds(s.stack.Size())
}

// SelectionOverlay returns the rectangle to draw as a marquee, including a
// drag still in progress.
func (s *State) SelectionOverlay() (geometry.RectInt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.Rect()
}

// --- history and whole-layer commands ---

// Undo steps back one checkpoint. At the floor it does nothing.
func (s *State) Undo() bool {
	s.mu.Lock()
	s.engine.Abandon()
	ok, err := s.history.Undo(s.stack.Layers())
	if ok {
		s.modified = true
	}
	s.mu.Unlock()

	if err != nil {
		s.log().Error("undo", zap.Error(err))
	}
	if ok {
		s.Emit(EventCanvasChanged, nil)
	}
	return ok
}

// CanUndo reports whether an undo would change anything.
func (s *State) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Len() > 1
}

func (s *State) activeCommand(name string, f func(l *image.Layer)) {
	s.mu.Lock()
	l := s.stack.Active()
	if l == nil {
		s.mu.Unlock()
		return
	}
	s.engine.Abandon()
	f(l)
	s.commitLocked()
	s.mu.Unlock()

	s.log().Debug(name, zap.String("layer", l.ID))
	s.Emit(EventCanvasChanged, nil)
	s.Emit(EventModified, true)
}

// Clear erases the active layer. The background turns white.
func (s *State) Clear() {
	s.activeCommand("clear layer", (*image.Layer).Clear)
}

// Invert inverts the active layer's colors.
func (s *State) Invert() {
	s.activeCommand("invert layer", (*image.Layer).Invert)
}

// LoadImage scales img into the active layer.
func (s *State) LoadImage(img goimage.Image) {
	s.activeCommand("load image", func(l *image.Layer) { l.Load(img) })
}

// OpenFile decodes an image file into the active layer.
func (s *State) OpenFile(path string) error {
	img, err := image.Load(path)
	if err != nil {
		return err
	}
	s.LoadImage(img)
	s.log().Info("open image", zap.String("path", path))
	return nil
}

// --- export ---

// Composite flattens the visible layers.
func (s *State) Composite() *goimage.NRGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stack.Export()
}

// ExportSelection flattens the visible layers cropped to the selection.
func (s *State) ExportSelection() (*goimage.NRGBA, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.sel.Bounds(s.stack.Size())
	if !ok {
		return nil, false
	}
	return s.stack.ExportRect(r)
}

// AssistantImage returns the selection if there is one, else the whole
// composite.
func (s *State) AssistantImage() *goimage.NRGBA {
	if img, ok := s.ExportSelection(); ok {
		return img
	}
	return s.Composite()
}

// SaveImage writes the composite to path; the extension picks the format.
func (s *State) SaveImage(path string) error {
	if err := image.Save(path, s.Composite()); err != nil {
		return err
	}
	s.SetModified(false)
	s.log().Info("save image", zap.String("path", path))
	return nil
}

// SaveSelection writes the selected area to path.
func (s *State) SaveSelection(path string) error {
	img, ok := s.ExportSelection()
	if !ok {
		return ErrNoSelection
	}
	if err := image.Save(path, img); err != nil {
		return err
	}
	s.log().Info("save selection", zap.String("path", path), zap.Stringer("bounds", img.Bounds()))
	return nil
}

// --- layers ---

// Layers returns the layers bottom to top.
func (s *State) Layers() []LayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := s.stack.ActiveID()
	var out []LayerInfo
	for _, l := range s.stack.Layers() {
		out = append(out, LayerInfo{
			ID:         l.ID,
			Name:       l.Name,
			Visible:    l.Visible,
			Background: l.IsBackground(),
			Active:     l.ID == active,
		})
	}
	return out
}

// ActiveLayer returns the id of the layer receiving input.
func (s *State) ActiveLayer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stack.ActiveID()
}

// CanPaint reports whether the current tool would change pixels on the
// active layer. Tools that only read or navigate can always be used.
func (s *State) CanPaint() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.tool.Mutates() {
		return true
	}
	l := s.stack.Active()
	return l != nil && l.Visible
}

func (s *State) layerOp(f func() error) error {
	s.mu.Lock()
	s.engine.Abandon()
	err := f()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventCanvasChanged, nil)
	return nil
}

// AddLayer puts a new transparent layer on top and selects it.
func (s *State) AddLayer() string {
	var id string
	_ = s.layerOp(func() error {
		id = s.stack.Add(s.layerName(s.stack.Len() + 1)).ID
		return nil
	})
	s.log().Debug("add layer", zap.String("layer", id))
	return id
}

// DeleteLayer removes a layer. The background and the last layer stay.
func (s *State) DeleteLayer(id string) error {
	return s.layerOp(func() error { return s.stack.Delete(id) })
}

// SelectLayer makes id the input layer.
func (s *State) SelectLayer(id string) error {
	return s.layerOp(func() error { return s.stack.SetActive(id) })
}

// MoveLayerUp moves a layer one step toward the top.
func (s *State) MoveLayerUp(id string) bool {
	var moved bool
	_ = s.layerOp(func() error { moved = s.stack.MoveUp(id); return nil })
	return moved
}

// MoveLayerDown moves a layer one step toward the background.
func (s *State) MoveLayerDown(id string) bool {
	var moved bool
	_ = s.layerOp(func() error { moved = s.stack.MoveDown(id); return nil })
	return moved
}

// SetLayerVisible shows or hides a layer.
func (s *State) SetLayerVisible(id string, visible bool) error {
	return s.layerOp(func() error { return s.stack.SetVisible(id, visible) })
}

// RenameLayer changes a layer's display name. Blank names are ignored.
func (s *State) RenameLayer(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.layerOp(func() error { return s.stack.Rename(id, name) })
}

// --- reference image ---

// LoadReference reads a style reference for generation and enables it.
func (s *State) LoadReference(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read reference: %w", err)
	}
	if _, err := image.DecodeBytes(data); err != nil {
		return err
	}
	s.mu.Lock()
	s.reference = data
	s.useReference = true
	s.mu.Unlock()
	s.Emit(EventReferenceChanged, true)
	return nil
}

// Reference returns the reference image bytes, if any.
func (s *State) Reference() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reference
}

// UseReference reports whether generation sends the reference image.
func (s *State) UseReference() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.useReference && len(s.reference) > 0
}

// SetUseReference toggles sending the reference image.
func (s *State) SetUseReference(use bool) {
	s.mu.Lock()
	s.useReference = use
	s.mu.Unlock()
	s.Emit(EventReferenceChanged, use)
}

// ClearReference drops the reference image.
func (s *State) ClearReference() {
	s.mu.Lock()
	s.reference = nil
	s.useReference = false
	s.mu.Unlock()
	s.Emit(EventReferenceChanged, false)
}

// --- collaborators ---

// SetGenerator replaces the image generator, e.g. after the API key changes.
func (s *State) SetGenerator(g ai.Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generator = g
}

// SetAssistant replaces the assistant.
func (s *State) SetAssistant(a *ai.Assistant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistant = a
}

// Assistant returns the assistant, or nil.
func (s *State) Assistant() *ai.Assistant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assistant
}

// Busy reports whether a generation is running.
func (s *State) Busy() bool {
	return s.busy.Load()
}

// Generate sends the flattened canvas and prompt to the generator in the
// background. The result replaces the active layer and is checkpointed;
// failures emit EventGenerationFailed and leave the document untouched.
func (s *State) Generate(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ai.ErrNoPrompt
	}

	s.mu.RLock()
	gen := s.generator
	s.mu.RUnlock()
	if gen == nil {
		return ErrNoGenerator
	}
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	sketch, err := image.EncodePNG(s.Composite())
	if err != nil {
		s.busy.Store(false)
		return err
	}
	s.mu.RLock()
	req := ai.Request{Prompt: prompt, Sketch: sketch, Reference: s.reference, UseReference: s.useReference}
	timeout := s.timeout
	s.mu.RUnlock()

	s.Emit(EventGenerationStarted, prompt)
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		s.runGeneration(gen, req, timeout)
	}()
	return nil
}

func (s *State) runGeneration(gen ai.Generator, req ai.Request, timeout time.Duration) {
	ctx := s.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	log := s.log().With(zap.Bool("reference", req.UsesReference()))
	start := time.Now()

	data, err := gen.Generate(ctx, req)
	var img goimage.Image
	if err == nil {
		img, err = image.DecodeBytes(data)
	}
	if err != nil {
		log.Warn("generate image", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		s.busy.Store(false)
		s.Emit(EventGenerationFailed, err)
		return
	}

	s.LoadImage(img)
	log.Info("generate image", zap.Duration("elapsed", time.Since(start)))
	s.busy.Store(false)
	s.Emit(EventGenerationFinished, nil)
}

// Wait blocks until background generations finish.
func (s *State) Wait() {
	s.jobs.Wait()
}

// Roast asks the assistant about the selection, or the whole drawing when
// nothing is selected. It blocks; call it off the UI goroutine.
func (s *State) Roast(ctx context.Context) string {
	a := s.Assistant()
	if a == nil {
		return ""
	}
	if ctx == nil {
		ctx = s.ctx
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return a.Roast(logger.NewContext(ctx, s.log()), s.AssistantImage())
}
