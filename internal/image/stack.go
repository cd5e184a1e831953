package image

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"magic-paint/pkg/geometry"
)

var (
	// ErrLastLayer is returned when deleting the only remaining layer.
	ErrLastLayer = errors.New("cannot delete the last layer")
	// ErrBackgroundLocked is returned when deleting the background layer.
	ErrBackgroundLocked = errors.New("background layer cannot be removed")
	// ErrNoLayer is returned for an unknown layer id.
	ErrNoLayer = errors.New("no such layer")
)

// Stack is the ordered set of layers making up a canvas.
// Index 0 is the background; the last layer is drawn on top.
type Stack struct {
	width, height int
	layers        []*Layer
	activeID      string

	// NewID generates ids for added layers. Defaults to UUIDv7, which is
	// time-ordered and therefore never reused.
	NewID func() string
}

// NewStack creates a canvas holding only the background layer.
func NewStack(width, height int, backgroundName string) *Stack {
	bg := NewBackgroundLayer(backgroundName, width, height)
	return &Stack{
		width:    width,
		height:   height,
		layers:   []*Layer{bg},
		activeID: bg.ID,
		NewID:    newLayerID,
	}
}

func newLayerID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Size returns the canvas dimensions shared by every layer.
func (s *Stack) Size() geometry.Size {
	return geometry.NewSize(s.width, s.height)
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Layers returns the layers bottom to top. The slice is a copy; the layers are not.
func (s *Stack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Index returns the stack position of id, or -1.
func (s *Stack) Index(id string) int {
	for i, l := range s.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Layer looks up a layer by id.
func (s *Stack) Layer(id string) (*Layer, bool) {
	if i := s.Index(id); i >= 0 {
		return s.layers[i], true
	}
	return nil, false
}

// ActiveID returns the id of the layer receiving input.
func (s *Stack) ActiveID() string {
	return s.activeID
}

// Active returns the layer receiving input.
func (s *Stack) Active() *Layer {
	l, _ := s.Layer(s.activeID)
	return l
}

// SetActive makes id the input layer.
func (s *Stack) SetActive(id string) error {
	if s.Index(id) < 0 {
		return fmt.Errorf("select %q: %w", id, ErrNoLayer)
	}
	s.activeID = id
	return nil
}

// Add appends a transparent layer on top and makes it active.
// An empty name becomes "Layer N".
func (s *Stack) Add(name string) *Layer {
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(s.layers)+1)
	}
	l := NewLayer(s.NewID(), name, s.width, s.height)
	s.layers = append(s.layers, l)
	s.activeID = l.ID
	return l
}

// Delete removes a layer. The last remaining layer and the background are
// protected. Deleting the active layer selects the topmost remaining one.
func (s *Stack) Delete(id string) error {
	i := s.Index(id)
	if i < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrNoLayer)
	}
	if len(s.layers) <= 1 {
		return ErrLastLayer
	}
	if s.layers[i].IsBackground() {
		return ErrBackgroundLocked
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.activeID == id {
		s.activeID = s.layers[len(s.layers)-1].ID
	}
	return nil
}

// MoveUp swaps a layer with the one above it. It reports whether anything moved.
func (s *Stack) MoveUp(id string) bool {
	i := s.Index(id)
	if i < 0 || i >= len(s.layers)-1 || s.layers[i].IsBackground() {
		return false
	}
	s.layers[i], s.layers[i+1] = s.layers[i+1], s.layers[i]
	return true
}

// MoveDown swaps a layer with the one below it. Nothing moves below the background.
func (s *Stack) MoveDown(id string) bool {
	i := s.Index(id)
	if i <= 1 {
		return false
	}
	s.layers[i], s.layers[i-1] = s.layers[i-1], s.layers[i]
	return true
}

// SetVisible shows or hides a layer.
func (s *Stack) SetVisible(id string, visible bool) error {
	l, ok := s.Layer(id)
	if !ok {
		return fmt.Errorf("visibility %q: %w", id, ErrNoLayer)
	}
	l.Visible = visible
	return nil
}

// Rename changes a layer's display name.
func (s *Stack) Rename(id, name string) error {
	l, ok := s.Layer(id)
	if !ok {
		return fmt.Errorf("rename %q: %w", id, ErrNoLayer)
	}
	l.Name = name
	return nil
}
