package ai

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullPrompt(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"sketch only", Request{Prompt: "a boat"}, SketchPrefix + "a boat"},
		{"reference", Request{Prompt: "a boat", Reference: []byte{1}, UseReference: true}, SketchPrefix + ReferencePrefix + "a boat"},
		{"reference disabled", Request{Prompt: "a boat", Reference: []byte{1}}, SketchPrefix + "a boat"},
		{"reference missing", Request{Prompt: "a boat", UseReference: true}, SketchPrefix + "a boat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.FullPrompt())
		})
	}
}

func TestRequestValidate(t *testing.T) {
	assert.ErrorIs(t, Request{Prompt: "x"}.Validate(), ErrNoSketch)
	assert.ErrorIs(t, Request{Sketch: []byte{1}}.Validate(), ErrNoPrompt)
	assert.NoError(t, Request{Prompt: "x", Sketch: []byte{1}}.Validate())
}

type fakeCommentator struct {
	text   string
	err    error
	got    []byte
	system string
	prompt string
}

func (f *fakeCommentator) Comment(_ context.Context, data []byte, system, prompt string) (string, error) {
	f.got, f.system, f.prompt = data, system, prompt
	return f.text, f.err
}

var script = Script{
	System:        "system",
	Prompt:        "prompt",
	EmptyFallback: "empty",
	ErrorFallback: "error",
	Starters:      []string{"hi", "hello"},
	Farewells:     []string{"bye"},
}

func TestRoast(t *testing.T) {
	fc := &fakeCommentator{text: "  Bold use of beige.  "}
	a := NewAssistant(fc, script, rand.New(rand.NewPCG(1, 2)))

	got := a.Roast(context.Background(), image.NewNRGBA(image.Rect(0, 0, 10, 10)))
	assert.Equal(t, "Bold use of beige.", got)
	assert.Equal(t, "system", fc.system)
	assert.Equal(t, "prompt", fc.prompt)
	_, err := png.Decode(bytes.NewReader(fc.got))
	assert.NoError(t, err)
}

func TestRoastFallbacks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	a := NewAssistant(&fakeCommentator{err: errors.New("quota")}, script, nil)
	assert.Equal(t, "error", a.Roast(context.Background(), img))

	a = NewAssistant(&fakeCommentator{text: " "}, script, nil)
	assert.Equal(t, "empty", a.Roast(context.Background(), img))

	a = NewAssistant(nil, script, nil)
	assert.Equal(t, "error", a.Roast(context.Background(), img))
}

func TestRoastDownscales(t *testing.T) {
	fc := &fakeCommentator{text: "ok"}
	a := NewAssistant(fc, script, nil)
	a.MaxSide = 100

	a.Roast(context.Background(), image.NewNRGBA(image.Rect(0, 0, 800, 600)))
	cfg, err := png.DecodeConfig(bytes.NewReader(fc.got))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 75, cfg.Height)
}

func TestQuips(t *testing.T) {
	a := NewAssistant(nil, script, rand.New(rand.NewPCG(3, 4)))
	for i := 0; i < 10; i++ {
		assert.Contains(t, script.Starters, a.Greeting())
	}
	assert.Equal(t, "bye", a.Farewell())

	a.Script.Farewells = nil
	assert.Empty(t, a.Farewell())
}
