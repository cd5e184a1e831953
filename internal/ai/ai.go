// Package ai defines the image generation and commentary collaborators.
package ai

import (
	"context"
	"errors"
)

var (
	// ErrNoImage is returned when a generation response carries no image.
	ErrNoImage = errors.New("no image in response")
	// ErrNoSketch is returned for a request without a sketch.
	ErrNoSketch = errors.New("a sketch is required")
	// ErrNoPrompt is returned for a blank prompt.
	ErrNoPrompt = errors.New("a prompt is required")
)

// Prompt prefixes sent ahead of the user's prompt.
const (
	ReferencePrefix = "Use the provided reference image for style, color palette, and character details. "
	SketchPrefix    = "Act as an AI Sketch Assistant. Transform this rough hand-drawn sketch into a high-quality, polished render while strictly following the original composition and layout. "
)

// Request asks for a sketch to be turned into a finished image.
type Request struct {
	Prompt       string
	Sketch       []byte // PNG of the flattened canvas, required
	Reference    []byte // optional style reference, PNG or JPEG
	UseReference bool
}

// UsesReference reports whether the reference image is sent.
func (r Request) UsesReference() bool {
	return r.UseReference && len(r.Reference) > 0
}

// FullPrompt returns the text part of the request with its prefixes.
func (r Request) FullPrompt() string {
	p := r.Prompt
	if r.UsesReference() {
		p = ReferencePrefix + p
	}
	return SketchPrefix + p
}

// Validate checks the request has what a generator needs.
func (r Request) Validate() error {
	if len(r.Sketch) == 0 {
		return ErrNoSketch
	}
	if r.Prompt == "" {
		return ErrNoPrompt
	}
	return nil
}

// Generator turns a sketch and prompt into an encoded image.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// Commentator produces free-text commentary about a PNG image.
type Commentator interface {
	Comment(ctx context.Context, png []byte, system, prompt string) (string, error)
}
