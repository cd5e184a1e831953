package ai

import (
	"context"
	"image"
	"math/rand/v2"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"go.uber.org/zap"

	pimage "magic-paint/internal/image"
	"magic-paint/internal/logger"
)

// DefaultPreviewSide bounds the longer side of images sent for commentary.
const DefaultPreviewSide = 512

// Script is the localized text the assistant speaks.
type Script struct {
	System        string   // system instruction for the model
	Prompt        string   // request sent with the image
	EmptyFallback string   // said when the model returns nothing
	ErrorFallback string   // said when the call fails
	Starters      []string // greetings for a random visit
	Farewells     []string // said when the user tries to close the window
}

// Assistant is the comic-relief character commenting on the drawing.
// It never returns an error to the user: failures become fallback lines.
type Assistant struct {
	Commentator Commentator
	Script      Script
	MaxSide     int
	rng         *rand.Rand
}

// NewAssistant creates an assistant. rng picks quips; nil seeds one.
func NewAssistant(c Commentator, script Script, rng *rand.Rand) *Assistant {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Assistant{Commentator: c, Script: script, MaxSide: DefaultPreviewSide, rng: rng}
}

// Roast asks the model for commentary on img.
func (a *Assistant) Roast(ctx context.Context, img image.Image) string {
	log := logger.L(ctx)
	if a.Commentator == nil || img == nil {
		return a.Script.ErrorFallback
	}

	data, err := pimage.EncodePNG(a.preview(img))
	if err != nil {
		log.Warn("encode assistant preview", zap.Error(err))
		return a.Script.ErrorFallback
	}

	text, err := a.Commentator.Comment(ctx, data, a.Script.System, a.Script.Prompt)
	if err != nil {
		log.Warn("assistant comment", zap.Error(err))
		return a.Script.ErrorFallback
	}
	if text = strings.TrimSpace(text); text == "" {
		return a.Script.EmptyFallback
	}
	return text
}

// preview shrinks img so its longer side is at most MaxSide.
func (a *Assistant) preview(img image.Image) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if a.MaxSide <= 0 || longest <= a.MaxSide {
		return img
	}
	w := max(1, b.Dx()*a.MaxSide/longest)
	h := max(1, b.Dy()*a.MaxSide/longest)
	return transform.Resize(img, w, h, transform.Linear)
}

// Greeting returns a random starter line.
func (a *Assistant) Greeting() string {
	return a.pick(a.Script.Starters)
}

// Farewell returns a random line for a close attempt.
func (a *Assistant) Farewell() string {
	return a.pick(a.Script.Farewells)
}

func (a *Assistant) pick(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[a.rng.IntN(len(lines))]
}
