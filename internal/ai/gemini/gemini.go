// Package gemini implements the ai collaborators on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"magic-paint/internal/ai"
	"magic-paint/internal/logger"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("no Gemini API key configured")

// Options configures a Client.
type Options struct {
	APIKey     string
	ImageModel string
	TextModel  string
	Timeout    time.Duration

	// BaseURL overrides the API endpoint. Empty uses the public endpoint.
	BaseURL    string
	HTTPClient *http.Client
}

// Client is both an ai.Generator and an ai.Commentator.
type Client struct {
	genai *genai.Client
	opts  Options
}

var (
	_ ai.Generator   = (*Client)(nil)
	_ ai.Commentator = (*Client)(nil)
)

// New creates a client for the Gemini API backend.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = opts.BaseURL
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{genai: c, opts: opts}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.Timeout > 0 {
		return context.WithTimeout(ctx, c.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// Generate sends the prompt, the optional reference and the sketch, and
// returns the first inline image of the response.
func (c *Client) Generate(ctx context.Context, req ai.Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	parts := []*genai.Part{genai.NewPartFromText(req.FullPrompt())}
	if req.UsesReference() {
		parts = append(parts, genai.NewPartFromBytes(req.Reference, http.DetectContentType(req.Reference)))
	}
	parts = append(parts, genai.NewPartFromBytes(req.Sketch, "image/png"))

	log := logger.L(ctx).With(zap.String("model", c.opts.ImageModel))
	log.Debug("generate", zap.Bool("reference", req.UsesReference()), zap.Int("sketchBytes", len(req.Sketch)))

	resp, err := c.genai.Models.GenerateContent(ctx, c.opts.ImageModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if img := firstImage(resp); img != nil {
		return img, nil
	}
	return nil, ai.ErrNoImage
}

func firstImage(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}

// Comment sends the image with a system instruction and returns the text.
func (c *Client) Comment(ctx context.Context, png []byte, system, prompt string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(png, "image/png"),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)}

	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.opts.TextModel, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("comment: %w", err)
	}
	return resp.Text(), nil
}
