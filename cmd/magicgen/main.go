// Command magicgen runs a magic transform or an assistant roast on an image
// file without the editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"magic-paint/internal/ai"
	"magic-paint/internal/ai/gemini"
	"magic-paint/internal/config"
	"magic-paint/internal/i18n"
	"magic-paint/internal/image"
	"magic-paint/internal/logger"
)

func main() {
	sketchPath := flag.String("sketch", "", "Path to the sketch image")
	prompt := flag.String("prompt", "", "What the sketch should become")
	refPath := flag.String("reference", "", "Optional style reference image")
	outPath := flag.String("out", "magic.png", "Output image path (PNG, BMP or TIFF)")
	roast := flag.Bool("roast", false, "Print the assistant's opinion instead of generating")
	lang := flag.String("lang", "auto", "Assistant language: auto, en or fr")
	configPath := flag.String("config", config.DefaultPath(), "Configuration file")
	debug := flag.Bool("debug", false, "Verbose logging")
	flag.Parse()

	if *sketchPath == "" || (!*roast && *prompt == "") {
		fmt.Println("Usage: magicgen -sketch <path> -prompt <text> [-reference <path>] [-out magic.png]")
		fmt.Println("       magicgen -sketch <path> -roast [-lang fr]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	ctx := logger.NewContext(context.Background(), log)

	client, err := gemini.New(ctx, gemini.Options{
		APIKey:     cfg.Gemini.APIKey,
		ImageModel: cfg.Gemini.ImageModel,
		TextModel:  cfg.Gemini.TextModel,
		Timeout:    cfg.Gemini.Timeout.Duration,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}

	sketch, err := image.Load(*sketchPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load sketch: %v\n", err)
		os.Exit(1)
	}
	b := sketch.Bounds()
	fmt.Printf("Loaded sketch: %dx%d pixels\n", b.Dx(), b.Dy())

	if *roast {
		tr, err := i18n.New(*lang)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load translations: %v\n", err)
			os.Exit(1)
		}
		a := ai.NewAssistant(client, ai.Script{
			System:        tr.T(i18n.AssistantSystem),
			Prompt:        tr.T(i18n.AssistantPrompt),
			EmptyFallback: tr.T(i18n.AssistantEmpty),
			ErrorFallback: tr.T(i18n.AssistantError),
		}, nil)
		fmt.Println(a.Roast(ctx, sketch))
		return
	}

	png, err := image.EncodePNG(sketch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode sketch: %v\n", err)
		os.Exit(1)
	}
	req := ai.Request{Prompt: *prompt, Sketch: png}
	if *refPath != "" {
		req.Reference, err = os.ReadFile(*refPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read reference: %v\n", err)
			os.Exit(1)
		}
		req.UseReference = true
	}

	fmt.Printf("Generating (model %s, reference %v)...\n", cfg.Gemini.ImageModel, req.UsesReference())
	data, err := client.Generate(ctx, req)
	if err != nil {
		log.Error("generate image", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		os.Exit(1)
	}
	result, err := image.DecodeBytes(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode result: %v\n", err)
		os.Exit(1)
	}
	if err := image.Save(*outPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save result: %v\n", err)
		os.Exit(1)
	}
	rb := result.Bounds()
	fmt.Printf("Wrote %s (%dx%d)\n", *outPath, rb.Dx(), rb.Dy())
}
