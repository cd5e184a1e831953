// Package main provides the entry point for the Magic Paint application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"magic-paint/internal/ai"
	"magic-paint/internal/ai/gemini"
	"magic-paint/internal/app"
	"magic-paint/internal/config"
	"magic-paint/internal/i18n"
	"magic-paint/internal/logger"
	"magic-paint/internal/version"
	"magic-paint/ui/mainwindow"
	"magic-paint/ui/prefs"
)

const appID = "io.github.magicpaint"

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the TOML configuration file")
	debug := flag.Bool("debug", false, "verbose development logging")
	flag.Parse()

	if err := run(*configPath, *debug, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "magic-paint:", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(debug || cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	log.Info("starting", zap.String("version", version.String()), zap.String("config", configPath))

	ctx := logger.NewContext(context.Background(), log)

	appPrefs := prefs.Load(prefs.DefaultPath())
	lang := cfg.Language
	if saved := appPrefs.String(prefs.KeyLanguage); saved != "" {
		lang = saved
	}
	tr, err := i18n.New(lang)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	log.Debug("language selected", zap.String("language", tr.Language().String()))

	state := app.NewState(ctx, app.Options{
		Width:          cfg.Canvas.Width,
		Height:         cfg.Canvas.Height,
		History:        cfg.History,
		BackgroundName: tr.T(i18n.Background),
		LayerName: func(n int) string {
			return tr.Tf(i18n.LayerDefault, map[string]any{"N": n})
		},
		Timeout: cfg.Gemini.Timeout.Duration,
	})
	configureAI(ctx, state, cfg, tr)

	if len(args) > 0 {
		if err := state.OpenFile(args[0]); err != nil {
			log.Warn("open image", zap.String("path", args[0]), zap.Error(err))
		}
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.ClassicTheme{})

	win := mainwindow.New(fyneApp, state, tr, appPrefs, log)
	live := config.NewLive(cfg)
	win.OnLanguageChange = func() { configureAI(ctx, state, live.Get(), tr) }

	watcher, err := config.NewWatcher(configPath, log, func(next config.Config) {
		log.Info("config reloaded")
		live.Set(next)
		if appPrefs.String(prefs.KeyLanguage) == "" {
			tr.SetLanguage(next.Language)
		}
		configureAI(ctx, state, next, tr)
		win.Retranslate()
	})
	if err != nil {
		log.Warn("config watch disabled", zap.Error(err))
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	win.ShowAndRun()
	state.Wait()
	return nil
}

// configureAI connects the generator and the assistant, or disconnects them
// when no API key is configured. The assistant speaks the current language.
func configureAI(ctx context.Context, state *app.State, cfg config.Config, tr *i18n.Translator) {
	log := logger.L(ctx)
	client, err := gemini.New(ctx, gemini.Options{
		APIKey:     cfg.Gemini.APIKey,
		ImageModel: cfg.Gemini.ImageModel,
		TextModel:  cfg.Gemini.TextModel,
		Timeout:    cfg.Gemini.Timeout.Duration,
	})
	if err != nil {
		if !errors.Is(err, gemini.ErrNoAPIKey) {
			log.Warn("gemini unavailable", zap.Error(err))
		}
		state.SetGenerator(nil)
		state.SetAssistant(nil)
		return
	}

	state.SetGenerator(client)
	state.SetAssistant(ai.NewAssistant(client, scriptFor(tr), nil))
}

func scriptFor(tr *i18n.Translator) ai.Script {
	return ai.Script{
		System:        tr.T(i18n.AssistantSystem),
		Prompt:        tr.T(i18n.AssistantPrompt),
		EmptyFallback: tr.T(i18n.AssistantEmpty),
		ErrorFallback: tr.T(i18n.AssistantError),
		Starters:      tr.Lines(i18n.AssistantStarter),
		Farewells:     tr.Lines(i18n.AssistantClose),
	}
}
