// Package config loads the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName names the configuration directory.
const AppName = "magic-paint"

const fileName = "config.toml"

// Validation errors.
var (
	ErrCanvasSize = errors.New("canvas width and height must be positive")
	ErrTimeout    = errors.New("request timeout must be positive")
	ErrHistory    = errors.New("history depth must be at least 1")
)

// Duration wraps time.Duration so it reads from TOML strings like "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the on-disk configuration.
type Config struct {
	Canvas   CanvasConfig    `toml:"canvas"`
	Language string          `toml:"language"` // "auto", "en" or "fr"
	Debug    bool            `toml:"debug"`
	History  int             `toml:"history"`
	Gemini   GeminiConfig    `toml:"gemini"`
	UI       InterfaceConfig `toml:"ui"`
}

// CanvasConfig sets the fixed drawing surface size.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// GeminiConfig configures the generation and commentary models.
type GeminiConfig struct {
	APIKey     string   `toml:"api_key"`
	ImageModel string   `toml:"image_model"`
	TextModel  string   `toml:"text_model"`
	Timeout    Duration `toml:"timeout"`
}

// InterfaceConfig holds window chrome settings.
type InterfaceConfig struct {
	ShowLayers    bool `toml:"show_layers"`
	ShowAssistant bool `toml:"show_assistant"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas:   CanvasConfig{Width: 800, Height: 600},
		Language: "auto",
		History:  20,
		Gemini: GeminiConfig{
			ImageModel: "gemini-2.5-flash-image",
			TextModel:  "gemini-3-flash-preview",
			Timeout:    Duration{120 * time.Second},
		},
		UI: InterfaceConfig{ShowLayers: true, ShowAssistant: true},
	}
}

// DefaultPath returns <UserConfigDir>/magic-paint/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, AppName, fileName)
}

// Load reads path over the defaults. A missing file yields the defaults.
// The API key falls back to GEMINI_API_KEY, then API_KEY.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = envAPIKey()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func envAPIKey() string {
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		return k
	}
	return os.Getenv("API_KEY")
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, ErrCanvasSize)
	}
	if c.Gemini.Timeout.Duration <= 0 {
		errs = append(errs, ErrTimeout)
	}
	if c.History < 1 {
		errs = append(errs, ErrHistory)
	}
	return errors.Join(errs...)
}

// Save writes the configuration to path, creating the directory. The API key
// is only written if it came from the file, never from the environment.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if c.Gemini.APIKey == envAPIKey() {
		c.Gemini.APIKey = ""
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return f.Close()
}
