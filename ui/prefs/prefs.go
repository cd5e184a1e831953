// Package prefs provides JSON-based user preferences: the small UI settings
// that persist between sessions without belonging in the config file.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"magic-paint/internal/config"
)

const prefsFile = "preferences.json"

// Keys used by the main window.
const (
	KeyLastDir       = "lastDirectory"
	KeyZoom          = "zoom"
	KeyLineWidth     = "lineWidth"
	KeyTip           = "brushTip"
	KeyPrimary       = "primaryColor"
	KeySecondary     = "secondaryColor"
	KeyLanguage      = "language"
	KeyShowLayers    = "showLayers"
	KeyShowAssistant = "showAssistant"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// DefaultPath returns <UserConfigDir>/magic-paint/preferences.json.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, config.AppName, prefsFile)
}

// Load reads preferences from path. A missing or unreadable file yields
// empty preferences that will be written to path on Save.
func Load(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Int returns an int preference, or fallback if not set. JSON numbers
// decode as float64 and are truncated.
func (p *Prefs) Int(key string, fallback int) int {
	return int(p.FloatWithFallback(key, float64(fallback)))
}

// SetInt stores an int preference.
func (p *Prefs) SetInt(key string, val int) {
	p.SetFloat(key, float64(val))
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}
