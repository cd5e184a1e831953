// Package i18n translates user-facing text with go-i18n message files.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeandeaual/go-locale"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Supported lists the available languages; the first is the fallback.
var Supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(Supported)

// Translator looks up messages in the current language. It is safe for
// concurrent use; the language may change at runtime.
type Translator struct {
	bundle *goi18n.Bundle

	mu  sync.RWMutex
	tag language.Tag
	loc *goi18n.Localizer
}

// New loads the embedded message files and selects lang. "auto" or an empty
// string detects the system language.
func New(lang string) (*Translator, error) {
	bundle := goi18n.NewBundle(Supported[0])
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
	}

	t := &Translator{bundle: bundle}
	t.SetLanguage(lang)
	return t, nil
}

// SetLanguage switches language and returns the tag actually selected.
func (t *Translator) SetLanguage(lang string) language.Tag {
	var tag language.Tag
	if lang == "" || strings.EqualFold(lang, "auto") {
		tag = Detect()
	} else {
		tag = Match(lang)
	}

	t.mu.Lock()
	t.tag = tag
	t.loc = goi18n.NewLocalizer(t.bundle, tag.String())
	t.mu.Unlock()
	return tag
}

// Language returns the current language.
func (t *Translator) Language() language.Tag {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tag
}

// T returns the message id, or the id itself when it is unknown.
func (t *Translator) T(id string) string {
	return t.Tf(id, nil)
}

// Tf returns the message id rendered with template data.
func (t *Translator) Tf(id string, data map[string]any) string {
	t.mu.RLock()
	loc := t.loc
	t.mu.RUnlock()

	s, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil || s == "" {
		return id
	}
	return s
}

// Has reports whether id is defined.
func (t *Translator) Has(id string) bool {
	t.mu.RLock()
	loc := t.loc
	t.mu.RUnlock()
	_, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id})
	return err == nil
}

// Lines collects the numbered messages prefix1, prefix2, ... up to the first
// gap.
func (t *Translator) Lines(prefix string) []string {
	var out []string
	for i := 1; ; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		if !t.Has(id) {
			return out
		}
		out = append(out, t.T(id))
	}
}

// Match returns the supported language closest to lang.
func Match(lang string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return Supported[0]
	}
	_, i, _ := matcher.Match(tag)
	return Supported[i]
}

// Detect matches the system locales against the supported languages.
func Detect() language.Tag {
	locales, err := locale.GetLocales()
	if err != nil || len(locales) == 0 {
		return Supported[0]
	}
	var tags []language.Tag
	for _, l := range locales {
		if tag, err := language.Parse(strings.ReplaceAll(l, "_", "-")); err == nil {
			tags = append(tags, tag)
		}
	}
	_, i, _ := matcher.Match(tags...)
	return Supported[i]
}
