package shortcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magic-paint/internal/tool"
)

func TestToolKeys(t *testing.T) {
	tests := map[string]tool.Tool{
		"S": tool.Select, "e": tool.Eraser, "F": tool.Fill, "i": tool.Picker,
		"z": tool.Magnifier, "p": tool.Pencil, "n": tool.Pen, "b": tool.Brush,
		"a": tool.Airbrush, "t": tool.Text, "l": tool.Line, "h": tool.Hand,
		"r": tool.Rectangle, "g": tool.Polygon, "c": tool.Ellipse, "o": tool.RoundedRect,
	}
	for key, want := range tests {
		a, ok := Lookup(key, Modifiers{}, false)
		require.True(t, ok, key)
		assert.Equal(t, SelectTool, a.Command, key)
		assert.Equal(t, want, a.Tool, key)
	}
}

func TestCommands(t *testing.T) {
	ctrl := Modifiers{Ctrl: true}
	tests := []struct {
		key  string
		mods Modifiers
		want Command
	}{
		{"m", Modifiers{}, Magic},
		{"Escape", Modifiers{}, Escape},
		{"z", ctrl, Undo},
		{"G", ctrl, Magic},
		{"i", ctrl, Invert},
		{"d", ctrl, Deselect},
		{"N", Modifiers{Ctrl: true, Shift: true}, Clear},
	}
	for _, tt := range tests {
		a, ok := Lookup(tt.key, tt.mods, false)
		require.True(t, ok, tt.key)
		assert.Equal(t, tt.want, a.Command, tt.key)
	}
}

func TestUnbound(t *testing.T) {
	for _, k := range []string{"q", "1", "F5"} {
		_, ok := Lookup(k, Modifiers{}, false)
		assert.False(t, ok, k)
	}
	_, ok := Lookup("n", Modifiers{Ctrl: true}, false)
	assert.False(t, ok, "ctrl+n without shift is not clear")
	_, ok = Lookup("z", Modifiers{Ctrl: true, Shift: true}, false)
	assert.False(t, ok)
}

func TestTextFocusSuppresses(t *testing.T) {
	for _, k := range []string{"p", "Escape"} {
		_, ok := Lookup(k, Modifiers{}, true)
		assert.False(t, ok, k)
	}
	_, ok := Lookup("z", Modifiers{Ctrl: true}, true)
	assert.False(t, ok)
}

func TestBindingsCoverEveryTool(t *testing.T) {
	seen := map[tool.Tool]bool{}
	for _, b := range Bindings() {
		if b.Action.Command == SelectTool {
			seen[b.Action.Tool] = true
		}
		a, ok := Lookup(b.Key, b.Mods, false)
		require.True(t, ok, b.Key)
		assert.Equal(t, b.Action, a)
	}
	assert.Len(t, seen, len(tool.All()))

	k, ok := KeyFor(tool.RoundedRect)
	assert.True(t, ok)
	assert.Equal(t, "o", k)
}
