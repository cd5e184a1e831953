// Package shortcut maps key presses to editor actions.
package shortcut

import (
	"strings"

	"magic-paint/internal/tool"
)

// Command is a non-tool action triggered from the keyboard.
type Command int

const (
	None Command = iota
	SelectTool
	Magic
	Undo
	Invert
	Clear
	Deselect
	Escape
)

var commandNames = map[Command]string{
	None:       "none",
	SelectTool: "select-tool",
	Magic:      "magic",
	Undo:       "undo",
	Invert:     "invert",
	Clear:      "clear",
	Deselect:   "deselect",
	Escape:     "escape",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "unknown"
}

// Action is the result of a key press. Tool is only meaningful for SelectTool.
type Action struct {
	Command Command
	Tool    tool.Tool
}

// Modifiers held with a key.
type Modifiers struct {
	Ctrl  bool
	Shift bool
}

// Binding documents one shortcut for menus and help text.
type Binding struct {
	Key    string
	Mods   Modifiers
	Action Action
}

var plainTools = map[string]tool.Tool{
	"s": tool.Select,
	"e": tool.Eraser,
	"f": tool.Fill,
	"i": tool.Picker,
	"z": tool.Magnifier,
	"p": tool.Pencil,
	"n": tool.Pen,
	"b": tool.Brush,
	"a": tool.Airbrush,
	"t": tool.Text,
	"l": tool.Line,
	"h": tool.Hand,
	"r": tool.Rectangle,
	"g": tool.Polygon,
	"c": tool.Ellipse,
	"o": tool.RoundedRect,
}

var ctrlCommands = map[string]Command{
	"z": Undo,
	"g": Magic,
	"i": Invert,
	"d": Deselect,
}

// Lookup resolves a key press. Keys are matched case-insensitively by name
// ("S", "s", "Escape"). textFocused suppresses everything so typing into
// an entry never switches tools.
func Lookup(key string, mods Modifiers, textFocused bool) (Action, bool) {
	if textFocused {
		return Action{}, false
	}
	k := strings.ToLower(key)

	if k == "escape" || k == "esc" {
		return Action{Command: Escape}, true
	}

	if mods.Ctrl {
		if mods.Shift {
			if k == "n" {
				return Action{Command: Clear}, true
			}
			return Action{}, false
		}
		if c, ok := ctrlCommands[k]; ok {
			return Action{Command: c}, true
		}
		return Action{}, false
	}

	if k == "m" {
		return Action{Command: Magic}, true
	}
	if t, ok := plainTools[k]; ok {
		return Action{Command: SelectTool, Tool: t}, true
	}
	return Action{}, false
}

// Bindings lists every shortcut, tools first in toolbar order.
func Bindings() []Binding {
	var out []Binding
	for _, t := range tool.All() {
		for k, bt := range plainTools {
			if bt == t {
				out = append(out, Binding{Key: k, Action: Action{Command: SelectTool, Tool: t}})
			}
		}
	}
	out = append(out,
		Binding{Key: "m", Action: Action{Command: Magic}},
		Binding{Key: "escape", Action: Action{Command: Escape}},
		Binding{Key: "z", Mods: Modifiers{Ctrl: true}, Action: Action{Command: Undo}},
		Binding{Key: "g", Mods: Modifiers{Ctrl: true}, Action: Action{Command: Magic}},
		Binding{Key: "i", Mods: Modifiers{Ctrl: true}, Action: Action{Command: Invert}},
		Binding{Key: "d", Mods: Modifiers{Ctrl: true}, Action: Action{Command: Deselect}},
		Binding{Key: "n", Mods: Modifiers{Ctrl: true, Shift: true}, Action: Action{Command: Clear}},
	)
	return out
}

// KeyFor returns the plain key selecting t, if any.
func KeyFor(t tool.Tool) (string, bool) {
	for k, bt := range plainTools {
		if bt == t {
			return k, true
		}
	}
	return "", false
}
