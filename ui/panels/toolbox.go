package panels

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"magic-paint/internal/app"
	"magic-paint/internal/i18n"
	"magic-paint/internal/paint"
	"magic-paint/internal/shortcut"
	"magic-paint/internal/tool"
)

// ToolBox holds the tool buttons and the options for the active tool.
type ToolBox struct {
	state *app.State
	tr    Translator

	buttons   map[tool.Tool]*widget.Button
	widthSel  *widget.Select
	tipSel    *widget.Select
	textEntry *widget.Entry
	widthLbl  *widget.Label
	tipLbl    *widget.Label
	textLbl   *widget.Label
	tipRow    fyne.CanvasObject
	textRow   fyne.CanvasObject

	container fyne.CanvasObject
}

// NewToolBox creates the tool panel.
func NewToolBox(state *app.State, tr Translator) *ToolBox {
	tb := &ToolBox{state: state, tr: tr, buttons: make(map[tool.Tool]*widget.Button)}

	grid := container.NewGridWithColumns(2)
	for _, t := range tool.All() {
		t := t
		btn := widget.NewButton("", func() { state.SetTool(t) })
		tb.buttons[t] = btn
		grid.Add(btn)
	}

	widths := make([]string, len(tool.LineWidths))
	for i, w := range tool.LineWidths {
		widths[i] = widthLabel(w)
	}
	tb.widthSel = widget.NewSelect(widths, func(s string) {
		var w int
		if _, err := fmt.Sscanf(s, "%dpx", &w); err == nil {
			state.SetLineWidth(w)
		}
	})

	tips := make([]string, 0, len(paint.Tips()))
	for _, t := range paint.Tips() {
		tips = append(tips, t.String())
	}
	tb.tipSel = widget.NewSelect(tips, func(s string) {
		if t, err := paint.ParseTip(s); err == nil {
			state.SetTip(t)
		}
	})

	tb.textEntry = widget.NewEntry()
	tb.textEntry.OnChanged = state.SetText

	tb.widthLbl = widget.NewLabel("")
	tb.tipLbl = widget.NewLabel("")
	tb.textLbl = widget.NewLabel("")
	tb.tipRow = container.NewVBox(tb.tipLbl, tb.tipSel)
	tb.textRow = container.NewVBox(tb.textLbl, tb.textEntry)

	tb.container = container.NewVBox(
		grid,
		widget.NewSeparator(),
		tb.widthLbl, tb.widthSel,
		tb.tipRow,
		tb.textRow,
	)

	state.On(app.EventToolChanged, func(interface{}) { tb.sync() })
	state.On(app.EventOptionsChanged, func(interface{}) { tb.sync() })

	tb.Retranslate()
	tb.sync()
	return tb
}

func widthLabel(w int) string {
	return fmt.Sprintf("%dpx", w)
}

// Container returns the panel for embedding in layouts.
func (tb *ToolBox) Container() fyne.CanvasObject {
	return tb.container
}

// Retranslate refreshes every label after a language change.
func (tb *ToolBox) Retranslate() {
	for t, btn := range tb.buttons {
		label := tb.tr.T(i18n.ToolID(t.String()))
		if k, ok := shortcut.KeyFor(t); ok {
			label = fmt.Sprintf("%s (%s)", label, strings.ToUpper(k))
		}
		btn.SetText(label)
	}
	tb.widthLbl.SetText(tb.tr.T(i18n.LineWidth))
	tb.tipLbl.SetText(tb.tr.T(i18n.BrushTip))
	tb.textLbl.SetText(tb.tr.T(i18n.TextLabel))
	tb.textEntry.SetPlaceHolder(tb.tr.T(i18n.TextHint))
}

// sync reflects the state's tool and options in the widgets.
func (tb *ToolBox) sync() {
	current := tb.state.Tool()
	opts := tb.state.ToolOptions()

	for t, btn := range tb.buttons {
		imp := widget.MediumImportance
		if t == current {
			imp = widget.HighImportance
		}
		if btn.Importance != imp {
			btn.Importance = imp
			btn.Refresh()
		}
	}

	if s := widthLabel(opts.LineWidth); tb.widthSel.Selected != s {
		tb.widthSel.SetSelected(s)
	}
	if s := opts.Tip.String(); tb.tipSel.Selected != s {
		tb.tipSel.SetSelected(s)
	}
	if tb.textEntry.Text != opts.Text {
		tb.textEntry.SetText(opts.Text)
	}

	showIf(tb.tipRow, current == tool.Brush)
	showIf(tb.textRow, current == tool.Text)
}

func showIf(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}
