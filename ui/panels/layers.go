package panels

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"magic-paint/internal/app"
	"magic-paint/internal/i18n"
	pimage "magic-paint/internal/image"
)

// LayersPanel lists the layers top to bottom with visibility toggles and
// the add, delete, move and rename actions.
type LayersPanel struct {
	state  *app.State
	tr     Translator
	window fyne.Window

	rows  []app.LayerInfo // top first
	list  *widget.List
	title *widget.Label

	addBtn, delBtn, upBtn, downBtn, renameBtn *widget.Button

	container fyne.CanvasObject
}

// NewLayersPanel creates the layers panel.
func NewLayersPanel(state *app.State, tr Translator, win fyne.Window) *LayersPanel {
	lp := &LayersPanel{state: state, tr: tr, window: win}

	lp.list = widget.NewList(
		func() int { return len(lp.rows) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewCheck("", nil), widget.NewLabel("Layer name"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(lp.rows) {
				return
			}
			row := lp.rows[id]
			box := obj.(*fyne.Container)
			check := box.Objects[0].(*widget.Check)
			label := box.Objects[1].(*widget.Label)

			check.OnChanged = nil
			check.SetChecked(row.Visible)
			check.OnChanged = func(v bool) { _ = state.SetLayerVisible(row.ID, v) }

			label.SetText(row.Name)
			label.TextStyle = fyne.TextStyle{Bold: row.Active}
			label.Refresh()
		},
	)
	lp.list.OnSelected = func(id widget.ListItemID) {
		if id < len(lp.rows) && !lp.rows[id].Active {
			_ = state.SelectLayer(lp.rows[id].ID)
		}
	}

	lp.title = widget.NewLabel("")
	lp.addBtn = widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() { state.AddLayer() })
	lp.delBtn = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		lp.report(state.DeleteLayer(state.ActiveLayer()))
	})
	lp.upBtn = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { state.MoveLayerUp(state.ActiveLayer()) })
	lp.downBtn = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { state.MoveLayerDown(state.ActiveLayer()) })
	lp.renameBtn = widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), lp.rename)

	buttons := container.NewHBox(lp.addBtn, lp.delBtn, lp.upBtn, lp.downBtn, lp.renameBtn)
	lp.container = container.NewBorder(lp.title, buttons, nil, nil, lp.list)

	state.On(app.EventLayersChanged, func(interface{}) { lp.reload() })
	lp.Retranslate()
	lp.reload()
	return lp
}

// Container returns the panel for embedding in layouts.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.container
}

// Retranslate refreshes labels after a language change.
func (lp *LayersPanel) Retranslate() {
	lp.title.SetText(lp.tr.T(i18n.Layers))
	lp.addBtn.SetText(lp.tr.T(i18n.LayerAdd))
	lp.delBtn.SetText(lp.tr.T(i18n.LayerDelete))
	lp.upBtn.SetText(lp.tr.T(i18n.LayerUp))
	lp.downBtn.SetText(lp.tr.T(i18n.LayerDown))
	lp.renameBtn.SetText(lp.tr.T(i18n.LayerRename))
}

// reload rebuilds the rows from the state, topmost layer first.
func (lp *LayersPanel) reload() {
	layers := lp.state.Layers()
	lp.rows = lp.rows[:0]
	active := 0
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i].Active {
			active = len(lp.rows)
		}
		lp.rows = append(lp.rows, layers[i])
	}
	lp.list.Refresh()
	lp.list.Select(active)

	bg := len(lp.rows) > 0 && lp.rows[active].Background
	if bg || len(lp.rows) <= 1 {
		lp.delBtn.Disable()
	} else {
		lp.delBtn.Enable()
	}
}

func (lp *LayersPanel) rename() {
	if lp.window == nil {
		return
	}
	id := lp.state.ActiveLayer()
	entry := widget.NewEntry()
	for _, l := range lp.state.Layers() {
		if l.ID == id {
			entry.SetText(l.Name)
		}
	}
	entry.SetPlaceHolder(lp.tr.T(i18n.LayerRenameHint))
	items := []*widget.FormItem{widget.NewFormItem(lp.tr.T(i18n.LayerRenameHint), entry)}
	dialog.ShowForm(lp.tr.T(i18n.LayerRename), lp.tr.T(i18n.LayerRename), lp.tr.T(i18n.Cancel), items, func(ok bool) {
		if ok {
			lp.report(lp.state.RenameLayer(id, entry.Text))
		}
	}, lp.window)
}

func (lp *LayersPanel) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, pimage.ErrBackgroundLocked), errors.Is(err, pimage.ErrLastLayer):
		showError(lp.window, lp.tr, i18n.ErrLayer, nil)
	default:
		showError(lp.window, lp.tr, i18n.ErrLayer, err)
	}
}
