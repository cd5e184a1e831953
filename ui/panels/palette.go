package panels

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"magic-paint/internal/app"
	"magic-paint/internal/i18n"
	"magic-paint/pkg/colorutil"
)

const swatchSize = 18

// PalettePanel shows the current colors and the swatch grid. A primary
// click on a swatch sets the primary color, a secondary click the
// secondary one.
type PalettePanel struct {
	state  *app.State
	tr     Translator
	window fyne.Window

	primary   *swatch
	secondary *swatch
	hex       *widget.Label
	title     *widget.Label

	container fyne.CanvasObject
}

// NewPalettePanel creates the color palette.
func NewPalettePanel(state *app.State, tr Translator, win fyne.Window) *PalettePanel {
	pp := &PalettePanel{state: state, tr: tr, window: win}

	opts := state.ToolOptions()
	pp.primary = newSwatch(opts.Primary, swatchSize*1.5, func(color.NRGBA) { pp.pick(true) }, nil)
	pp.secondary = newSwatch(opts.Secondary, swatchSize*1.5, func(color.NRGBA) { pp.pick(false) }, nil)
	pp.hex = widget.NewLabel("")
	pp.title = widget.NewLabel("")

	grid := container.NewGridWithColumns(colorutil.PaletteColumns)
	for _, c := range colorutil.Palette() {
		grid.Add(newSwatch(c, swatchSize, state.SetPrimary, state.SetSecondary))
	}

	swap := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		o := state.ToolOptions()
		state.SetPrimary(o.Secondary)
		state.SetSecondary(o.Primary)
	})

	current := container.NewHBox(pp.primary, pp.secondary, swap, pp.hex)
	pp.container = container.NewHBox(container.NewVBox(pp.title, current), grid)

	state.On(app.EventOptionsChanged, func(interface{}) { pp.sync() })
	pp.Retranslate()
	pp.sync()
	return pp
}

// Container returns the panel for embedding in layouts.
func (pp *PalettePanel) Container() fyne.CanvasObject {
	return pp.container
}

// Retranslate refreshes labels after a language change.
func (pp *PalettePanel) Retranslate() {
	pp.title.SetText(pp.tr.T(i18n.Colors))
}

func (pp *PalettePanel) sync() {
	o := pp.state.ToolOptions()
	pp.primary.SetColor(o.Primary)
	pp.secondary.SetColor(o.Secondary)
	pp.hex.SetText(colorutil.Hex(o.Primary) + " / " + colorutil.Hex(o.Secondary))
}

// pick opens a custom color chooser for the primary or secondary color.
func (pp *PalettePanel) pick(primary bool) {
	if pp.window == nil {
		return
	}
	d := dialog.NewColorPicker(pp.tr.T(i18n.Colors), "", func(c color.Color) {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		if primary {
			pp.state.SetPrimary(n)
		} else {
			pp.state.SetSecondary(n)
		}
	}, pp.window)
	d.Advanced = true
	d.Show()
}
