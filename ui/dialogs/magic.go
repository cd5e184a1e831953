// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"image"
	"strings"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"magic-paint/internal/i18n"
)

// Translator supplies localized strings.
type Translator interface {
	T(id string) string
}

// errEmptyPrompt keeps the generate button disabled until something is typed.
var errEmptyPrompt = errors.New("empty prompt")

// thumbSide is the side of the reference thumbnail in the magic dialog.
const thumbSide = 96

// MagicDialog asks for the prompt of a magic transform.
type MagicDialog struct {
	window    fyne.Window
	tr        Translator
	reference image.Image // nil when no reference is loaded
	useRef    bool

	prompt *widget.Entry
	check  *widget.Check

	// Callback
	onGenerate func(prompt string, useReference bool)
}

// NewMagicDialog creates the prompt dialog. reference may be nil.
func NewMagicDialog(window fyne.Window, tr Translator, reference image.Image, useReference bool,
	onGenerate func(prompt string, useReference bool)) *MagicDialog {
	return &MagicDialog{
		window:     window,
		tr:         tr,
		reference:  reference,
		useRef:     useReference && reference != nil,
		onGenerate: onGenerate,
	}
}

// Show displays the dialog and focuses the prompt.
func (d *MagicDialog) Show() {
	d.prompt = widget.NewMultiLineEntry()
	d.prompt.SetPlaceHolder(d.tr.T(i18n.MagicPlaceholder))
	d.prompt.SetMinRowsVisible(3)
	d.prompt.Wrapping = fyne.TextWrapWord
	d.prompt.Validator = ValidatePrompt

	items := []*widget.FormItem{widget.NewFormItem("", d.prompt)}
	if d.reference != nil {
		d.check = widget.NewCheck(d.tr.T(i18n.UseReference), nil)
		d.check.SetChecked(d.useRef)
		items = append(items, widget.NewFormItem("", container.NewHBox(thumbnail(d.reference, thumbSide), d.check)))
	} else {
		items = append(items, widget.NewFormItem("", widget.NewLabel(d.tr.T(i18n.NoReference))))
	}

	dlg := dialog.NewForm(d.tr.T(i18n.MagicTitle), d.tr.T(i18n.MagicGenerate), d.tr.T(i18n.Cancel), items,
		func(ok bool) {
			if !ok || d.onGenerate == nil {
				return
			}
			use := d.check != nil && d.check.Checked
			d.onGenerate(strings.TrimSpace(d.prompt.Text), use)
		}, d.window)
	dlg.Resize(fyne.NewSize(480, 280))
	dlg.Show()
	d.window.Canvas().Focus(d.prompt)
}

// ValidatePrompt rejects prompts that are empty after trimming.
func ValidatePrompt(s string) error {
	if strings.TrimSpace(s) == "" {
		return errEmptyPrompt
	}
	return nil
}

// ShowReference previews the reference image with its use toggle.
func ShowReference(window fyne.Window, tr Translator, reference image.Image, useReference bool, onToggle func(bool)) {
	if reference == nil {
		dialog.ShowInformation(tr.T(i18n.ViewReference), tr.T(i18n.NoReference), window)
		return
	}
	use := widget.NewCheck(tr.T(i18n.UseReference), onToggle)
	use.SetChecked(useReference)
	dialog.ShowCustom(tr.T(i18n.ViewReference), "OK",
		container.NewBorder(nil, use, nil, nil, thumbnail(reference, 320)), window)
}

func thumbnail(img image.Image, side float32) fyne.CanvasObject {
	preview := fynecanvas.NewImageFromImage(img)
	preview.FillMode = fynecanvas.ImageFillContain
	preview.SetMinSize(fyne.NewSquareSize(side))
	return preview
}
