// Package panels provides the side panels around the paint canvas.
package panels

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"magic-paint/internal/i18n"
)

// Translator supplies localized strings.
type Translator interface {
	T(id string) string
	Tf(id string, data map[string]any) string
}

// showError shows a localized message, with the underlying error appended
// for diagnosis.
func showError(win fyne.Window, tr Translator, id string, err error) {
	if win == nil {
		return
	}
	msg := tr.T(id)
	if err != nil {
		msg += "\n\n" + err.Error()
	}
	dialog.ShowInformation(tr.T(i18n.AppTitle), msg, win)
}

// swatch is a clickable color cell. Primary click and secondary click
// report separately, like the classic palette.
type swatch struct {
	widget.BaseWidget
	rect      *fynecanvas.Rectangle
	color     color.NRGBA
	size      fyne.Size
	onPrimary func(color.NRGBA)
	onSecond  func(color.NRGBA)
}

var (
	_ fyne.Tappable          = (*swatch)(nil)
	_ fyne.SecondaryTappable = (*swatch)(nil)
	_ desktop.Cursorable     = (*swatch)(nil)
)

func newSwatch(c color.NRGBA, size float32, onPrimary, onSecond func(color.NRGBA)) *swatch {
	s := &swatch{color: c, size: fyne.NewSquareSize(size), onPrimary: onPrimary, onSecond: onSecond}
	s.rect = fynecanvas.NewRectangle(c)
	s.rect.StrokeColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	s.rect.StrokeWidth = 1
	s.ExtendBaseWidget(s)
	return s
}

// SetColor changes the displayed color.
func (s *swatch) SetColor(c color.NRGBA) {
	s.color = c
	s.rect.FillColor = c
	s.rect.Refresh()
}

func (s *swatch) Tapped(*fyne.PointEvent) {
	if s.onPrimary != nil {
		s.onPrimary(s.color)
	}
}

func (s *swatch) TappedSecondary(*fyne.PointEvent) {
	if s.onSecond != nil {
		s.onSecond(s.color)
	}
}

func (s *swatch) Cursor() desktop.Cursor {
	return desktop.PointerCursor
}

func (s *swatch) MinSize() fyne.Size {
	return s.size
}

func (s *swatch) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.rect)
}
