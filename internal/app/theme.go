package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ClassicTheme is a light theme in the colors of an early-2000s desktop:
// beige chrome, blue highlights, square-ish controls.
type ClassicTheme struct{}

var _ fyne.Theme = (*ClassicTheme)(nil)

var (
	classicFace      = color.NRGBA{R: 0xEC, G: 0xE9, B: 0xD8, A: 0xFF}
	classicBlue      = color.NRGBA{R: 0x31, G: 0x6A, B: 0xC5, A: 0xFF}
	classicHighlight = color.NRGBA{R: 0xBC, G: 0xCE, B: 0xEB, A: 0xFF}
	classicWorkspace = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
)

// WorkspaceColor is the backdrop behind the canvas.
func WorkspaceColor() color.Color {
	return classicWorkspace
}

func (t *ClassicTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground, theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground:
		return classicFace
	case theme.ColorNameButton:
		return color.NRGBA{R: 0xF5, G: 0xF4, B: 0xEA, A: 0xFF}
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return classicBlue
	case theme.ColorNameHover, theme.ColorNameSelection:
		return classicHighlight
	case theme.ColorNameInputBackground:
		return color.White
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		// Everything else follows the light variant.
		return theme.DefaultTheme().Color(name, theme.VariantLight)
	}
}

func (t *ClassicTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ClassicTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ClassicTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for easier grabbing
	case theme.SizeNameScrollBarSmall:
		return 12
	case theme.SizeNameText:
		return 12
	case theme.SizeNameInputRadius, theme.SizeNameSelectionRadius:
		return 2
	default:
		return theme.DefaultTheme().Size(name)
	}
}
