package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AlignmentTheme provides a custom theme for the application.
type AlignmentTheme struct{}

var _ fyne.Theme = (*AlignmentTheme)(nil)

func (t *AlignmentTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x15, G: 0x65, B: 0xC0, A: 0xFF} // Survey blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xB3, B: 0x00, A: 0x80} // Amber markers
	case theme.ColorNameError:
		return color.NRGBA{R: 0xC6, G: 0x28, B: 0x28, A: 0xFF} // Infeasible red
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *AlignmentTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *AlignmentTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *AlignmentTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
