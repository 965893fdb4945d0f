package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// MintTheme extends the default Fyne theme with the panel accent colors
type MintTheme struct {
	fyne.Theme
}

// NewMintTheme creates a new panel theme
func NewMintTheme() *MintTheme {
	return &MintTheme{
		Theme: theme.DefaultTheme(),
	}
}

// Color returns the mint accent for primary elements
func (t *MintTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return color.NRGBA{R: 0x87, G: 0xcf, B: 0x3e, A: 0xff}
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	case theme.ColorNameError:
		return color.NRGBA{R: 0xf4, G: 0x43, B: 0x36, A: 0xff}
	default:
		return t.Theme.Color(name, variant)
	}
}

// Size tightens padding so more entries fit in the small panel
func (t *MintTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameScrollBar:
		return 8
	default:
		return t.Theme.Size(name)
	}
}
