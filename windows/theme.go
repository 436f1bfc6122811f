package windows

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// scenarioTheme is a muted teal theme. Colors it does not name fall back to
// the default theme.
type scenarioTheme struct{}

var _ fyne.Theme = (*scenarioTheme)(nil)

type palette map[fyne.ThemeColorName]color.NRGBA

var (
	lightPalette = palette{
		theme.ColorNameBackground:          {R: 0xf4, G: 0xf6, B: 0xf6, A: 0xff},
		theme.ColorNameButton:              {R: 0xe0, G: 0xea, B: 0xea, A: 0xff},
		theme.ColorNamePrimary:             {R: 0x00, G: 0x79, B: 0x6b, A: 0xff},
		theme.ColorNameHover:               {R: 0xb2, G: 0xdf, B: 0xdb, A: 0xff},
		theme.ColorNameFocus:               {R: 0x00, G: 0x89, B: 0x7b, A: 0xff},
		theme.ColorNameForeground:          {R: 0x26, G: 0x32, B: 0x38, A: 0xff},
		theme.ColorNameInputBackground:     {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		theme.ColorNameSelection:           {R: 0xb2, G: 0xdf, B: 0xdb, A: 0xff},
		theme.ColorNameHeaderBackground:    {R: 0xe0, G: 0xf2, B: 0xf1, A: 0xff},
		theme.ColorNameForegroundOnPrimary: {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	darkPalette = palette{
		theme.ColorNameBackground:          {R: 0x1b, G: 0x22, B: 0x24, A: 0xff},
		theme.ColorNameButton:              {R: 0x2b, G: 0x36, B: 0x38, A: 0xff},
		theme.ColorNamePrimary:             {R: 0x4d, G: 0xb6, B: 0xac, A: 0xff},
		theme.ColorNameHover:               {R: 0x37, G: 0x47, B: 0x4f, A: 0xff},
		theme.ColorNameFocus:               {R: 0x80, G: 0xcb, B: 0xc4, A: 0xff},
		theme.ColorNameForeground:          {R: 0xe0, G: 0xe6, B: 0xe6, A: 0xff},
		theme.ColorNameInputBackground:     {R: 0x26, G: 0x30, B: 0x32, A: 0xff},
		theme.ColorNameSelection:           {R: 0x00, G: 0x69, B: 0x5c, A: 0xff},
		theme.ColorNameHeaderBackground:    {R: 0x23, G: 0x2d, B: 0x2f, A: 0xff},
		theme.ColorNameForegroundOnPrimary: {R: 0x10, G: 0x18, B: 0x1a, A: 0xff},
	}
)

func (m scenarioTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	p := darkPalette
	if variant == theme.VariantLight {
		p = lightPalette
	}
	if c, ok := p[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m scenarioTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m scenarioTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m scenarioTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInnerPadding:
		return 8
	case theme.SizeNameScrollBar:
		return 10
	case theme.SizeNameSeparatorThickness:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
