// Package colour provides colour extraction and semantic palette synthesis.
package colour

// Built-in fallback palettes, applied when a wallpaper cannot be decoded or
// yields no usable colours. Both satisfy the same luminance and contrast
// invariants as synthesized palettes.
var (
	defaultDark = Palette{
		Mode:         ModeDark,
		Background:   RGB{R: 0x16, G: 0x16, B: 0x1e},
		Surface:      RGB{R: 0x20, G: 0x20, B: 0x2a},
		Primary:      RGB{R: 0x7a, G: 0xa2, B: 0xf7},
		Accent:       RGB{R: 0xbb, G: 0x9a, B: 0xf7},
		OnBackground: RGB{R: 0xff, G: 0xff, B: 0xff},
		OnSurface:    RGB{R: 0xff, G: 0xff, B: 0xff},
		OnPrimary:    RGB{R: 0x00, G: 0x00, B: 0x00},
		OnAccent:     RGB{R: 0x00, G: 0x00, B: 0x00},
	}

	defaultLight = Palette{
		Mode:         ModeLight,
		Background:   RGB{R: 0xe6, G: 0xe6, B: 0xef},
		Surface:      RGB{R: 0xd6, G: 0xd6, B: 0xe2},
		Primary:      RGB{R: 0x2e, G: 0x59, B: 0xa8},
		Accent:       RGB{R: 0x6c, G: 0x3f, B: 0xa8},
		OnBackground: RGB{R: 0x00, G: 0x00, B: 0x00},
		OnSurface:    RGB{R: 0x00, G: 0x00, B: 0x00},
		OnPrimary:    RGB{R: 0xff, G: 0xff, B: 0xff},
		OnAccent:     RGB{R: 0xff, G: 0xff, B: 0xff},
	}
)

// DefaultPalette returns the built-in fallback palette for a mode.
func DefaultPalette(mode Mode) Palette {
	if mode == ModeLight {
		return defaultLight
	}
	return defaultDark
}
