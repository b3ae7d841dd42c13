package chart

import "image/color"

// defaultPalette is the eight-color series cycle applied when a dataset
// carries no explicit colors. Datasets are colored by index modulo eight.
var defaultPalette = [8]color.RGBA{
	{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}, // blue
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}, // red
	{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF}, // green
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF}, // amber
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF}, // violet
	{R: 0xEC, G: 0x48, B: 0x99, A: 0xFF}, // pink
	{R: 0x0E, G: 0xA5, B: 0xE9, A: 0xFF}, // sky
	{R: 0x22, G: 0xC5, B: 0x5E, A: 0xFF}, // lime
}

// PaletteColor returns the default series color for a dataset index.
func PaletteColor(index int) color.RGBA {
	if index < 0 {
		index = -index
	}
	return defaultPalette[index%len(defaultPalette)]
}

// seriesColor resolves the draw color for a dataset: caller-supplied
// overrides win, otherwise the default palette cycles by position.
func seriesColor(index int, overrides []string) color.RGBA {
	if index >= 0 && index < len(overrides) {
		if parsed, err := ParseColor(overrides[index]); err == nil {
			return parsed
		}
	}
	return PaletteColor(index)
}

func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(alpha*255 + 0.5)
	return c
}
