package renderer

import "github.com/lucasb-eyer/go-colorful"

// CirclePalette assigns each band a fully saturated color. Bands beyond
// the palette wrap around.
var CirclePalette = []colorful.Color{
	{R: 1, G: 0, B: 1}, // magenta
	{R: 1, G: 1, B: 0}, // yellow
	{R: 0, G: 1, B: 1}, // cyan
	{R: 1, G: 0, B: 0}, // red
	{R: 0, G: 1, B: 0}, // green
	{R: 0, G: 0, B: 1}, // blue
}

// BandColor returns the palette color for a band index.
func BandColor(band int) colorful.Color {
	if band < 0 {
		band = 0
	}
	return CirclePalette[band%len(CirclePalette)]
}
