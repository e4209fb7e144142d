package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalizePaletteMixedFrontOrdering(t *testing.T) {
	cm := &Colormap{Entries: []ColormapEntry{
		{Color: LinearPixel{R: 1, G: 0, B: 0, A: 1}, Popularity: 5},
		{Color: LinearPixel{R: 0, G: 1, B: 0, A: 0.5}, Popularity: 1},
		{Color: LinearPixel{R: 0, G: 0, B: 1, A: 0.5}, Popularity: 9},
	}}

	res := FinalizePalette(cm, FinalizeParams{OutputGamma: DefaultGamma})
	assert.Len(t, res.Palette.Entries, 3)
	assert.Equal(t, 2, res.NumTrans, "both mixed-alpha entries should lead, so NumTrans counts them")
	assert.Greater(t, res.Palette.Entries[0].B, uint8(0), "higher-popularity mixed entry should sort first")
}

func TestFinalizePaletteLastIndexTransparent(t *testing.T) {
	cm := &Colormap{Entries: []ColormapEntry{
		{Color: LinearPixel{R: 1, G: 0, B: 0, A: 1}, Popularity: 1},
		{Color: LinearPixel{R: 0, G: 0, B: 0, A: 0}, Popularity: 1},
		{Color: LinearPixel{R: 0, G: 1, B: 0, A: 1}, Popularity: 5},
	}}

	res := FinalizePalette(cm, FinalizeParams{OutputGamma: DefaultGamma, LastIndexTransparent: true})
	last := res.Palette.Entries[len(res.Palette.Entries)-1]
	assert.Equal(t, uint8(0), last.A)
	assert.Equal(t, 1, res.NumTrans)
}

func TestFinalizePaletteReconvergesColormapColor(t *testing.T) {
	cm := &Colormap{Entries: []ColormapEntry{
		{Color: LinearPixel{R: 0.30001, G: 0, B: 0, A: 1}, Popularity: 1},
	}}
	FinalizePalette(cm, FinalizeParams{OutputGamma: DefaultGamma})

	table := NewGammaTable(DefaultGamma)
	assert.Contains(t, table.toLinear[:], cm.Entries[0].Color.R, "the colormap color should be exactly one of the gamma table's representable linear values after finalization")
}
