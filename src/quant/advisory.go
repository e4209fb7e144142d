package quant

import "github.com/lucasb-eyer/go-colorful"

// advisoryDeltaE94 reports a perceptually-named quality number for an
// accepted trial's colormap, purely so an operator reading logs gets a
// familiar ΔE94/Lab figure alongside the engine's own weighted-MSE (§4.1).
// It is never consulted by the search driver itself (§8 property 7):
// a panic or nonsense value here cannot change which trial wins.
func advisoryDeltaE94(hist *Histogram, cm *Colormap) float64 {
	if len(hist.Entries) == 0 || len(cm.Entries) == 0 {
		return 0
	}
	histColor := weightedMeanColorful(hist)
	cmColor := meanColormapColorful(cm)
	return histColor.DistanceCIE94(cmColor)
}

func weightedMeanColorful(hist *Histogram) colorful.Color {
	var r, g, b, w float64
	for _, e := range hist.Entries {
		weight := e.AdjustedWeight
		if weight <= 0 {
			weight = e.PerceptualWeight
		}
		r += e.Color.R * weight
		g += e.Color.G * weight
		b += e.Color.B * weight
		w += weight
	}
	if w == 0 {
		return colorful.Color{}
	}
	return colorful.Color{R: clamp01(r / w), G: clamp01(g / w), B: clamp01(b / w)}
}

func meanColormapColorful(cm *Colormap) colorful.Color {
	var r, g, b, w float64
	for _, e := range cm.Entries {
		weight := e.Popularity
		if weight <= 0 {
			weight = 1
		}
		r += e.Color.R * weight
		g += e.Color.G * weight
		b += e.Color.B * weight
		w += weight
	}
	if w == 0 {
		return colorful.Color{}
	}
	return colorful.Color{R: clamp01(r / w), G: clamp01(g / w), B: clamp01(b / w)}
}
