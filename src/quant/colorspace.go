package quant

import "math"

// DefaultGamma is the gamma assumed when a caller passes 0 (spec: "Gamma 0
// is interpreted as assume 1/2.2").
const DefaultGamma = 0.45455

const assumedGamma = 1.0 / 2.2

// RGBAPixel is a single 32-bit source or output pixel, byte per channel.
type RGBAPixel struct {
	R, G, B, A uint8
}

// LinearPixel is a pixel in gamma-linear float space, each channel in [0,1].
// Alpha is never gamma-transformed.
type LinearPixel struct {
	R, G, B, A float64
}

// GammaTable is a precomputed per-batch gamma expansion curve. Carrying it
// as an explicit value (rather than process-wide mutable state, which is
// what the format this engine was distilled from does) keeps conversions
// free of cross-batch interference when two images with different input
// gammas are processed concurrently.
type GammaTable struct {
	gamma    float64
	toLinear [256]float64
}

// NewGammaTable builds the expansion curve for one input gamma. Callers
// state the input gamma before a batch; every pixel converted through the
// same table is therefore consistent within that batch.
func NewGammaTable(gamma float64) *GammaTable {
	if gamma <= 0 {
		gamma = assumedGamma
	}
	t := &GammaTable{gamma: gamma}
	for i := 0; i < 256; i++ {
		t.toLinear[i] = math.Pow(float64(i)/255.0, gamma)
	}
	return t
}

// ToLinear decodes a byte pixel into gamma-linear float space.
func (t *GammaTable) ToLinear(p RGBAPixel) LinearPixel {
	return LinearPixel{
		R: t.toLinear[p.R],
		G: t.toLinear[p.G],
		B: t.toLinear[p.B],
		A: float64(p.A) / 255.0,
	}
}

// ToRGBA inverse-gamma's a linear pixel under outputGamma and rounds to bytes.
func ToRGBA(p LinearPixel, outputGamma float64) RGBAPixel {
	if outputGamma <= 0 {
		outputGamma = assumedGamma
	}
	inv := 1.0 / outputGamma
	return RGBAPixel{
		R: roundChannel(math.Pow(clamp01(p.R), inv)),
		G: roundChannel(math.Pow(clamp01(p.G), inv)),
		B: roundChannel(math.Pow(clamp01(p.B), inv)),
		A: roundChannel(clamp01(p.A)),
	}
}

func roundChannel(v float64) uint8 {
	v = v*255.0 + 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ColorDifference returns the weighted squared perceptual distance between
// a source (or histogram) color and a destination (palette) color. The
// chroma channels are weighted by the destination's alpha so a transparent
// palette entry is "cheap" along RGB (spec §3):
//
//	d² = (Δr² + Δg² + Δb²)·dst.A + Δa²·4
func ColorDifference(src, dst LinearPixel) float64 {
	dr := src.R - dst.R
	dg := src.G - dst.G
	db := src.B - dst.B
	da := src.A - dst.A
	return (dr*dr+dg*dg+db*db)*dst.A + da*da*4
}
