package quant

import "sort"

// HistEntry is one weighted unique color in a Histogram (spec §3).
// PerceptualWeight holds the weight as built; AdjustedWeight is what C4
// and C6 actually consume and what C7 mutates between search trials.
type HistEntry struct {
	Color            LinearPixel
	PerceptualWeight float64
	AdjustedWeight   float64
}

// Histogram is the weighted, unique-color table the rest of the engine
// quantizes against. Colors are immutable after BuildHistogram returns;
// only the weights are mutated (by the C7 search driver).
type Histogram struct {
	Entries []HistEntry
}

const minPerceptualWeight = 1.0 / 256.0

type histKey struct{ r, g, b, a uint8 }

// maxHistogramEntries bounds histogram size by speed: faster settings
// accept coarser posterization sooner and so tolerate (and build) smaller
// tables.
func maxHistogramEntries(speed int) int {
	switch {
	case speed >= 8:
		return 5_000
	case speed >= 5:
		return 25_000
	case speed >= 3:
		return 60_000
	default:
		return 120_000
	}
}

// BuildHistogram builds a weighted histogram from img's pixels, posterizing
// (stripping the low ignorebits of each channel) whenever the exact-color
// table would otherwise exceed maxHistogramEntries(speed), per spec §4.3.
func BuildHistogram(img *Image, speed int) *Histogram {
	ignoreBits := 0
	if speed >= 8 {
		ignoreBits = 1
	}
	limit := maxHistogramEntries(speed)

	for {
		h, ok := tryBuildHistogram(img, ignoreBits, limit)
		if ok {
			return h
		}
		ignoreBits++
		if ignoreBits > 7 {
			// Can't posterize further; return whatever the coarsest table holds.
			h, _ = tryBuildHistogram(img, 7, limit)
			return h
		}
	}
}

func tryBuildHistogram(img *Image, ignoreBits int, limit int) (*Histogram, bool) {
	mask := uint8(0xFF << ignoreBits)

	type accum struct {
		sumR, sumG, sumB, sumA float64
		weight                 float64
	}
	table := make(map[histKey]*accum)

	w, h := img.width, img.height
	noise := img.noise

	for y := 0; y < h; y++ {
		row := img.RowAt(y)
		for x := 0; x < w; x++ {
			o := x * 4
			px := RGBAPixel{R: row[o], G: row[o+1], B: row[o+2], A: row[o+3]}
			key := histKey{px.R & mask, px.G & mask, px.B & mask, px.A & mask}

			a, ok := table[key]
			if !ok {
				if len(table) >= limit {
					return nil, false
				}
				a = &accum{}
				table[key] = a
			}

			weight := 1.0
			if noise != nil {
				weight = 1 + 15*noise[y*w+x]
			}

			lp := img.gammaTable.ToLinear(px)
			a.sumR += lp.R * weight
			a.sumG += lp.G * weight
			a.sumB += lp.B * weight
			a.sumA += lp.A * weight
			a.weight += weight
		}
	}

	keys := make([]histKey, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	// Map iteration order is randomized per run; sorting by the posterized
	// key before building Entries keeps histogram order (and therefore
	// every downstream tie-break in median-cut and summation order in
	// Voronoi refinement) stable across runs of identical input, per §8.
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.r != b.r {
			return a.r < b.r
		}
		if a.g != b.g {
			return a.g < b.g
		}
		if a.b != b.b {
			return a.b < b.b
		}
		return a.a < b.a
	})

	entries := make([]HistEntry, 0, len(table))
	for _, k := range keys {
		a := table[k]
		weight := a.weight
		if weight < minPerceptualWeight {
			weight = minPerceptualWeight
		}
		entries = append(entries, HistEntry{
			Color: LinearPixel{
				R: a.sumR / a.weight,
				G: a.sumG / a.weight,
				B: a.sumB / a.weight,
				A: a.sumA / a.weight,
			},
			PerceptualWeight: weight,
			AdjustedWeight:   weight,
		})
	}

	return &Histogram{Entries: entries}, true
}
