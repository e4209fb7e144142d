package quant

import "math"

// ditherSeed is the fixed constant the dither noise generator is seeded
// with, so identical inputs at identical speed settings always produce
// byte-identical dithered output (spec §8 property 7).
const ditherSeed uint64 = 0x9E3779B97F4A7C15

// splitmix64 is a small, pure-integer PRNG: deterministic across platforms
// and Go versions, unlike relying on math/rand's internal algorithm.
type splitmix64 struct{ state uint64 }

func newDitherRNG() *splitmix64 { return &splitmix64{state: ditherSeed} }

func (r *splitmix64) next01() float64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return float64(z>>11) / float64(uint64(1)<<53)
}

// signedNoise returns a deterministic pseudo-random value in [-amp, amp].
func (r *splitmix64) signedNoise(amp float64) float64 {
	return (r.next01()*2 - 1) * amp
}

type errVec [4]float64

func (e errVec) mag2() float64 {
	return e[0]*e[0] + e[1]*e[1] + e[2]*e[2] + e[3]*e[3]
}

func (e errVec) scale(k float64) errVec {
	return errVec{e[0] * k, e[1] * k, e[2] * k, e[3] * k}
}

func (e errVec) add(o errVec) errVec {
	return errVec{e[0] + o[0], e[1] + o[1], e[2] + o[2], e[3] + o[3]}
}

func linearToVec(p LinearPixel) errVec { return errVec{p.R, p.G, p.B, p.A} }
func vecToLinear(e errVec) LinearPixel { return LinearPixel{R: e[0], G: e[1], B: e[2], A: e[3]} }

// DitherParams configures the C9 serpentine Floyd-Steinberg remapper.
type DitherParams struct {
	DitherLevel     float64 // used where img's dither map has no entry
	MaxDitherError  float64
	MinOpaqueVal    float64
	AlreadyRemapped []byte // non-nil on the second pass of a use-dither-map run
}

// RemapDithered applies serpentine Floyd-Steinberg error diffusion,
// modulated by img's dither map (or 15/16 where absent), per spec §4.9.
// Returns the index plane and the average per-pixel squared error.
func RemapDithered(img *Image, cm *Colormap, idx *NearestIndex, p DitherParams) ([]byte, float64) {
	w, h := img.width, img.height
	out := make([]byte, w*h)

	rng := newDitherRNG()
	errCurr := make([]errVec, w+2)
	errNext := make([]errVec, w+2)
	for x := range errCurr {
		amp := 0.5 / 255.0
		errCurr[x] = errVec{rng.signedNoise(amp), rng.signedNoise(amp), rng.signedNoise(amp), rng.signedNoise(amp)}
	}

	var totalErr, totalWeight float64

	for y := 0; y < h; y++ {
		for i := range errNext {
			errNext[i] = errVec{}
		}
		leftToRight := y%2 == 0

		xStart, xEnd, step := 0, w, 1
		if !leftToRight {
			xStart, xEnd, step = w-1, -1, -1
		}

		for x := xStart; x != xEnd; x += step {
			ditherLevel := p.DitherLevel
			if ditherLevel == 0 {
				ditherLevel = 15.0 / 16.0
			}
			if dm := img.ditherMap; dm != nil {
				ditherLevel = dm[y*w+x]
			}

			src := img.LinearAt(x, y)
			acc := errCurr[x+1]

			wouldBe := src
			if acc.mag2() >= 2.0/(255.0*255.0) {
				ratio := constrainRatio(src, acc, ditherLevel)
				if acc.mag2() > p.MaxDitherError {
					ratio *= 0.8
				}
				wouldBe = vecToLinear(clampVec(linearToVec(src).add(acc.scale(ratio * ditherLevel))))
			}

			var paletteIdx int
			var sqErr float64
			switch {
			case src.A < transparentAlphaThreshold && idx.transparentSlot >= 0:
				paletteIdx = idx.transparentSlot
				sqErr = ColorDifference(wouldBe, cm.Entries[paletteIdx].Color)
			case p.AlreadyRemapped != nil && keepsExistingIndex(cm, idx, wouldBe, p.AlreadyRemapped[y*w+x]):
				paletteIdx = int(p.AlreadyRemapped[y*w+x])
				sqErr = ColorDifference(wouldBe, cm.Entries[paletteIdx].Color)
			default:
				paletteIdx, sqErr = idx.Nearest(wouldBe, p.MinOpaqueVal)
			}

			out[y*w+x] = byte(paletteIdx)
			totalErr += sqErr
			totalWeight++

			paletteColor := cm.Entries[paletteIdx].Color
			residual := linearToVec(wouldBe).add(linearToVec(paletteColor).scale(-1))
			localLevel := ditherLevel
			if residual.mag2() > p.MaxDitherError {
				localLevel *= 0.75
			}

			rgbScale := (3 + paletteColor.A) / 4 * localLevel
			scaled := errVec{residual[0] * rgbScale, residual[1] * rgbScale, residual[2] * rgbScale, residual[3] * localLevel}

			distributeFS(errCurr, errNext, x, leftToRight, scaled)
		}

		errCurr, errNext = errNext, errCurr
	}

	if totalWeight == 0 {
		return out, 0
	}
	return out, totalErr / totalWeight
}

// distributeFS spreads a pixel's scaled residual using the Floyd-Steinberg
// weights 7/3/5/1 (spec glossary), mirrored horizontally when traveling
// right to left so the diffusion always points "forward" in scan order.
func distributeFS(curr, next []errVec, x int, leftToRight bool, e errVec) {
	fwd := 1
	if !leftToRight {
		fwd = -1
	}
	// index i in curr/next corresponds to column i-1 (one column of padding
	// on each side), so column c is at slice index c+1.
	addAt := func(row []errVec, col int, weight float64) {
		i := col + 1
		if i < 0 || i >= len(row) {
			return
		}
		row[i] = row[i].add(e.scale(weight))
	}
	addAt(curr, x+fwd, 7.0/16)
	addAt(next, x-fwd, 3.0/16)
	addAt(next, x, 5.0/16)
	addAt(next, x+fwd, 1.0/16)
}

// constrainRatio finds the largest ratio in [0,1] such that
// src + acc*ratio*ditherLevel stays within [0,1] on every channel.
func constrainRatio(src LinearPixel, acc errVec, ditherLevel float64) float64 {
	ratio := 1.0
	s := linearToVec(src)
	for i := 0; i < 4; i++ {
		e := acc[i] * ditherLevel
		if e == 0 {
			continue
		}
		var bound float64
		if e > 0 {
			bound = (1 - s[i]) / e
		} else {
			bound = (0 - s[i]) / e
		}
		if bound < 0 {
			bound = 0
		}
		if bound < ratio {
			ratio = bound
		}
	}
	return ratio
}

func clampVec(e errVec) errVec {
	for i := range e {
		e[i] = clamp01(e[i])
	}
	return e
}

// keepsExistingIndex implements the "output_image_is_remapped" shortcut
// of spec §4.9: on a second dithering pass, a pixel that already maps to
// a palette color within a quarter of the distance to the next-nearest
// entry keeps its existing index rather than re-searching.
func keepsExistingIndex(cm *Colormap, idx *NearestIndex, q LinearPixel, existing byte) bool {
	i := int(existing)
	if i < 0 || i >= len(cm.Entries) {
		return false
	}
	dExisting := ColorDifference(q, cm.Entries[i].Color)
	_, dNearest := idx.Nearest(q, 0)
	if dExisting <= dNearest {
		return true
	}
	tolerance := dNearest / 4
	return dExisting-dNearest <= tolerance
}

// MaxDitherError computes max_dither_error from the construction/first-pass
// error, per spec §4.9: max(2.4*baseError, 16/255).
func MaxDitherError(baseError float64) float64 {
	return math.Max(2.4*baseError, 16.0/255.0)
}

// shouldUseDitherMap reports whether a Quantize call at this speed should
// enable the two-pass use_dither_map behavior of spec §4.9's last
// paragraph. Gated on the same speed threshold as ComputeImportanceMaps
// (spec §6: "1 = slow/best: enables contrast maps, dither map...") since
// the map it produces is only useful alongside the noise/edge maps those
// speeds also compute.
func shouldUseDitherMap(speed int) bool {
	return speed <= 7
}

// updateDitherMap builds the per-pixel dither amplitude map from a first,
// plain remapping pass, per spec §4.9: pixels whose 4-neighborhood in the
// first-pass index plane is entirely the same palette entry are a flat
// plateau and get dithering down-weighted (to avoid introducing visible
// noise where plain remapping already looks clean); pixels on a noise/edge
// map's high-importance regions keep a higher amplitude regardless, since
// those are exactly the pixels C2 flagged as benefiting from dithering.
func updateDitherMap(idxPlane []byte, w, h int, noise []float64) []float64 {
	out := make([]float64, w*h)
	neighbors := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			same, total := 0, 0
			for _, d := range neighbors {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				total++
				if idxPlane[ny*w+nx] == idxPlane[i] {
					same++
				}
			}
			flatness := 0.0
			if total > 0 {
				flatness = float64(same) / float64(total)
			}
			level := 1.0 - flatness*0.75
			if noise != nil {
				level = clamp01(level + (1-level)*noise[i])
			}
			out[i] = level
		}
	}
	return out
}
