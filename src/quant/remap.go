package quant

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

const transparentAlphaThreshold = 1.0 / 256.0

// RemapPlain assigns each pixel to its nearest palette entry (spec §4.8):
// fully transparent pixels go to the transparent slot, everything else is
// looked up via idx. Plain remapping and the Voronoi-style accumulation
// are parallel across rows (a fixed worker pool, per-worker accumulators
// merged after Wait()), then folded back into cm so the palette captures
// the image's actual color means. Returns the indexed plane and the
// average per-pixel squared error.
func RemapPlain(img *Image, cm *Colormap, idx *NearestIndex, minOpaqueVal float64) ([]byte, float64) {
	w, h := img.width, img.height
	out := make([]byte, w*h)

	workers := runtime.GOMAXPROCS(0)
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}
	rowsPerWorker := (h + workers - 1) / workers

	n := len(cm.Entries)
	perWorker := make([][]voronoiAccum, workers)

	var g errgroup.Group
	for wi := 0; wi < workers; wi++ {
		wi := wi
		y0 := wi * rowsPerWorker
		y1 := y0 + rowsPerWorker
		if y0 >= h {
			continue
		}
		if y1 > h {
			y1 = h
		}
		g.Go(func() error {
			acc := make([]voronoiAccum, n)
			for y := y0; y < y1; y++ {
				row := img.RowAt(y)
				for x := 0; x < w; x++ {
					o := x * 4
					px := RGBAPixel{R: row[o], G: row[o+1], B: row[o+2], A: row[o+3]}
					lp := img.gammaTable.ToLinear(px)

					var pi int
					var d float64
					if lp.A < transparentAlphaThreshold && idx.transparentSlot >= 0 {
						pi = idx.transparentSlot
						d = ColorDifference(lp, cm.Entries[pi].Color)
					} else {
						pi, d = idx.Nearest(lp, minOpaqueVal)
					}

					out[y*w+x] = byte(pi)

					a := &acc[pi]
					a.sumR += lp.R
					a.sumG += lp.G
					a.sumB += lp.B
					a.sumA += lp.A
					a.weight++
					a.sqErrWeighted += d
				}
			}
			perWorker[wi] = acc
			return nil
		})
	}
	_ = g.Wait()

	merged := make([]voronoiAccum, n)
	for _, acc := range perWorker {
		if acc == nil {
			continue
		}
		for i := range acc {
			merged[i].sumR += acc[i].sumR
			merged[i].sumG += acc[i].sumG
			merged[i].sumB += acc[i].sumB
			merged[i].sumA += acc[i].sumA
			merged[i].weight += acc[i].weight
			merged[i].sqErrWeighted += acc[i].sqErrWeighted
		}
	}

	var totalWeight, totalErr float64
	for i := range merged {
		m := merged[i]
		totalWeight += m.weight
		totalErr += m.sqErrWeighted
		if m.weight > 0 {
			cm.Entries[i].Color = LinearPixel{
				R: m.sumR / m.weight,
				G: m.sumG / m.weight,
				B: m.sumB / m.weight,
				A: m.sumA / m.weight,
			}
		}
	}

	if totalWeight == 0 {
		return out, 0
	}
	return out, totalErr / totalWeight
}
