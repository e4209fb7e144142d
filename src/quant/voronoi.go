package quant

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// VoronoiCallback is invoked once per histogram entry after its nearest
// palette index is known, with the entry's per-entry squared error. The
// C7 search driver uses this to reweight entries between trials; callers
// that don't need it may pass nil.
type VoronoiCallback func(entryIdx, paletteIdx int, sqErr float64)

type voronoiAccum struct {
	sumR, sumG, sumB, sumA float64
	weight                 float64
	sqErrWeighted          float64
}

// VoronoiRefine runs one k-means-style iteration (spec §4.6): every
// histogram entry is assigned to its nearest palette index via idx, the
// assignment is accumulated per palette index, and each palette color is
// replaced by its weighted centroid (entries that got no assignments are
// left unchanged). Returns the total weighted squared error / total
// weight. Per-entry assignment is parallelized across a fixed worker
// pool; each worker keeps its own accumulators, merged after Wait(), so
// results are reproducible for a fixed worker count (spec §5, §9).
func VoronoiRefine(hist *Histogram, cm *Colormap, idx *NearestIndex, cb VoronoiCallback) float64 {
	n := len(cm.Entries)
	if n == 0 || len(hist.Entries) == 0 {
		return 0
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(hist.Entries) {
		workers = len(hist.Entries)
	}
	if workers < 1 {
		workers = 1
	}

	perWorker := make([][]voronoiAccum, workers)
	chunk := (len(hist.Entries) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunk
		end := start + chunk
		if start >= len(hist.Entries) {
			continue
		}
		if end > len(hist.Entries) {
			end = len(hist.Entries)
		}
		g.Go(func() error {
			acc := make([]voronoiAccum, n)
			for i := start; i < end; i++ {
				e := hist.Entries[i]
				pi, d := idx.Nearest(e.Color, 0)
				a := &acc[pi]
				wgt := e.AdjustedWeight
				a.sumR += e.Color.R * wgt
				a.sumG += e.Color.G * wgt
				a.sumB += e.Color.B * wgt
				a.sumA += e.Color.A * wgt
				a.weight += wgt
				a.sqErrWeighted += d * wgt
				if cb != nil {
					cb(i, pi, d)
				}
			}
			perWorker[w] = acc
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
		return 0
	}
	return totalErr / totalWeight
}
