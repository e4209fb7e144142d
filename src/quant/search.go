package quant

import "math"

// SearchParams configures the C7 palette search driver.
type SearchParams struct {
	MaxColors   int
	TargetMSE   float64 // 0 disables the target (first Voronoi pass always runs)
	MaxMSE      float64 // "quality floor"; 0 disables the floor check
	Speed       int     // 1..10
	MaxTrials   int     // feedback_loop_trials, speed-derived
	Logger      Logger
}

// SearchResult is the winning colormap plus the error the search driver
// measured it at.
type SearchResult struct {
	Colormap *Colormap
	MSE      float64
}

// feedbackLoopTrials implements the speed-derived trial budget named in
// spec §6 ("speed 1..10 ... 56-9*s palette trials").
func feedbackLoopTrials(speed int) int {
	t := 56 - 9*speed
	if t < 1 {
		t = 1
	}
	return t
}

// RunPaletteSearch runs the C4/C6 feedback loop of spec §4.7, mutating
// hist's AdjustedWeight in place between trials. Returns the best
// colormap found and its MSE; returns (nil, false) when the quality
// floor (MaxMSE) is not met after all trials and the extra post-loop
// Voronoi passes have run.
func RunPaletteSearch(hist *Histogram, p SearchParams) (*SearchResult, bool) {
	maxColors := p.MaxColors
	trials := p.MaxTrials
	if trials <= 0 {
		trials = feedbackLoopTrials(p.Speed)
	}

	s := 1.0
	if trials > 1 {
		s = 1.05
	}

	var best *Colormap
	bestErr := math.Inf(1)
	firstTrial := true

	for trials > 0 {
		target := p.TargetMSE * s
		if target <= 0 {
			target = p.TargetMSE
		}
		cm := MedianCut(hist, maxColors, target)

		var err float64
		runVoronoi := !(firstTrial && p.TargetMSE > 0)
		if runVoronoi {
			idx := BuildNearestIndex(cm)
			err = VoronoiRefine(hist, cm, idx, func(i, _ int, sqErr float64) {
				hist.Entries[i].AdjustedWeight *= math.Sqrt(1 + sqErr)
			})
		} else {
			err = measureMSE(hist, cm)
		}
		firstTrial = false

		improved := err < bestErr
		floorOK := p.TargetMSE > 0 && err <= p.TargetMSE && len(cm.Entries) < maxColors

		if improved || floorOK {
			best, bestErr = cm, err
			if p.TargetMSE > 0 && err > 0 {
				s *= clampRatio(p.TargetMSE / err)
			}
			if len(cm.Entries)+1 < maxColors {
				maxColors = len(cm.Entries) + 1
			}
			trials--
			safeLogf(p.Logger, "search: trial accepted colors=%d mse=%.6f deltaE94=%.4f", len(cm.Entries), err, advisoryDeltaE94(hist, cm))
		} else {
			for i := range hist.Entries {
				hist.Entries[i].AdjustedWeight = (hist.Entries[i].PerceptualWeight + hist.Entries[i].AdjustedWeight) / 2
			}
			s = 1.0
			dec := 6
			if err > 4*bestErr {
				dec = 9
			}
			trials -= dec
			safeLogf(p.Logger, "search: trial rejected colors=%d mse=%.6f", len(cm.Entries), err)
		}
	}

	if best == nil {
		return nil, false
	}

	bestErr = polishWithExtraVoronoi(hist, best, bestErr, p.Speed)

	if p.MaxMSE > 0 && bestErr > p.MaxMSE {
		return nil, false
	}
	return &SearchResult{Colormap: best, MSE: bestErr}, true
}

// polishWithExtraVoronoi runs the speed-derived extra Voronoi passes of
// spec §4.7 ("after termination run additional speed-derived Voronoi
// iterations... until either an iteration changes error by less than
// 2^-(23-speed) or the cap is hit"). The exact growth law of the
// iteration cap is left open by the distilled spec; see DESIGN.md for
// the interpretation used here.
func polishWithExtraVoronoi(hist *Histogram, cm *Colormap, startErr float64, speed int) float64 {
	iterCap := extraVoronoiCap(speed)
	threshold := math.Pow(2, -(23 - float64(speed)))
	err := startErr
	for i := 0; i < iterCap; i++ {
		idx := BuildNearestIndex(cm)
		next := VoronoiRefine(hist, cm, idx, nil)
		delta := err - next
		if delta < 0 {
			delta = -delta
		}
		err = next
		if delta < threshold {
			break
		}
	}
	return err
}

func extraVoronoiCap(speed int) int {
	base := 8 - speed
	if base < 0 {
		base = 0
	}
	return base + 4
}

func clampRatio(r float64) float64 {
	if r < 0.1 {
		return 0.1
	}
	if r > 10 {
		return 10
	}
	return r
}

func measureMSE(hist *Histogram, cm *Colormap) float64 {
	idx := BuildNearestIndex(cm)
	var totalErr, totalWeight float64
	for _, e := range hist.Entries {
		_, d := idx.Nearest(e.Color, 0)
		totalErr += d * e.AdjustedWeight
		totalWeight += e.AdjustedWeight
	}
	if totalWeight == 0 {
		return 0
	}
	return totalErr / totalWeight
}
