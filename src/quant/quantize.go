package quant

// Quantize runs the full C1-C10 pipeline over img and returns a Result
// ready to remap: importance maps, weighted histogram, median-cut seed
// palette, the feedback-driven Voronoi search, and palette finalization
// (spec §4, end to end). Returns ErrQualityTooLow if no palette trial met
// the configured quality floor.
func (a *Attributes) Quantize(img *Image) (*Result, error) {
	if img == nil {
		return nil, newError(ErrValueOutOfRange, "image is nil")
	}

	ComputeImportanceMaps(img, a.speed)
	hist := BuildHistogram(img, a.speed)
	if len(hist.Entries) == 0 {
		return nil, newError(ErrValueOutOfRange, "image has no pixels to quantize")
	}

	targetMSE := qualityToMSE(a.qualityMax)
	maxMSE := qualityToMSE(a.qualityMin)

	maxColors := a.maxColors
	if maxColors > len(hist.Entries)+1 {
		// A colormap can't usefully exceed the number of distinct colors
		// seen (plus a transparent slot); RunPaletteSearch tolerates a
		// looser bound fine, but this avoids searching a needlessly large
		// space on small or flat images.
		maxColors = len(hist.Entries) + 1
	}

	sr, ok := RunPaletteSearch(hist, SearchParams{
		MaxColors: maxColors,
		TargetMSE: targetMSE,
		MaxMSE:    maxMSE,
		Speed:     a.speed,
		Logger:    a.logger,
	})
	if !ok {
		return nil, newError(ErrQualityTooLow, "no palette reached the configured quality floor")
	}

	fr := FinalizePalette(sr.Colormap, FinalizeParams{
		OutputGamma:          a.outputGamma,
		LastIndexTransparent: a.lastIndexTransparent,
	})

	// FinalizePalette reorders sr.Colormap's entries in place, so the
	// nearest-color index must be rebuilt against the final order before
	// any remap call uses it.
	idx := BuildNearestIndex(sr.Colormap)

	return &Result{
		colormap:     sr.Colormap,
		index:        idx,
		palette:      fr,
		ditherLevel:  a.ditherLevel,
		minOpaque:    a.minOpacity,
		outputGamma:  a.outputGamma,
		logger:       a.logger,
		useDitherMap: shouldUseDitherMap(a.speed),
		paletteErr:   sr.MSE,
	}, nil
}
