package quant

// mseReportScale converts the engine's raw weighted squared error into the
// units spec §6/§8.6 report it in (raw·65536/6), so error figures stay
// comparable across channel counts regardless of internal representation.
const mseReportScale = 65536.0 / 6.0

// Result is the C11 result object: a finalized palette plus everything
// needed to remap one or more images against it.
type Result struct {
	colormap     *Colormap
	index        *NearestIndex
	palette      FinalizeResult
	ditherLevel  float64
	minOpaque    float64
	outputGamma  float64
	logger       Logger
	useDitherMap bool

	paletteErr float64 // MSE measured by the search/Voronoi stage
}

// Palette returns the finalized integer palette (spec §4.10, §4.11).
func (r *Result) Palette() IntegerPalette { return r.palette.Palette }

// NumTransparent returns the NumTrans bookkeeping value FinalizePalette
// computed, for callers writing a format-specific transparency chunk.
func (r *Result) NumTransparent() int { return r.palette.NumTrans }

// MSE returns the mean squared error the search driver measured for this
// result's palette against the source histogram, in units of raw·65536/6
// (spec §6, §8.6).
func (r *Result) MSE() float64 { return r.paletteErr * mseReportScale }

// SetDitheringLevel overrides the dithering strength used by Remap for
// this result, in [0,1]; 0 disables dithering.
func (r *Result) SetDitheringLevel(v float64) error {
	if v < 0 || v > 1 {
		return newError(ErrValueOutOfRange, "dithering level must be in [0,1], got %v", v)
	}
	r.ditherLevel = v
	return nil
}

// DitheringLevel returns the dithering strength Remap currently applies.
func (r *Result) DitheringLevel() float64 { return r.ditherLevel }

// Remap writes one index byte per pixel of img into out (which must be
// exactly Width()*Height() bytes long), choosing plain nearest-color
// remapping when the dithering level is 0 and serpentine Floyd-Steinberg
// otherwise (spec §4.8, §4.9). Returns the average per-pixel squared
// error of the written output, in units of raw·65536/6 (spec §6, §8.6).
//
// When this result's use-dither-map behavior is enabled and img doesn't
// already carry a dither map, a first plain pass is run to seed one (spec
// §4.9's last paragraph): update_dither_map down-weights dithering on flat
// same-index plateaus, and the dithered pass that follows reuses the first
// pass's index plane for the "already remapped" shortcut.
func (r *Result) Remap(img *Image, out []byte) (float64, error) {
	w, h := img.Width(), img.Height()
	if len(out) != w*h {
		return 0, newError(ErrBufferTooSmall, "output buffer has %d bytes, want %d", len(out), w*h)
	}

	if r.ditherLevel <= 0 {
		idxPlane, mse := RemapPlain(img, r.colormap, r.index, r.minOpaque)
		copy(out, idxPlane)
		return mse * mseReportScale, nil
	}

	baseError := r.paletteErr
	var alreadyRemapped []byte
	if r.useDitherMap && img.DitherMap() == nil {
		firstPass, firstMSE := RemapPlain(img, r.colormap, r.index, r.minOpaque)
		img.SetDitherMap(updateDitherMap(firstPass, w, h, img.NoiseMap()))
		alreadyRemapped = firstPass
		baseError = firstMSE
	}

	idxPlane, mse := RemapDithered(img, r.colormap, r.index, DitherParams{
		DitherLevel:     r.ditherLevel,
		MaxDitherError:  MaxDitherError(baseError),
		MinOpaqueVal:    r.minOpaque,
		AlreadyRemapped: alreadyRemapped,
	})
	copy(out, idxPlane)
	return mse * mseReportScale, nil
}
