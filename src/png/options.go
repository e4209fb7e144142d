package png

type Preset int

const (
	PresetFast Preset = iota
	PresetBalanced
	PresetMax
)

type FilterStrategy int

const (
	FilterStrategyNone FilterStrategy = iota
	FilterStrategySub
	FilterStrategyUp
	FilterStrategyAverage
	FilterStrategyPaeth
	FilterStrategyMinSum
	FilterStrategyAdaptive
	FilterStrategyAdaptiveFast
)

type Options struct {
	Width           int
	Height          int
	ColorType       ColorType
	CompressionLevel int
	FilterStrategy  FilterStrategy
	OptimizeAlpha   bool
	ReduceColorType bool
	StripMetadata   bool
	OptimalDeflate  bool

	// MaxColors, when in [2,255], turns on lossy quantization: the image
	// is reduced to an indexed palette of at most this many colors before
	// any of the lossless steps below run. 0 (or >= 256) disables it.
	MaxColors int
	// Dithering enables serpentine Floyd-Steinberg error diffusion during
	// quantization; ignored when MaxColors is 0.
	Dithering bool
	// Speed trades quantization thoroughness for time, 1 (slowest, most
	// thorough) to 10 (fastest). 0 uses the quantizer's own default.
	Speed int
	// QualityMin/QualityMax bound the acceptable quantization quality,
	// each in [0,100]. Leaving both 0 disables the quality floor and
	// target entirely.
	QualityMin int
	QualityMax int
	// LastIndexTransparent places a single transparent palette entry at
	// the final index instead of grouping translucent entries at front.
	LastIndexTransparent bool
}

func FastOptions(width, height int) Options {
	return Options{
		Width:            width,
		Height:           height,
		ColorType:        ColorRGBA,
		CompressionLevel: 2,
		FilterStrategy:   FilterStrategyMinSum,
		OptimizeAlpha:    false,
		ReduceColorType:  false,
		StripMetadata:    false,
		OptimalDeflate:   false,
	}
}

func BalancedOptions(width, height int) Options {
	return Options{
		Width:            width,
		Height:           height,
		ColorType:        ColorRGBA,
		CompressionLevel: 6,
		FilterStrategy:   FilterStrategyAdaptive,
		OptimizeAlpha:    true,
		ReduceColorType:  true,
		StripMetadata:    true,
		OptimalDeflate:   false,
	}
}

func MaxOptions(width, height int) Options {
	return Options{
		Width:            width,
		Height:           height,
		ColorType:        ColorRGBA,
		CompressionLevel: 9,
		FilterStrategy:   FilterStrategyMinSum,
		OptimizeAlpha:    true,
		ReduceColorType:  true,
		StripMetadata:    true,
		OptimalDeflate:   true,
	}
}
