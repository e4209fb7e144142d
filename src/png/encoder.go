package png

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mac/chromatiq/src/quant"
)

type Encoder struct {
	width     int
	height    int
	colorType ColorType
	opts      Options
}

func NewEncoder(width, height int, colorType ColorType) (*Encoder, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	// Validate parameters by creating a dummy IHDR
	if _, err := NewIHDRData(width, height, 8, uint8(colorType)); err != nil {
		return nil, err
	}

	opts := FastOptions(width, height)
	opts.ColorType = colorType

	return &Encoder{
		width:     width,
		height:    height,
		colorType: colorType,
		opts:      opts,
	}, nil
}

func NewEncoderWithOptions(opts Options) (*Encoder, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrInvalidDimensions
	}

	// Validate parameters by creating a dummy IHDR
	if _, err := NewIHDRData(opts.Width, opts.Height, 8, uint8(opts.ColorType)); err != nil {
		return nil, err
	}

	return &Encoder{
		width:     opts.Width,
		height:    opts.Height,
		colorType: opts.ColorType,
		opts:      opts,
	}, nil
}

func (e *Encoder) Encode(pixels []byte) ([]byte, error) {
	return e.EncodeWithOptions(pixels, e.opts)
}

func (e *Encoder) EncodeWithOptions(pixels []byte, opts Options) ([]byte, error) {
	colorType := opts.ColorType
	bpp := BytesPerPixel(colorType)
	expectedSize := opts.Width * opts.Height * bpp
	if len(pixels) != expectedSize {
		return nil, fmt.Errorf("png: pixel count mismatch: got %d bytes, want %d", len(pixels), expectedSize)
	}

	processedPixels := pixels

	// 0. Quantization (Lossy) - before other optimizations
	if opts.MaxColors > 1 && opts.MaxColors < 256 {
		indexedPixels, palette, alpha, err := quantizeForEncode(processedPixels, colorType, opts)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer

		if err := writeSignature(&buf); err != nil {
			return nil, err
		}

		if err := writeIHDR(&buf, opts.Width, opts.Height, ColorIndexed); err != nil {
			return nil, err
		}

		if err := WritePLTE(&buf, palette); err != nil {
			return nil, err
		}

		if hasAnyTransparency(alpha) {
			if err := WriteTRNS(&buf, alpha); err != nil {
				return nil, err
			}
		}

		if err := WriteIDATWithOptions(&buf, indexedPixels, opts.Width, opts.Height, ColorIndexed, opts); err != nil {
			return nil, err
		}

		if err := writeIEND(&buf); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	}

	// 1. Color Reduction (Lossless)
	if opts.ReduceColorType {
		if CanReduceToRGB(processedPixels, opts.Width, opts.Height) {
			var err error
			processedPixels, colorType, err = ReduceToRGB(processedPixels, opts.Width, opts.Height)
			if err != nil {
				return nil, err
			}
			bpp = BytesPerPixel(colorType)
		} else if CanReduceToGrayscale(processedPixels, opts.Width, opts.Height, colorType) {
			var err error
			processedPixels, colorType, err = ReduceToGrayscale(processedPixels, opts.Width, opts.Height, colorType)
			if err != nil {
				return nil, err
			}
			bpp = BytesPerPixel(colorType)
		}
	}

	// 2. Alpha Optimization (RGB=0 when A=0)
	if opts.OptimizeAlpha && colorType == ColorRGBA {
		processedPixels = OptimizeAlpha(processedPixels, colorType)
	}

	var buf bytes.Buffer

	// 3. Write PNG Signature
	if err := writeSignature(&buf); err != nil {
		return nil, err
	}

	// 4. Write IHDR Chunk (Critical)
	if err := writeIHDR(&buf, opts.Width, opts.Height, colorType); err != nil {
		return nil, err
	}

	// Note: If we had ancillary chunks (metadata), we would check opts.StripMetadata
	// here before writing them. Currently, we only write required chunks.

	// 5. Write IDAT Chunk (Critical) - Includes Filter Strategy and Deflate Compression
	if err := WriteIDATWithOptions(&buf, processedPixels, opts.Width, opts.Height, colorType, opts); err != nil {
		return nil, err
	}

	// 6. Write IEND Chunk (Critical)
	if err := writeIEND(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeSignature(w io.Writer) error {
	_, err := w.Write(Signature())
	return err
}

func writeIHDR(w io.Writer, width, height int, colorType ColorType) error {
	ihdr, err := NewIHDRData(width, height, 8, uint8(colorType))
	if err != nil {
		return err
	}

	return WriteIHDR(w, ihdr)
}

func writeIEND(w io.Writer) error {
	return WriteIEND(w)
}

// quantizeForEncode runs the quant engine over pixels (in whatever
// colorType they're currently in) and returns the index plane, PLTE
// palette, and parallel alpha values for a tRNS chunk.
func quantizeForEncode(pixels []byte, colorType ColorType, opts Options) ([]byte, Palette, []uint8, error) {
	rgba := toRGBA(pixels, colorType)

	img, err := quant.NewImageFromBitmap(rgba, opts.Width, opts.Height, 0, true)
	if err != nil {
		return nil, Palette{}, nil, fmt.Errorf("png: quantize: %w", err)
	}

	attr := quant.NewAttributes()
	if err := attr.SetMaxColors(opts.MaxColors); err != nil {
		return nil, Palette{}, nil, fmt.Errorf("png: quantize: %w", err)
	}
	if opts.Speed > 0 {
		if err := attr.SetSpeed(opts.Speed); err != nil {
			return nil, Palette{}, nil, fmt.Errorf("png: quantize: %w", err)
		}
	}
	if opts.QualityMin > 0 || opts.QualityMax > 0 {
		max := opts.QualityMax
		if max == 0 {
			max = 100
		}
		if err := attr.SetQuality(opts.QualityMin, max); err != nil {
			return nil, Palette{}, nil, fmt.Errorf("png: quantize: %w", err)
		}
	}
	attr.SetLastIndexTransparent(opts.LastIndexTransparent)
	if !opts.Dithering {
		_ = attr.SetDitheringLevel(0)
	}

	result, err := attr.Quantize(img)
	if err != nil {
		return nil, Palette{}, nil, fmt.Errorf("png: quantize: %w", err)
	}

	indexed := make([]byte, opts.Width*opts.Height)
	if _, err := result.Remap(img, indexed); err != nil {
		return nil, Palette{}, nil, fmt.Errorf("png: quantize: %w", err)
	}

	palette, alpha := PaletteFromIntegerPalette(result.Palette())
	return indexed, palette, alpha, nil
}

// toRGBA expands pixels of any supported colorType into a 4-byte-per-pixel
// RGBA buffer, since the quant engine's Image is always RGBA.
func toRGBA(pixels []byte, colorType ColorType) []byte {
	if colorType == ColorRGBA {
		return pixels
	}
	bpp := BytesPerPixel(colorType)
	n := len(pixels) / bpp
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		src := pixels[i*bpp : i*bpp+bpp]
		dst := out[i*4 : i*4+4]
		switch colorType {
		case ColorGrayscale:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 255
		case ColorRGB:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 255
		default:
			copy(dst, src)
			for j := len(src); j < 4; j++ {
				dst[j] = 255
			}
		}
	}
	return out
}

// hasAnyTransparency reports whether alpha has at least one value below
// fully opaque, so the encoder can skip writing an all-opaque tRNS chunk.
func hasAnyTransparency(alpha []uint8) bool {
	for _, a := range alpha {
		if a < 255 {
			return true
		}
	}
	return false
}
