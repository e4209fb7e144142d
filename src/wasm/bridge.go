//go:build js && wasm

package wasm

import (
	"fmt"
	"syscall/js"

	"github.com/mac/chromatiq/src/png"
)

/**
 * HandleEncodePng converts JS arguments to Go and calls EncodePng.
 * Expected arguments: (pixels: Uint8Array, width: number, height: number, colorType: number, preset: number, lossy: boolean, maxColors?: number)
 * When lossy is true, maxColors (2-255, default 256) turns on palette quantization with dithering.
 */
func HandleEncodePng(this js.Value, args []js.Value) any {
	if len(args) < 6 {
		return js.ValueOf("invalid arguments")
	}

	pixelsJS := args[0]
	width := args[1].Int()
	height := args[2].Int()
	colorType := args[3].Int()
	preset := args[4].Int()
	lossy := args[5].Bool()
	maxColors := 0
	if len(args) > 6 {
		maxColors = args[6].Int()
	}

	// Copy JS buffer to Go slice
	pixels := make([]byte, pixelsJS.Get("length").Int())
	js.CopyBytesToGo(pixels, pixelsJS)

	output, err := EncodePng(pixels, width, height, colorType, preset, lossy, maxColors)
	if err != nil {
		return js.ValueOf(fmt.Sprintf("error: %v", err))
	}

	// Copy Go slice back to JS
	dst := js.Global().Get("Uint8Array").New(len(output))
	js.CopyBytesToJS(dst, output)

	return dst
}

/**
 * HandleBytesPerPixel returns the bytes per pixel for a given color type.
 * Expected arguments: (colorType: number)
 */
func HandleBytesPerPixel(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	colorType := args[0].Int()
	return js.ValueOf(BytesPerPixel(colorType))
}

/**
 * EncodePng encodes pixels as a PNG image using the chromatiq PNG encoder.
 * preset selects the compression/filter tradeoff (0=fast, 1=balanced, 2=max);
 * when lossy is true, maxColors (2-255, default 256 meaning "unset") enables
 * palette quantization with dithering before the lossless pipeline runs.
 * Returns PNG file bytes ready to be written to a file or used in a browser.
 */
func EncodePng(pixels []byte, width, height int, colorType, preset int, lossy bool, maxColors int) ([]byte, error) {
	var pngColorType png.ColorType
	switch colorType {
	case 0:
		pngColorType = png.ColorGrayscale
	case 2:
		pngColorType = png.ColorRGB
	case 6:
		pngColorType = png.ColorRGBA
	default:
		return nil, fmt.Errorf("unsupported color type: %d", colorType)
	}

	var opts png.Options
	switch preset {
	case 0:
		opts = png.FastOptions(width, height)
	case 2:
		opts = png.MaxOptions(width, height)
	default:
		opts = png.BalancedOptions(width, height)
	}
	opts.ColorType = pngColorType

	if lossy {
		if maxColors <= 1 || maxColors >= 256 {
			maxColors = 255
		}
		opts.MaxColors = maxColors
		opts.Dithering = true
	}

	encoder, err := png.NewEncoderWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	pngBytes, err := encoder.Encode(pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return pngBytes, nil
}

/**
 * BytesPerPixel returns bytes per pixel based on color type.
 * 2 = RGB, 6 = RGBA
 */
func BytesPerPixel(colorType int) int {
	switch colorType {
	case 2: // RGB
		return 3
	case 6: // RGBA
		return 4
	default:
		return 4
	}
}
