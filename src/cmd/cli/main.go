package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/mac/chromatiq/src/png"
)

func main() {
	var (
		inputFile  = flag.String("input", "", "Input image file (PNG, JPEG, BMP, or WebP)")
		outputFile = flag.String("output", "", "Output PNG file (default: input with .png extension)")
		preset     = flag.String("preset", "balanced", "Encoding preset: fast, balanced, max")

		maxColors  = flag.Int("max-colors", 0, "Quantize to at most N colors (2-255); 0 disables quantization")
		dither     = flag.Bool("dither", false, "Enable Floyd-Steinberg dithering when quantizing")
		speed      = flag.Int("speed", 0, "Quantization speed 1 (thorough) to 10 (fast); 0 uses the default")
		qualityMin = flag.Int("quality-min", 0, "Minimum acceptable quantization quality 0-100")
		qualityMax = flag.Int("quality-max", 0, "Target quantization quality 0-100")
		lastTrans  = flag.Bool("last-index-transparent", false, "Place a single transparent entry at the final palette index")
	)
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -input is required\n")
		flag.Usage()
		os.Exit(1)
	}

	if *outputFile == "" {
		*outputFile = (*inputFile)[:len(*inputFile)-len(getExt(*inputFile))] + ".png"
	}

	file, err := os.Open(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Decoded %s image: %dx%d\n", format, img.Bounds().Dx(), img.Bounds().Dy())

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var colorType png.ColorType
	var pixels []byte

	switch img.(type) {
	case *image.RGBA:
		colorType = png.ColorRGBA
		rgba := img.(*image.RGBA)
		pixels = rgba.Pix
	case *image.NRGBA:
		colorType = png.ColorRGBA
		nrgba := img.(*image.NRGBA)
		pixels = make([]byte, width*height*4)
		for i := 0; i < len(nrgba.Pix); i += 4 {
			pixels[i] = nrgba.Pix[i]
			pixels[i+1] = nrgba.Pix[i+1]
			pixels[i+2] = nrgba.Pix[i+2]
			pixels[i+3] = nrgba.Pix[i+3]
		}
	default:
		rgba := image.NewRGBA(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				rgba.Set(x, y, img.At(x, y))
			}
		}
		colorType = png.ColorRGBA
		pixels = rgba.Pix
	}

	opts, err := optionsFromPreset(*preset, width, height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts.ColorType = colorType

	if *maxColors > 0 {
		opts.MaxColors = *maxColors
		opts.Dithering = *dither
		opts.Speed = *speed
		opts.QualityMin = *qualityMin
		opts.QualityMax = *qualityMax
		opts.LastIndexTransparent = *lastTrans
	}

	encoder, err := png.NewEncoderWithOptions(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating encoder: %v\n", err)
		os.Exit(1)
	}

	pngData, err := encoder.Encode(pixels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding PNG: %v\n", err)
		os.Exit(1)
	}

	outFile, err := os.Create(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	_, err = outFile.Write(pngData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully compressed to %s (%d bytes)\n", *outputFile, len(pngData))
}

func optionsFromPreset(preset string, width, height int) (png.Options, error) {
	switch preset {
	case "fast":
		return png.FastOptions(width, height), nil
	case "balanced":
		return png.BalancedOptions(width, height), nil
	case "max":
		return png.MaxOptions(width, height), nil
	default:
		return png.Options{}, fmt.Errorf("unknown preset %q (want fast, balanced, or max)", preset)
	}
}

func getExt(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}
	return ""
}
