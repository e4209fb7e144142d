package quant

// Image is the C11 image object: an RGBA pixel grid addressed through a
// row-pointer vector, plus the optional per-pixel importance/dither maps
// that quantize and remap consume. Rows need not be contiguous, so a
// caller may hand in a sub-rectangle of a larger buffer.
type Image struct {
	gamma  float64
	width  int
	height int

	rows      [][]byte // each row is width*4 bytes, RGBA
	ownRows   bool
	ownPixels bool

	gammaTable *GammaTable

	noise     []float64 // width*height, set by ComputeImportanceMaps
	edges     []float64
	ditherMap []float64 // width*height, optional; built by remap or supplied
}

// NewImageFromBitmap creates an image backed by one contiguous RGBA buffer.
func NewImageFromBitmap(pixels []byte, width, height int, gamma float64, ownPixels bool) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, newError(ErrValueOutOfRange, "width and height must be >= 1")
	}
	if len(pixels) != width*height*4 {
		return nil, newError(ErrBufferTooSmall, "pixel buffer has %d bytes, want %d", len(pixels), width*height*4)
	}
	rows := make([][]byte, height)
	for y := 0; y < height; y++ {
		rows[y] = pixels[y*width*4 : (y+1)*width*4]
	}
	return newImage(rows, width, height, gamma, false, ownPixels), nil
}

// NewImageFromRows creates an image backed by a caller-supplied row-pointer
// vector, so non-contiguous rasters (e.g. a sub-rectangle of a larger
// buffer) can be quantized without a copy.
func NewImageFromRows(rows [][]byte, width, height int, gamma float64, ownRows, ownPixels bool) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, newError(ErrValueOutOfRange, "width and height must be >= 1")
	}
	if len(rows) != height {
		return nil, newError(ErrBufferTooSmall, "got %d rows, want %d", len(rows), height)
	}
	for y, row := range rows {
		if len(row) != width*4 {
			return nil, newError(ErrBufferTooSmall, "row %d has %d bytes, want %d", y, len(row), width*4)
		}
	}
	return newImage(rows, width, height, gamma, ownRows, ownPixels), nil
}

func newImage(rows [][]byte, width, height int, gamma float64, ownRows, ownPixels bool) *Image {
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	return &Image{
		gamma:      gamma,
		width:      width,
		height:     height,
		rows:       rows,
		ownRows:    ownRows,
		ownPixels:  ownPixels,
		gammaTable: NewGammaTable(gamma),
	}
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Gamma returns the input gamma this image was created with.
func (img *Image) Gamma() float64 { return img.gamma }

// RowAt returns the raw RGBA bytes of row y.
func (img *Image) RowAt(y int) []byte { return img.rows[y] }

// PixelAt returns the byte pixel at (x, y).
func (img *Image) PixelAt(x, y int) RGBAPixel {
	row := img.rows[y]
	o := x * 4
	return RGBAPixel{R: row[o], G: row[o+1], B: row[o+2], A: row[o+3]}
}

// LinearAt decodes the pixel at (x, y) into gamma-linear space.
func (img *Image) LinearAt(x, y int) LinearPixel {
	return img.gammaTable.ToLinear(img.PixelAt(x, y))
}

// SetDitherMap installs a caller-supplied per-pixel dither amplitude map
// (width*height floats in [0,1]). Passing nil clears it.
func (img *Image) SetDitherMap(m []float64) { img.ditherMap = m }

// DitherMap returns the current dither map, or nil if none has been
// computed or supplied yet.
func (img *Image) DitherMap() []float64 { return img.ditherMap }

// NoiseMap returns the C2 noise map, or nil if it hasn't been computed.
func (img *Image) NoiseMap() []float64 { return img.noise }

// EdgesMap returns the C2 edges map, or nil if it hasn't been computed.
func (img *Image) EdgesMap() []float64 { return img.edges }

// Destroy releases the image's backing storage according to its
// ownership flags. It is a no-op in Go beyond dropping references (there
// is no manual free), but keeps the API surface symmetric with the
// create/destroy lifecycle named in spec §4.11.
func (img *Image) Destroy() {
	if img.ownRows || img.ownPixels {
		img.rows = nil
	}
	img.noise = nil
	img.edges = nil
	img.ditherMap = nil
}
