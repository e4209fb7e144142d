// Package quant implements the color-quantization and dithering engine:
// a weighted histogram builder, median-cut and Voronoi (k-means style)
// palette construction, a nearest-color search structure, and serpentine
// Floyd-Steinberg remapping, all operating in gamma-linear color space.
//
// The package does not decode or encode any image file format; it
// consumes an RGBA pixel grid (via Image) and produces a Colormap plus
// an index plane (via Result.Remap). Callers that need PNG bytes wire
// the output into their own encoder, such as the one in this module's
// sibling png package.
package quant
