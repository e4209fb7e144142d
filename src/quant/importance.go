package quant

// ComputeImportanceMaps fills in img's noise and edges maps when the image
// is large enough (>= 4x4) and the speed dial permits it (speed <= 7).
// Does nothing otherwise, leaving NoiseMap/EdgesMap nil so histogram
// weighting and dithering fall back to their unweighted defaults.
func ComputeImportanceMaps(img *Image, speed int) {
	if speed > 7 {
		return
	}
	if img.width < 4 || img.height < 4 {
		return
	}

	w, h := img.width, img.height
	horiz := make([]float64, w*h)
	vert := make([]float64, w*h)
	edge := make([]float64, w*h)
	noise := make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hv, vv := edgeComponents(img, x, y)
			i := y*w + x
			horiz[i] = hv
			vert[i] = vv
			e := hv
			if vv > e {
				e = vv
			}
			edge[i] = e

			lo, hi := hv, vv
			if lo > hi {
				lo, hi = hi, lo
			}
			n := 1 - max64(e, lo+0.5*(hi-lo))
			n = clamp01(n)
			n = n * n
			n = n * n // squared twice to emphasize flats
			noise[i] = n
		}
	}

	// Morphological shaping (spec §4.2): dilate twice, blur, dilate once
	// more, erode three times on noise; erode then dilate on edges, then
	// take the pointwise min with the shaped noise map.
	noise = dilate3x3(noise, w, h)
	noise = dilate3x3(noise, w, h)
	noise = blur3(noise, w, h)
	noise = dilate3x3(noise, w, h)
	noise = erode3x3(noise, w, h)
	noise = erode3x3(noise, w, h)
	noise = erode3x3(noise, w, h)

	edge = erode3x3(edge, w, h)
	edge = dilate3x3(edge, w, h)
	for i := range edge {
		if noise[i] < edge[i] {
			edge[i] = noise[i]
		}
	}

	img.noise = noise
	img.edges = edge
}

// edgeComponents returns the per-pixel horizontal and vertical second
// derivative magnitudes, maxed over the four channels, per spec §4.2:
// |left+right-2*center| and |up+down-2*center|.
func edgeComponents(img *Image, x, y int) (horiz, vert float64) {
	c := img.LinearAt(x, y)

	lx, rx := x-1, x+1
	if lx < 0 {
		lx = 0
	}
	if rx >= img.width {
		rx = img.width - 1
	}
	l, r := img.LinearAt(lx, y), img.LinearAt(rx, y)
	horiz = max4(
		absf(l.R+r.R-2*c.R),
		absf(l.G+r.G-2*c.G),
		absf(l.B+r.B-2*c.B),
		absf(l.A+r.A-2*c.A),
	)

	uy, dy := y-1, y+1
	if uy < 0 {
		uy = 0
	}
	if dy >= img.height {
		dy = img.height - 1
	}
	u, d := img.LinearAt(x, uy), img.LinearAt(x, dy)
	vert = max4(
		absf(u.R+d.R-2*c.R),
		absf(u.G+d.G-2*c.G),
		absf(u.B+d.B-2*c.B),
		absf(u.A+d.A-2*c.A),
	)
	return horiz, vert
}

func dilate3x3(m []float64, w, h int) []float64 {
	return morph3x3(m, w, h, func(a, b float64) float64 {
		if a > b {
			return a
		}
		return b
	})
}

func erode3x3(m []float64, w, h int) []float64 {
	return morph3x3(m, w, h, func(a, b float64) float64 {
		if a < b {
			return a
		}
		return b
	})
}

// morph3x3 applies a 3x3 max (dilate) or min (erode) filter, clamping
// out-of-bounds neighbors to the edge pixel.
func morph3x3(m []float64, w, h int, combine func(a, b float64) float64) []float64 {
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := m[y*w+x]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					ny, nx := clampIdx(y+dy, h), clampIdx(x+dx, w)
					best = combine(best, m[ny*w+nx])
				}
			}
			out[y*w+x] = best
		}
	}
	return out
}

// blur3 applies a separable 3-tap 1-2-1 blur, normalized, horizontally
// then vertically.
func blur3(m []float64, w, h int) []float64 {
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := m[y*w+clampIdx(x-1, w)]
			c := m[y*w+x]
			r := m[y*w+clampIdx(x+1, w)]
			tmp[y*w+x] = (l + 2*c + r) / 4
		}
	}
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u := tmp[clampIdx(y-1, h)*w+x]
			c := tmp[y*w+x]
			d := tmp[clampIdx(y+1, h)*w+x]
			out[y*w+x] = (u + 2*c + d) / 4
		}
	}
	return out
}

func clampIdx(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func max4(a, b, c, d float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	if d > m {
		m = d
	}
	return m
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
