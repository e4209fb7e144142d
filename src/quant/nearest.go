package quant

// linearScanThreshold is the palette size below which NearestIndex just
// does a linear scan (spec §4.5: "faster than linear scan when the
// palette is >= 16 entries").
const linearScanThreshold = 16

// NearestIndex answers nearest(query, minOpaqueVal) -> (index, distance²)
// over a fixed Colormap. Below linearScanThreshold entries it is a plain
// linear scan; at or above it, it is an axis-split binary tree, the same
// shape as the pack's own TreePalette (soniakeys-quant/palette.go),
// generalized here from color.RGBA64 to gamma-linear LinearPixel with the
// weighted distance of colorspace.go.
type NearestIndex struct {
	colormap        *Colormap
	transparentSlot int // index of the entry with smallest alpha, or -1
	root            *vpNode
}

type vpNode struct {
	leaf     int // >= 0 for a leaf, holding a colormap index
	ch       int // split channel, for interior nodes
	split    float64
	minAlpha float64 // smallest dst.A over every leaf in this subtree
	lo       *vpNode
	hi       *vpNode
}

// BuildNearestIndex constructs a NearestIndex over cm.
func BuildNearestIndex(cm *Colormap) *NearestIndex {
	n := &NearestIndex{colormap: cm, transparentSlot: -1}
	if len(cm.Entries) == 0 {
		return n
	}

	minAlpha := cm.Entries[0].Color.A
	n.transparentSlot = 0
	for i, e := range cm.Entries {
		if e.Color.A < minAlpha {
			minAlpha = e.Color.A
			n.transparentSlot = i
		}
	}

	if len(cm.Entries) >= linearScanThreshold {
		indices := make([]int, len(cm.Entries))
		for i := range indices {
			indices[i] = i
		}
		n.root = buildVPNode(cm, indices)
	}
	return n
}

func buildVPNode(cm *Colormap, indices []int) *vpNode {
	if len(indices) == 1 {
		return &vpNode{leaf: indices[0], minAlpha: cm.Entries[indices[0]].Color.A}
	}

	ch, split := widestColormapChannel(cm, indices)

	var lo, hi []int
	for _, idx := range indices {
		if channel(cm.Entries[idx].Color, ch) < split {
			lo = append(lo, idx)
		} else {
			hi = append(hi, idx)
		}
	}
	// Degenerate split (all members on one side, e.g. identical colors):
	// fall back to an even positional split so we always terminate.
	if len(lo) == 0 || len(hi) == 0 {
		mid := len(indices) / 2
		if mid == 0 {
			mid = 1
		}
		lo = indices[:mid]
		hi = indices[mid:]
	}

	loNode := buildVPNode(cm, lo)
	hiNode := buildVPNode(cm, hi)
	minAlpha := loNode.minAlpha
	if hiNode.minAlpha < minAlpha {
		minAlpha = hiNode.minAlpha
	}

	return &vpNode{
		leaf:     -1,
		ch:       ch,
		split:    split,
		minAlpha: minAlpha,
		lo:       loNode,
		hi:       hiNode,
	}
}

func widestColormapChannel(cm *Colormap, indices []int) (ch int, split float64) {
	var lo, hi [4]float64
	for i := 0; i < 4; i++ {
		lo[i] = channel(cm.Entries[indices[0]].Color, i)
		hi[i] = lo[i]
	}
	for _, idx := range indices[1:] {
		c := cm.Entries[idx].Color
		for i := 0; i < 4; i++ {
			v := channel(c, i)
			if v < lo[i] {
				lo[i] = v
			}
			if v > hi[i] {
				hi[i] = v
			}
		}
	}
	best := 0
	bestRange := hi[0] - lo[0]
	for i := 1; i < 4; i++ {
		if hi[i]-lo[i] > bestRange {
			bestRange = hi[i] - lo[i]
			best = i
		}
	}
	return best, (lo[best] + hi[best]) / 2
}

// Nearest returns the colormap index (and its squared distance) closest
// to q, under the rule of spec §4.5: when q is nearly transparent
// (q.A < minOpaqueVal), the entry with the smallest alpha is returned
// directly if the colormap has one, rather than running the search.
func (n *NearestIndex) Nearest(q LinearPixel, minOpaqueVal float64) (int, float64) {
	if len(n.colormap.Entries) == 0 {
		return -1, 0
	}
	if q.A < minOpaqueVal && n.transparentSlot >= 0 {
		d := ColorDifference(q, n.colormap.Entries[n.transparentSlot].Color)
		return n.transparentSlot, d
	}
	if n.root == nil {
		return n.linearNearest(q)
	}
	best, bestDist := -1, 0.0
	n.searchVPNode(n.root, q, &best, &bestDist)
	return best, bestDist
}

func (n *NearestIndex) linearNearest(q LinearPixel) (int, float64) {
	best, bestDist := 0, ColorDifference(q, n.colormap.Entries[0].Color)
	for i := 1; i < len(n.colormap.Entries); i++ {
		d := ColorDifference(q, n.colormap.Entries[i].Color)
		if d < bestDist {
			bestDist, best = d, i
		}
	}
	return best, bestDist
}

// searchVPNode descends the split tree, but still checks the losing branch
// whenever the unexplored side could plausibly hold something closer than
// the current best. ColorDifference isn't a uniform metric — crossing an
// R/G/B split only guarantees a contribution of delta²·dst.A, and dst.A
// varies per entry — so the split distance alone can't certify a safe
// prune; each node instead carries minAlpha, the smallest dst.A over every
// leaf in its subtree, and that is the bound actually used. Crossing an
// alpha-axis split (ch==3) contributes delta²·4 unconditionally, since that
// term in colordifference never depends on dst.A. Either way the bound is a
// true lower bound on every candidate in the unexplored subtree, so this
// keeps the result exactly argmin_i colordifference(q, _), the one
// contract spec §4.5 insists on.
func (n *NearestIndex) searchVPNode(node *vpNode, q LinearPixel, best *int, bestDist *float64) {
	if node.leaf >= 0 {
		d := ColorDifference(q, n.colormap.Entries[node.leaf].Color)
		if *best < 0 || d < *bestDist {
			*best, *bestDist = node.leaf, d
		}
		return
	}
	v := channel(q, node.ch)
	first, second := node.lo, node.hi
	if v >= node.split {
		first, second = node.hi, node.lo
	}
	n.searchVPNode(first, q, best, bestDist)

	delta := v - node.split
	bound := delta * delta * second.minAlpha
	if node.ch == 3 {
		bound = delta * delta * 4
	}
	if *best < 0 || bound <= *bestDist {
		n.searchVPNode(second, q, best, bestDist)
	}
}
