package quant

import (
	"container/heap"
	"sort"
)

// ColormapEntry is one entry of a Colormap (spec §3).
type ColormapEntry struct {
	Color      LinearPixel
	Popularity float64
	Fixed      bool
}

// Colormap is an ordered sequence of ColormapEntry, length in [2,256].
type Colormap struct {
	Entries []ColormapEntry
}

// box is one median-cut partition: a contiguous slice of histogram entry
// indices plus its cached weighted variance.
type box struct {
	members  []int // indices into the histogram entries
	variance float64
	weight   float64
}

// boxQueue is a container/heap priority queue of boxes, grounded on the
// same heap-of-clusters structure used by the pack's own median-cut
// quantizer: pop always returns the box most worth splitting next
// (exceeds the acceptance threshold first, then largest variance).
type boxQueue struct {
	boxes   []*box
	accept  float64
	entries []HistEntry
}

func (q *boxQueue) Len() int { return len(q.boxes) }
func (q *boxQueue) Less(i, j int) bool {
	a, b := q.boxes[i], q.boxes[j]
	ea := a.weight > 0 && a.variance/a.weight > q.accept
	eb := b.weight > 0 && b.variance/b.weight > q.accept
	if ea != eb {
		return ea // boxes exceeding acceptance MSE sort first
	}
	return a.variance > b.variance
}
func (q *boxQueue) Swap(i, j int)      { q.boxes[i], q.boxes[j] = q.boxes[j], q.boxes[i] }
func (q *boxQueue) Push(x any)         { q.boxes = append(q.boxes, x.(*box)) }
func (q *boxQueue) Pop() any {
	old := q.boxes
	n := len(old)
	b := old[n-1]
	q.boxes = old[:n-1]
	return b
}

// MedianCut builds an initial Colormap from a Histogram by recursive
// variance-splitting (spec §4.4). maxColors bounds the result size;
// acceptBoxMSE is the per-box acceptance threshold ("A") below which a
// box is no longer worth splitting further.
func MedianCut(hist *Histogram, maxColors int, acceptBoxMSE float64) *Colormap {
	entries := hist.Entries
	if len(entries) == 0 {
		return &Colormap{}
	}
	if len(entries) <= maxColors {
		return colormapFromBoxes(entries, []*box{allMembers(entries)})
	}

	root := allMembers(entries)
	computeVariance(root, entries)

	q := &boxQueue{accept: acceptBoxMSE, entries: entries}
	heap.Init(q)
	heap.Push(q, root)
	boxes := []*box{}

	for len(boxes)+q.Len() < maxColors && q.Len() > 0 {
		top := q.boxes[0]
		exceeds := top.weight > 0 && top.variance/top.weight > acceptBoxMSE
		if !exceeds && q.Len()+len(boxes) >= 2 {
			// No box is worth splitting further; stop early per spec §4.4 step 2.
			break
		}

		b := heap.Pop(q).(*box)
		left, right := splitBox(b, entries)
		if right == nil {
			// Can't be split further (e.g. single member); keep as final.
			boxes = append(boxes, left)
			continue
		}
		computeVariance(left, entries)
		computeVariance(right, entries)
		heap.Push(q, left)
		heap.Push(q, right)
	}

	for _, b := range q.boxes {
		boxes = append(boxes, b)
	}

	return colormapFromBoxes(entries, boxes)
}

func allMembers(entries []HistEntry) *box {
	members := make([]int, len(entries))
	for i := range entries {
		members[i] = i
	}
	return &box{members: members}
}

// channel selects one float64 channel of a LinearPixel by index:
// 0=R, 1=G, 2=B, 3=A — the tie-break order required by spec §4.4 step 3.
func channel(c LinearPixel, idx int) float64 {
	switch idx {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	default:
		return c.A
	}
}

func computeVariance(b *box, entries []HistEntry) {
	var weight float64
	var mean [4]float64
	for _, idx := range b.members {
		w := entries[idx].AdjustedWeight
		c := entries[idx].Color
		weight += w
		mean[0] += c.R * w
		mean[1] += c.G * w
		mean[2] += c.B * w
		mean[3] += c.A * w
	}
	if weight == 0 {
		b.weight = 0
		b.variance = 0
		return
	}
	for i := range mean {
		mean[i] /= weight
	}
	var varSum float64
	for _, idx := range b.members {
		w := entries[idx].AdjustedWeight
		c := entries[idx].Color
		for i := 0; i < 4; i++ {
			d := channel(c, i) - mean[i]
			varSum += d * d * w
		}
	}
	b.weight = weight
	b.variance = varSum
}

// splitBox splits b along its largest-variance channel at the weighted
// median, ties broken by channel order R,G,B,A (spec §4.4 step 3). Returns
// (b, nil) when the box has fewer than 2 distinguishable members.
func splitBox(b *box, entries []HistEntry) (*box, *box) {
	if len(b.members) < 2 {
		return b, nil
	}

	ch := widestChannel(b, entries)

	sorted := append([]int(nil), b.members...)
	sort.Slice(sorted, func(i, j int) bool {
		return channel(entries[sorted[i]].Color, ch) < channel(entries[sorted[j]].Color, ch)
	})

	var total float64
	for _, idx := range sorted {
		total += entries[idx].AdjustedWeight
	}
	if total == 0 {
		mid := len(sorted) / 2
		return &box{members: sorted[:mid]}, &box{members: sorted[mid:]}
	}

	half := total / 2
	var acc float64
	cut := len(sorted) / 2
	for i, idx := range sorted {
		acc += entries[idx].AdjustedWeight
		if acc >= half {
			cut = i + 1
			break
		}
	}
	if cut <= 0 {
		cut = 1
	}
	if cut >= len(sorted) {
		cut = len(sorted) - 1
	}

	return &box{members: sorted[:cut]}, &box{members: sorted[cut:]}
}

func widestChannel(b *box, entries []HistEntry) int {
	var lo, hi [4]float64
	for i := 0; i < 4; i++ {
		lo[i] = channel(entries[b.members[0]].Color, i)
		hi[i] = lo[i]
	}
	for _, idx := range b.members[1:] {
		c := entries[idx].Color
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
	return best
}

func colormapFromBoxes(entries []HistEntry, boxes []*box) *Colormap {
	cm := &Colormap{Entries: make([]ColormapEntry, 0, len(boxes))}
	for _, b := range boxes {
		if len(b.members) == 0 {
			continue
		}
		var weight float64
		var sum LinearPixel
		var popularity float64
		for _, idx := range b.members {
			w := entries[idx].AdjustedWeight
			c := entries[idx].Color
			sum.R += c.R * w
			sum.G += c.G * w
			sum.B += c.B * w
			sum.A += c.A * w
			weight += w
			popularity += entries[idx].PerceptualWeight
		}
		if weight == 0 {
			weight = 1
		}
		cm.Entries = append(cm.Entries, ColormapEntry{
			Color: LinearPixel{
				R: sum.R / weight,
				G: sum.G / weight,
				B: sum.B / weight,
				A: sum.A / weight,
			},
			Popularity: popularity,
		})
	}
	return cm
}
