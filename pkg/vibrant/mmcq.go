package vibrant

import (
	"cmp"
	"container/heap"
	"slices"
)

const (
	// sigBits is the number of significant bits kept per channel in the histogram.
	sigBits = 5
	rShift  = 8 - sigBits

	histSize = 1 << (3 * sigBits)
)

// bucket accumulates the pixels that fall into one histogram cell.
// Channel sums use the full 8-bit values so averages are exact.
type bucket struct {
	count   int
	r, g, b int
}

type histogram []bucket

func histIndex(r, g, b int) int {
	return r<<(2*sigBits) | g<<sigBits | b
}

// newHistogram builds the colour histogram for every pixel with alpha > 0.
// Returns the histogram and the number of pixels counted.
func newHistogram(pixels []byte) (histogram, int) {
	hist := make(histogram, histSize)
	total := 0
	for i := 0; i+4 <= len(pixels); i += 4 {
		if pixels[i+3] == 0 {
			continue
		}
		r, g, b := int(pixels[i]), int(pixels[i+1]), int(pixels[i+2])
		bk := &hist[histIndex(r>>rShift, g>>rShift, b>>rShift)]
		bk.count++
		bk.r += r
		bk.g += g
		bk.b += b
		total++
	}
	return hist, total
}

// colorBox is an axis-aligned region of the histogram. Bounds are inclusive
// and always fitted to the inhabited buckets inside the box.
type colorBox struct {
	min, max   [3]int
	population int
	inhabited  int
	seq        int
	hist       histogram
}

// newColorBox creates a box over the given bounds and shrinks it to fit.
func newColorBox(hist histogram, lo, hi [3]int, seq int) *colorBox {
	box := &colorBox{
		min:  [3]int{hi[0], hi[1], hi[2]},
		max:  [3]int{lo[0], lo[1], lo[2]},
		seq:  seq,
		hist: hist,
	}
	for r := lo[0]; r <= hi[0]; r++ {
		for g := lo[1]; g <= hi[1]; g++ {
			for b := lo[2]; b <= hi[2]; b++ {
				count := hist[histIndex(r, g, b)].count
				if count == 0 {
					continue
				}
				box.population += count
				box.inhabited++
				c := [3]int{r, g, b}
				for axis := range 3 {
					box.min[axis] = min(box.min[axis], c[axis])
					box.max[axis] = max(box.max[axis], c[axis])
				}
			}
		}
	}
	return box
}

// volume returns the number of histogram cells spanned by the box.
func (b *colorBox) volume() int {
	return (b.max[0] - b.min[0] + 1) * (b.max[1] - b.min[1] + 1) * (b.max[2] - b.min[2] + 1)
}

// splittable reports whether the box holds at least two distinct colours.
func (b *colorBox) splittable() bool {
	return b.inhabited > 1
}

// longestAxis returns the channel with the widest range. Ties prefer red, then green.
func (b *colorBox) longestAxis() int {
	axis := 0
	for a := 1; a < 3; a++ {
		if b.max[a]-b.min[a] > b.max[axis]-b.min[axis] {
			axis = a
		}
	}
	return axis
}

// split divides the box along its longest axis at the cut that leaves the
// two halves with populations as close as possible.
func (b *colorBox) split(nextSeq int) (*colorBox, *colorBox) {
	axis := b.longestAxis()
	lo, hi := b.min[axis], b.max[axis]

	counts := make([]int, hi-lo+1)
	for r := b.min[0]; r <= b.max[0]; r++ {
		for g := b.min[1]; g <= b.max[1]; g++ {
			for bl := b.min[2]; bl <= b.max[2]; bl++ {
				count := b.hist[histIndex(r, g, bl)].count
				if count == 0 {
					continue
				}
				c := [3]int{r, g, bl}
				counts[c[axis]-lo] += count
			}
		}
	}

	// Both end slices are inhabited because the box is fitted, so any cut
	// in [lo, hi-1] leaves two non-empty halves.
	cut := lo
	bestDiff := -1
	left := 0
	for i := lo; i < hi; i++ {
		left += counts[i-lo]
		diff := abs(2*left - b.population)
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			cut = i
		}
	}

	leftMax := b.max
	leftMax[axis] = cut
	rightMin := b.min
	rightMin[axis] = cut + 1

	return newColorBox(b.hist, b.min, leftMax, nextSeq),
		newColorBox(b.hist, rightMin, b.max, nextSeq+1)
}

// average returns the population-weighted mean colour of the box.
func (b *colorBox) average() RGB {
	if b.population == 0 {
		return RGB{}
	}
	var sr, sg, sb int
	for r := b.min[0]; r <= b.max[0]; r++ {
		for g := b.min[1]; g <= b.max[1]; g++ {
			for bl := b.min[2]; bl <= b.max[2]; bl++ {
				bk := b.hist[histIndex(r, g, bl)]
				sr += bk.r
				sg += bk.g
				sb += bk.b
			}
		}
	}
	half := b.population / 2
	return RGB{
		R: uint8((sr + half) / b.population),
		G: uint8((sg + half) / b.population),
		B: uint8((sb + half) / b.population),
	}
}

// boxQueue is a max-heap of boxes ordered by population, then volume, then
// creation order.
type boxQueue []*colorBox

func (q boxQueue) Len() int { return len(q) }

func (q boxQueue) Less(i, j int) bool {
	if q[i].population != q[j].population {
		return q[i].population > q[j].population
	}
	if vi, vj := q[i].volume(), q[j].volume(); vi != vj {
		return vi > vj
	}
	return q[i].seq < q[j].seq
}

func (q boxQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *boxQueue) Push(x any) { *q = append(*q, x.(*colorBox)) }

func (q *boxQueue) Pop() any {
	old := *q
	n := len(old)
	box := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return box
}

// MMCQ is the default quantizer. It implements modified median cut
// quantization over a 5-bit-per-channel colour histogram.
type MMCQ struct{}

// NewMMCQ creates a new median cut quantizer.
func NewMMCQ() *MMCQ {
	return &MMCQ{}
}

// Quantize reduces the pixels to at most opts.ColorCount swatches, sorted by
// descending population. Empty input yields no swatches.
func (q *MMCQ) Quantize(pixels []byte, opts Options) ([]Swatch, error) {
	hist, total := newHistogram(pixels)
	if total == 0 {
		return []Swatch{}, nil
	}

	target := max(opts.ColorCount, 1)
	maxIdx := 1<<sigBits - 1
	seed := newColorBox(hist, [3]int{0, 0, 0}, [3]int{maxIdx, maxIdx, maxIdx}, 0)

	pq := &boxQueue{seed}
	var final []*colorBox
	seq := 1
	for pq.Len() > 0 && pq.Len()+len(final) < target {
		box := heap.Pop(pq).(*colorBox)
		if !box.splittable() {
			final = append(final, box)
			continue
		}
		a, b := box.split(seq)
		seq += 2
		heap.Push(pq, a)
		heap.Push(pq, b)
	}
	final = append(final, *pq...)

	swatches := make([]Swatch, 0, len(final))
	for _, box := range final {
		swatches = append(swatches, NewSwatch(box.average(), box.population))
	}
	sortSwatches(swatches)

	if opts.Logger != nil {
		opts.Logger.Debug("quantized pixels", "pixels", total, "target", target, "swatches", len(swatches))
	}
	return swatches, nil
}

// sortSwatches orders swatches by descending population, then by colour.
func sortSwatches(swatches []Swatch) {
	slices.SortStableFunc(swatches, func(a, b Swatch) int {
		if c := cmp.Compare(b.population, a.population); c != 0 {
			return c
		}
		if c := cmp.Compare(a.rgb.R, b.rgb.R); c != 0 {
			return c
		}
		if c := cmp.Compare(a.rgb.G, b.rgb.G); c != 0 {
			return c
		}
		return cmp.Compare(a.rgb.B, b.rgb.B)
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
