package vibrant

import (
	"math"
	"math/rand/v2"
)

const (
	defaultKMeansIterations  = 20
	defaultKMeansConvergence = 2.0
	defaultKMeansSeed        = 0x5eed
)

// KMeans is an alternative quantizer that clusters opaque pixels with
// weighted k-means++ in RGB space. Results are deterministic for a given
// seed.
type KMeans struct {
	maxIterations int
	convergence   float64
	seed          uint64
}

// NewKMeans creates a k-means quantizer with the default iteration limit,
// convergence threshold and seed.
func NewKMeans() *KMeans {
	return &KMeans{
		maxIterations: defaultKMeansIterations,
		convergence:   defaultKMeansConvergence,
		seed:          defaultKMeansSeed,
	}
}

// WithSeed returns a copy of the quantizer using seed for centroid selection.
func (k *KMeans) WithSeed(seed uint64) *KMeans {
	c := *k
	c.seed = seed
	return &c
}

// point is a distinct colour and the number of pixels that carry it.
type point struct {
	r, g, b float64
	weight  float64
}

func (p point) dist2(c point) float64 {
	dr, dg, db := p.r-c.r, p.g-c.g, p.b-c.b
	return dr*dr + dg*dg + db*db
}

// Quantize clusters the pixels into at most opts.ColorCount swatches sorted
// by descending population. When the image has no more distinct colours
// than requested, each colour becomes its own swatch.
func (k *KMeans) Quantize(pixels []byte, opts Options) ([]Swatch, error) {
	points, total := distinctColours(pixels)
	if total == 0 {
		return []Swatch{}, nil
	}
	target := max(opts.ColorCount, 1)

	var swatches []Swatch
	if len(points) <= target {
		swatches = make([]Swatch, 0, len(points))
		for _, p := range points {
			swatches = append(swatches, NewSwatch(RGB{R: uint8(p.r), G: uint8(p.g), B: uint8(p.b)}, int(p.weight)))
		}
	} else {
		swatches = k.cluster(points, target)
	}
	sortSwatches(swatches)

	if opts.Logger != nil {
		opts.Logger.Debug("quantized pixels", "quantizer", "kmeans", "pixels", total, "distinct", len(points), "target", target, "swatches", len(swatches))
	}
	return swatches, nil
}

// distinctColours collapses the opaque pixels to weighted points in first
// seen order.
func distinctColours(pixels []byte) ([]point, int) {
	index := make(map[[3]byte]int)
	var points []point
	total := 0
	for i := 0; i+4 <= len(pixels); i += 4 {
		if pixels[i+3] == 0 {
			continue
		}
		key := [3]byte{pixels[i], pixels[i+1], pixels[i+2]}
		total++
		if j, ok := index[key]; ok {
			points[j].weight++
			continue
		}
		index[key] = len(points)
		points = append(points, point{r: float64(key[0]), g: float64(key[1]), b: float64(key[2]), weight: 1})
	}
	return points, total
}

func (k *KMeans) cluster(points []point, n int) []Swatch {
	rng := rand.New(rand.NewPCG(k.seed, k.seed^0x9e3779b97f4a7c15))
	centroids := seedCentroids(points, n, rng)
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	for range k.maxIterations {
		changed := 0
		for i, p := range points {
			if nearest := nearestCentroid(p, centroids); nearest != assignments[i] {
				assignments[i] = nearest
				changed++
			}
		}
		if changed == 0 {
			break
		}

		next := recomputeCentroids(points, assignments, centroids)
		movement := 0.0
		for i := range centroids {
			movement += math.Sqrt(centroids[i].dist2(next[i]))
		}
		centroids = next
		if movement/float64(len(centroids)) < k.convergence {
			break
		}
	}

	// Assign against the final centroids so populations match the colours reported.
	for i, p := range points {
		assignments[i] = nearestCentroid(p, centroids)
	}
	final := recomputeCentroids(points, assignments, centroids)

	// Centroids that round to the same colour are merged.
	merged := make(map[RGB]int)
	var swatches []Swatch
	for i, c := range final {
		if c.weight == 0 {
			continue
		}
		rgb := RGB{R: roundChannel(c.r), G: roundChannel(c.g), B: roundChannel(c.b)}
		if j, ok := merged[rgb]; ok {
			swatches[j] = NewSwatch(rgb, swatches[j].population+int(final[i].weight))
			continue
		}
		merged[rgb] = len(swatches)
		swatches = append(swatches, NewSwatch(rgb, int(c.weight)))
	}
	return swatches
}

// seedCentroids picks n initial centroids with weighted k-means++.
func seedCentroids(points []point, n int, rng *rand.Rand) []point {
	centroids := make([]point, 0, n)
	centroids = append(centroids, pickWeighted(points, func(p point) float64 { return p.weight }, rng))

	nearest := make([]float64, len(points))
	for i := range nearest {
		nearest[i] = math.MaxFloat64
	}
	for len(centroids) < n {
		last := centroids[len(centroids)-1]
		for i, p := range points {
			nearest[i] = min(nearest[i], p.dist2(last))
		}
		i := 0
		centroids = append(centroids, pickWeighted(points, func(p point) float64 {
			d := nearest[i] * p.weight
			i++
			return d
		}, rng))
	}
	return centroids
}

// pickWeighted draws one point with probability proportional to weight(p).
// weight is called once per point in order.
func pickWeighted(points []point, weight func(point) float64, rng *rand.Rand) point {
	weights := make([]float64, len(points))
	sum := 0.0
	for i, p := range points {
		weights[i] = weight(p)
		sum += weights[i]
	}
	if sum == 0 {
		return points[rng.IntN(len(points))]
	}
	target := rng.Float64() * sum
	acc := 0.0
	for i, w := range weights {
		acc += w
		if acc >= target && w > 0 {
			return points[i]
		}
	}
	return points[len(points)-1]
}

func nearestCentroid(p point, centroids []point) int {
	best, bestDist := 0, math.MaxFloat64
	for i, c := range centroids {
		if d := p.dist2(c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// recomputeCentroids returns the weighted mean of each cluster. The weight
// of each result is the cluster population. Empty clusters keep their
// previous position with zero weight.
func recomputeCentroids(points []point, assignments []int, prev []point) []point {
	next := make([]point, len(prev))
	for i, p := range points {
		c := &next[assignments[i]]
		c.r += p.r * p.weight
		c.g += p.g * p.weight
		c.b += p.b * p.weight
		c.weight += p.weight
	}
	for i := range next {
		if next[i].weight == 0 {
			next[i] = point{r: prev[i].r, g: prev[i].g, b: prev[i].b}
			continue
		}
		next[i].r /= next[i].weight
		next[i].g /= next[i].weight
		next[i].b /= next[i].weight
	}
	return next
}

func roundChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
