// Package colour provides colour extraction and semantic palette synthesis.
package colour

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Sample is one representative colour extracted from an image, together with
// the fraction of sampled pixels its cluster covers.
type Sample struct {
	Colour RGB
	Weight float64
}

// KMeansExtractor reduces an image to a bounded set of representative colours
// using k-means clustering in CIE Lab space. Extraction is fully
// deterministic: centroids are seeded by farthest-point selection rather than
// randomly, so identical pixels always yield identical samples.
type KMeansExtractor struct {
	clusters      int
	maxIterations int
	maxSamples    int
}

// Default extraction settings. Lab distances approximate perceived colour
// difference, so a small cluster count is enough for theming.
const (
	DefaultClusters      = 6
	DefaultMaxIterations = 16
	DefaultMaxSamples    = 4096
)

// NewKMeansExtractor creates a KMeansExtractor with default settings.
func NewKMeansExtractor() *KMeansExtractor {
	return &KMeansExtractor{
		clusters:      DefaultClusters,
		maxIterations: DefaultMaxIterations,
		maxSamples:    DefaultMaxSamples,
	}
}

// NewKMeansExtractorWith creates a KMeansExtractor with explicit settings.
// Values below 1 fall back to the defaults.
func NewKMeansExtractorWith(clusters, maxIterations, maxSamples int) *KMeansExtractor {
	e := NewKMeansExtractor()
	if clusters >= 1 {
		e.clusters = clusters
	}
	if maxIterations >= 1 {
		e.maxIterations = maxIterations
	}
	if maxSamples >= 1 {
		e.maxSamples = maxSamples
	}
	return e
}

// labPoint is a point in CIE Lab space with an associated pixel count.
type labPoint struct {
	l, a, b float64
	count   int
}

// distance returns the squared Euclidean distance between two Lab points.
func (p labPoint) distance(other labPoint) float64 {
	dl := p.l - other.l
	da := p.a - other.a
	db := p.b - other.b
	return dl*dl + da*da + db*db
}

// Extract extracts representative colour samples from an image.
// Results are sorted by cluster weight, largest first. A uniform image
// legitimately collapses to fewer clusters than configured.
func (e *KMeansExtractor) Extract(img image.Image) ([]Sample, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	points, total := e.samplePixels(img)
	if total == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	// Fewer distinct colours than clusters: every colour is its own sample.
	if len(points) <= e.clusters {
		samples := make([]Sample, 0, len(points))
		for _, p := range points {
			samples = append(samples, Sample{
				Colour: labToRGB(p.l, p.a, p.b),
				Weight: float64(p.count) / float64(total),
			})
		}
		sortSamples(samples)
		return samples, nil
	}

	centroids := e.seedCentroids(points)
	assignments := make([]int, len(points))

	for iter := 0; iter < e.maxIterations; iter++ {
		changed := 0
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}
		if changed == 0 && iter > 0 {
			break
		}
		centroids = recalculateCentroids(points, assignments, centroids)
	}

	// Collapse clusters into weighted samples, dropping empty ones.
	counts := make([]int, len(centroids))
	for i, p := range points {
		counts[assignments[i]] += p.count
	}

	samples := make([]Sample, 0, len(centroids))
	for i, c := range centroids {
		if counts[i] == 0 {
			continue
		}
		samples = append(samples, Sample{
			Colour: labToRGB(c.l, c.a, c.b),
			Weight: float64(counts[i]) / float64(total),
		})
	}
	sortSamples(samples)
	return samples, nil
}

// samplePixels walks the pixel grid with a uniform stride so that clustering
// cost is bounded regardless of image resolution, and folds identical colours
// into weighted Lab points. Iteration order is row-major and therefore stable.
func (e *KMeansExtractor) samplePixels(img image.Image) ([]labPoint, int) {
	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()
	if totalPixels <= 0 {
		return nil, 0
	}

	step := 1
	if totalPixels > e.maxSamples {
		step = int(math.Sqrt(float64(totalPixels) / float64(e.maxSamples)))
		if step < 1 {
			step = 1
		}
	}

	index := make(map[RGB]int)
	var points []labPoint
	sampled := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			rgb := RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			sampled++

			if i, ok := index[rgb]; ok {
				points[i].count++
				continue
			}
			l, la, lb := rgbToLab(rgb)
			index[rgb] = len(points)
			points = append(points, labPoint{l: l, a: la, b: lb, count: 1})
		}
	}

	return points, sampled
}

// seedCentroids chooses initial centroids deterministically: the most
// populous colour first, then repeatedly the point farthest from every
// centroid chosen so far. Ties keep the earliest point in scan order.
func (e *KMeansExtractor) seedCentroids(points []labPoint) []labPoint {
	centroids := make([]labPoint, 0, e.clusters)

	first := 0
	for i, p := range points {
		if p.count > points[first].count {
			first = i
		}
	}
	centroids = append(centroids, points[first])

	minDist := make([]float64, len(points))
	for i, p := range points {
		minDist[i] = p.distance(centroids[0])
	}

	for len(centroids) < e.clusters {
		farthest := 0
		for i := range points {
			if minDist[i] > minDist[farthest] {
				farthest = i
			}
		}
		next := points[farthest]
		centroids = append(centroids, next)
		for i, p := range points {
			if d := p.distance(next); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return centroids
}

// nearestCentroid finds the index of the nearest centroid to a point.
// Ties keep the lowest index so assignment stays deterministic.
func nearestCentroid(p labPoint, centroids []labPoint) int {
	nearest := 0
	minDist := p.distance(centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := p.distance(centroids[i]); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids recomputes each centroid as the pixel-weighted mean of
// its assigned points. An empty cluster keeps its previous centroid rather
// than being reseeded, which would reintroduce nondeterminism.
func recalculateCentroids(points []labPoint, assignments []int, previous []labPoint) []labPoint {
	sums := make([]labPoint, len(previous))
	for i, p := range points {
		cluster := assignments[i]
		w := float64(p.count)
		sums[cluster].l += p.l * w
		sums[cluster].a += p.a * w
		sums[cluster].b += p.b * w
		sums[cluster].count += p.count
	}

	centroids := make([]labPoint, len(previous))
	for i := range centroids {
		if sums[i].count > 0 {
			n := float64(sums[i].count)
			centroids[i] = labPoint{l: sums[i].l / n, a: sums[i].a / n, b: sums[i].b / n}
		} else {
			centroids[i] = previous[i]
		}
	}
	return centroids
}

// sortSamples orders samples by weight descending, breaking ties by hex so
// equal-weight clusters have a stable order.
func sortSamples(samples []Sample) {
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Weight != samples[j].Weight {
			return samples[i].Weight > samples[j].Weight
		}
		return samples[i].Colour.Hex() < samples[j].Colour.Hex()
	})
}

// rgbToLab converts an 8-bit RGB colour to CIE Lab.
func rgbToLab(rgb RGB) (l, a, b float64) {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	return c.Lab()
}

// labToRGB converts a CIE Lab colour back to clamped 8-bit RGB.
func labToRGB(l, a, b float64) RGB {
	r, g, bb := colorful.Lab(l, a, b).Clamped().RGB255()
	return RGB{R: r, G: g, B: bb}
}
