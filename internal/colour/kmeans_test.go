package colour

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidImage returns a width×height image filled with one colour.
func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// stripedImage returns an image whose columns cycle through the given
// colours, giving each an equal share of pixels.
func stripedImage(width, height int, colours []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stripe := width / len(colours)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := x / stripe
			if idx >= len(colours) {
				idx = len(colours) - 1
			}
			img.SetRGBA(x, y, colours[idx])
		}
	}
	return img
}

func TestExtractNilImage(t *testing.T) {
	_, err := NewKMeansExtractor().Extract(nil)
	require.Error(t, err)
}

func TestExtractUniformImage(t *testing.T) {
	img := solidImage(64, 64, color.RGBA{R: 40, G: 90, B: 160, A: 255})

	samples, err := NewKMeansExtractor().Extract(img)
	require.NoError(t, err)

	// A single distinct colour collapses to a single cluster carrying all
	// the weight.
	require.Len(t, samples, 1)
	assert.InDelta(t, 1.0, samples[0].Weight, 1e-9)

	// Allow one unit of rounding slack from the Lab round trip.
	assert.InDelta(t, 40, samples[0].Colour.R, 1)
	assert.InDelta(t, 90, samples[0].Colour.G, 1)
	assert.InDelta(t, 160, samples[0].Colour.B, 1)
}

func TestExtractDeterministic(t *testing.T) {
	img := stripedImage(120, 80, []color.RGBA{
		{R: 200, G: 30, B: 40, A: 255},
		{R: 30, G: 160, B: 70, A: 255},
		{R: 20, G: 60, B: 180, A: 255},
		{R: 240, G: 220, B: 80, A: 255},
		{R: 120, G: 40, B: 150, A: 255},
		{R: 230, G: 130, B: 20, A: 255},
		{R: 10, G: 10, B: 12, A: 255},
		{R: 245, G: 245, B: 240, A: 255},
	})

	e := NewKMeansExtractor()
	first, err := e.Extract(img)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	for i := 0; i < 3; i++ {
		again, err := NewKMeansExtractor().Extract(img)
		require.NoError(t, err)
		assert.Equal(t, first, again, "extraction must be reproducible")
	}
}

func TestExtractBoundsClusterCount(t *testing.T) {
	img := stripedImage(200, 100, []color.RGBA{
		{R: 200, G: 30, B: 40, A: 255},
		{R: 30, G: 160, B: 70, A: 255},
		{R: 20, G: 60, B: 180, A: 255},
		{R: 240, G: 220, B: 80, A: 255},
		{R: 120, G: 40, B: 150, A: 255},
		{R: 230, G: 130, B: 20, A: 255},
		{R: 90, G: 200, B: 210, A: 255},
		{R: 160, G: 90, B: 60, A: 255},
	})

	samples, err := NewKMeansExtractor().Extract(img)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(samples), DefaultClusters)
	assert.NotEmpty(t, samples)

	// Sorted by weight descending, weights sum to 1.
	total := 0.0
	for i, s := range samples {
		total += s.Weight
		if i > 0 {
			assert.GreaterOrEqual(t, samples[i-1].Weight, s.Weight)
		}
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestExtractDownsamplesLargeImages(t *testing.T) {
	// 1024x1024 is well beyond the sample budget; extraction should still
	// finish and see both colours.
	img := stripedImage(1024, 1024, []color.RGBA{
		{R: 250, G: 20, B: 20, A: 255},
		{R: 20, G: 20, B: 250, A: 255},
	})

	samples, err := NewKMeansExtractor().Extract(img)
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}
