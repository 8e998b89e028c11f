package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/tintd/internal/colour"
)

func writePNG(t *testing.T, dir string, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "test.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
	return path
}

func TestFileLoaderLoadsPNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), color.RGBA{R: 34, G: 85, B: 51, A: 255})

	img, err := NewFileLoader().Load(path)
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 8, bounds.Dx())
	assert.Equal(t, 8, bounds.Dy())
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(dir, "missing.png")},
		{"directory", dir},
		{"not an image", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileLoader().Load(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecodeFailed)
		})
	}
}

func TestSamplerPipeline(t *testing.T) {
	path := writePNG(t, t.TempDir(), color.RGBA{R: 34, G: 85, B: 51, A: 255})

	s := NewSampler(NewFileLoader(), colour.NewKMeansExtractor())
	samples, err := s.Sample(path)
	require.NoError(t, err)

	require.NotEmpty(t, samples)
	assert.InDelta(t, 1.0, samples[0].Weight, 1e-9)
}

func TestSamplerPropagatesLoadError(t *testing.T) {
	s := NewSampler(NewFileLoader(), colour.NewKMeansExtractor())

	_, err := s.Sample(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrDecodeFailed)
}
