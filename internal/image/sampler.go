// Package image provides the decode boundary between wallpaper files and the
// colour pipeline.
package image

import (
	"image"

	"github.com/jmylchreest/tintd/internal/colour"
)

// Extractor reduces a decoded image to weighted colour samples.
type Extractor interface {
	Extract(img image.Image) ([]colour.Sample, error)
}

// Sampler binds a Loader and an extractor: wallpaper path in, clustered
// colour samples out. Decode failures surface as ErrDecodeFailed.
type Sampler struct {
	loader    Loader
	extractor Extractor
}

// NewSampler creates a Sampler from a loader and an extractor.
func NewSampler(loader Loader, extractor Extractor) *Sampler {
	return &Sampler{loader: loader, extractor: extractor}
}

// Sample loads the image at path and extracts its representative colours.
func (s *Sampler) Sample(path string) ([]colour.Sample, error) {
	img, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return s.extractor.Extract(img)
}
