// Package image provides the decode boundary between wallpaper files and the
// colour pipeline.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"

	_ "golang.org/x/image/webp" // Register WebP format
)

// ErrDecodeFailed is returned when a wallpaper file cannot be read or is not
// a supported image format. Callers recover by falling back to a default
// palette; it is never fatal.
var ErrDecodeFailed = errors.New("decode failed")

// Loader handles loading images from a source.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
// Supported formats: JPEG, PNG, GIF, WebP.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path. Any read or decode failure is
// reported as ErrDecodeFailed.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: image path cannot be empty", ErrDecodeFailed)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: image file not found: %s", ErrDecodeFailed, path)
		}
		return nil, fmt.Errorf("%w: failed to stat image file: %v", ErrDecodeFailed, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory, not a file: %s", ErrDecodeFailed, path)
	}

	file, err := os.Open(path) // #nosec G304 - Wallpaper path comes from the shell's own state
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image file: %v", ErrDecodeFailed, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image (format: %s): %v", ErrDecodeFailed, format, err)
	}

	return img, nil
}
