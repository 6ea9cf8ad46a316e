// Package imageio loads source raster images into padded grids and
// writes rendered previews back out as PNG (spec component P).
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/clone"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

// ErrFileNotFound wraps os.ErrNotExist so callers can use errors.Is
// regardless of the underlying decoder's error text.
var ErrFileNotFound = fmt.Errorf("image file not found: %w", os.ErrNotExist)

// Load decodes the PNG or JPEG file at path and copies it into a
// padded RGB grid ready for the blur stage.
func Load(path string, padding int) (*imagegrid.Grid[imagegrid.RGB], error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	// Normalize whatever concrete type the decoder handed back (palette,
	// YCbCr, etc.) to a single RGBA layout before the per-pixel scan.
	img := clone.AsRGBA(decoded)

	bounds := img.Bounds()
	grid := imagegrid.New[imagegrid.RGB](bounds.Dx(), bounds.Dy(), padding)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			grid.Set(x-bounds.Min.X, y-bounds.Min.Y, imagegrid.RGB{
				R: float64(r) / 0xffff,
				G: float64(g) / 0xffff,
				B: float64(b) / 0xffff,
			})
		}
	}
	return grid, nil
}

// SavePNG encodes img as a PNG file at path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
