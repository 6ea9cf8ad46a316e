package imageio

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 50), G: uint8(y * 50), B: 200, A: 255})
		}
	}
	if err := SavePNG(src, path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	grid, err := Load(path, 2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if grid.Width() != 4 || grid.Height() != 3 {
		t.Fatalf("expected 4x3 grid, got %dx%d", grid.Width(), grid.Height())
	}

	want := color.RGBA{R: 100, G: 50, B: 200, A: 255}
	got := grid.At(2, 1)
	if diff := got.R*255 - float64(want.R); diff > 1 || diff < -1 {
		t.Fatalf("expected R close to %d, got %f", want.R, got.R*255)
	}
}

func TestLoadMissingFileReturnsErrFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"), 2)
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}
