package blur

import (
	"testing"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

func flatImage(w, h int, v imagegrid.RGB) *imagegrid.Grid[imagegrid.RGB] {
	g := imagegrid.New[imagegrid.RGB](w, h, 2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, v)
		}
	}
	return g
}

func TestAdaptiveBlurFlatImageUnchanged(t *testing.T) {
	src := flatImage(12, 12, imagegrid.RGB{R: 0.5, G: 0.5, B: 0.5})
	out := Adaptive(src, 0.1, 2, 1)

	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			c := out.At(x, y)
			if absf(c.R-0.5) > 1e-9 || absf(c.G-0.5) > 1e-9 || absf(c.B-0.5) > 1e-9 {
				t.Fatalf("flat image should be unchanged by blur, got %v at (%d,%d)", c, x, y)
			}
		}
	}
}

func TestAdaptivePanicsOnBadParams(t *testing.T) {
	src := flatImage(4, 4, imagegrid.RGB{})
	assertPanics(t, func() { Adaptive(src, 0, 1, 1) })
	assertPanics(t, func() { Adaptive(src, 1, 0, 1) })
	assertPanics(t, func() { Adaptive(src, 1, 1, 0) })
}

func assertPanics(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	f()
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
