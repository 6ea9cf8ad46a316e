package hysteresis

import (
	"testing"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

func TestDeterminism(t *testing.T) {
	mag := diagonalStroke(32)
	a := Run(mag, 0.25, 0.5, 0)
	b := Run(mag, 0.25, 0.5, 0)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("non-deterministic output at (%d,%d)", x, y)
			}
		}
	}
}

func TestStrongPixelAlwaysEdge(t *testing.T) {
	mag := imagegrid.New[float64](4, 4, 0)
	mag.Set(2, 2, 0.9)
	out := Run(mag, 0.25, 0.5, 0)
	if out.At(2, 2) != 1 {
		t.Fatalf("expected strong pixel to be marked as edge")
	}
}

func TestWeakSalvageTopFraction(t *testing.T) {
	// Twenty disconnected weak-only components of sizes 1..20, no
	// strong pixels. Each component is separated from the next by a
	// 2px gap so 8-connectivity never merges two of them.
	const gap = 2
	base := 0
	var bases [21]int
	for i := 1; i <= 20; i++ {
		bases[i] = base
		base += i + gap
	}
	w, h := base, 1
	mag := imagegrid.New[float64](w, h, 0)
	for i := 1; i <= 20; i++ {
		for k := 0; k < i; k++ {
			mag.Set(bases[i]+k, 0, 0.3)
		}
	}
	out := Run(mag, 0.25, 0.5, 0.25)

	// The five largest components (sizes 16..20) should be fully
	// promoted; smaller ones should not.
	promoted := 0
	for x := 0; x < w; x++ {
		if out.At(x, 0) == 1 {
			promoted++
		}
	}
	wantPromoted := 16 + 17 + 18 + 19 + 20
	if promoted != wantPromoted {
		t.Fatalf("expected %d promoted pixels (top 5 components), got %d", wantPromoted, promoted)
	}
}

func diagonalStroke(n int) *imagegrid.Grid[float64] {
	g := imagegrid.New[float64](n, n, 0)
	for i := 0; i < n; i++ {
		g.Set(i, i, 0.8)
	}
	return g
}
