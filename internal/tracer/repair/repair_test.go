package repair

import (
	"testing"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

func TestFixRemovesIsolatedTJunction(t *testing.T) {
	// Horizontal run at y=2 with an unsupported tail hanging below (x,3).
	g := imagegrid.New[byte](7, 7, 2)
	for _, p := range [][2]int{{1, 2}, {2, 2}, {3, 2}, {2, 3}} {
		g.Set(p[0], p[1], 1)
	}
	out := Fix(g)
	if out.At(2, 2) != 1 {
		t.Fatalf("expected centre pixel to remain set")
	}
	if out.At(2, 3) != 0 {
		t.Fatalf("expected tail pixel to be cleared")
	}
}

func TestFixLeavesCleanLineAlone(t *testing.T) {
	g := imagegrid.New[byte](6, 3, 2)
	for x := 0; x < 6; x++ {
		g.Set(x, 1, 1)
	}
	out := Fix(g)
	for x := 0; x < 6; x++ {
		if out.At(x, 1) != 1 {
			t.Fatalf("expected straight line pixel (%d,1) preserved", x)
		}
	}
}

func TestFixSinglePassNoCascade(t *testing.T) {
	// Two independent T-junctions; fixing one must not be affected by
	// the rewrite of the other within the same pass.
	g := imagegrid.New[byte](10, 10, 2)
	for _, p := range [][2]int{{1, 2}, {2, 2}, {3, 2}, {2, 3}, {6, 2}, {7, 2}, {8, 2}, {7, 3}} {
		g.Set(p[0], p[1], 1)
	}
	out := Fix(g)
	if out.At(2, 3) != 0 || out.At(7, 3) != 0 {
		t.Fatalf("expected both tails cleared independently")
	}
}
