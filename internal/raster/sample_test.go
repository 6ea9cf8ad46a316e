package raster

import (
	"math"
	"testing"

	"github.com/cwbudde/vectrace/internal/tracer/bezier"
	"github.com/cwbudde/vectrace/internal/tracer/geom"
	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

func TestSampleColourOnFlatImageReturnsThatColour(t *testing.T) {
	img := imagegrid.New[imagegrid.RGB](20, 20, 0)
	want := imagegrid.RGB{R: 0.2, G: 0.4, B: 0.6}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, want)
		}
	}

	curve := bezier.Curve{
		P0: geom.Vec2{X: 2, Y: 10},
		P1: geom.Vec2{X: 8, Y: 10},
		P2: geom.Vec2{X: 12, Y: 10},
		P3: geom.Vec2{X: 17, Y: 10},
	}

	got := SampleColour(img, curve)
	const tol = 0.02
	if math.Abs(got.R-want.R) > tol || math.Abs(got.G-want.G) > tol || math.Abs(got.B-want.B) > tol {
		t.Fatalf("expected sampled colour close to %v, got %v", want, got)
	}
}

func TestSampleColourOutOfBoundsCurveReturnsZero(t *testing.T) {
	img := imagegrid.New[imagegrid.RGB](4, 4, 0)
	curve := bezier.Curve{
		P0: geom.Vec2{X: 100, Y: 100},
		P1: geom.Vec2{X: 101, Y: 100},
		P2: geom.Vec2{X: 102, Y: 100},
		P3: geom.Vec2{X: 103, Y: 100},
	}
	got := SampleColour(img, curve)
	if got.R != 0 || got.G != 0 || got.B != 0 {
		t.Fatalf("expected zero colour for out-of-bounds curve, got %v", got)
	}
}
