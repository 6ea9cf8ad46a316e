package raster

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/cwbudde/vectrace/internal/tracer/bezier"
	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

// SampleColour walks curve with the same flatten-and-draw traversal
// used for preview rendering, but instead of writing pixels it
// accumulates the source image's colour weighted by each antialiased
// pixel's coverage, returning the coverage-weighted average colour
// along the curve.
func SampleColour(src *imagegrid.Grid[imagegrid.RGB], curve bezier.Curve) colorful.Color {
	var rSum, gSum, bSum, wSum float64

	plot := func(x, y int, coverage float64) {
		if coverage <= 0 {
			return
		}
		if x < 0 || y < 0 || x >= src.Width() || y >= src.Height() {
			return
		}
		c := src.At(x, y)
		rSum += c.R * coverage
		gSum += c.G * coverage
		bSum += c.B * coverage
		wSum += coverage
	}

	DrawCubic(curve, plot)

	if wSum <= 0 {
		return colorful.Color{}
	}
	return colorful.Color{R: rSum / wSum, G: gSum / wSum, B: bSum / wSum}.Clamped()
}
