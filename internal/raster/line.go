// Package raster renders the vector output back onto a pixel grid for
// preview images and colour sampling (spec component N): Wu's
// antialiased line algorithm, adaptive cubic subdivision built on it,
// and a coverage-weighted colour sampler used to recolour traced
// curves from the source image.
package raster

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/geom"
)

// Plot receives one antialiased pixel write: the integer coordinate
// and its coverage in [0,1].
type Plot func(x, y int, coverage float64)

// Line draws the segment p0->p1 using Wu's algorithm: each endpoint
// splits its coverage across the two pixel rows (or columns, for
// steep lines) it straddles, and every interior step advances the
// running intercept by the line's gradient.
func Line(p0, p1 geom.Vec2, plot Plot) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y

	steep := math.Abs(y1-y0) > math.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := y1 - y0
	gradient := 1.0
	if dx != 0 {
		gradient = dy / dx
	}

	put := func(x, y int, c float64) {
		if steep {
			plot(y, x, c)
		} else {
			plot(x, y, c)
		}
	}

	xend := math.Round(x0)
	yend := y0 + gradient*(xend-x0)
	xgap := rfpart(x0 + 0.5)
	xpxl1 := int(xend)
	ypxl1 := ipart(yend)
	put(xpxl1, ypxl1, rfpart(yend)*xgap)
	put(xpxl1, ypxl1+1, fpart(yend)*xgap)
	intery := yend + gradient

	xend = math.Round(x1)
	yend = y1 + gradient*(xend-x1)
	xgap = fpart(x1 + 0.5)
	xpxl2 := int(xend)
	ypxl2 := ipart(yend)
	put(xpxl2, ypxl2, rfpart(yend)*xgap)
	put(xpxl2, ypxl2+1, fpart(yend)*xgap)

	for x := xpxl1 + 1; x < xpxl2; x++ {
		put(x, ipart(intery), rfpart(intery))
		put(x, ipart(intery)+1, fpart(intery))
		intery += gradient
	}
}

func ipart(v float64) int     { return int(math.Floor(v)) }
func fpart(v float64) float64 { return v - math.Floor(v) }
func rfpart(v float64) float64 {
	return 1 - fpart(v)
}
