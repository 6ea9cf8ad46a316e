// Package blur implements the adaptive, edge-preserving blur of spec
// component C: an iterated weighted 3×3 average whose weights collapse
// to near zero at high-gradient pixels.
package blur

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
	"github.com/cwbudde/vectrace/internal/tracer/kernel"
)

// requiredPadding is the kernel radius of the 5x5 Scharr derivative
// used to estimate the per-pixel gradient weight.
const requiredPadding = 2

// Adaptive repeats the edge-preserving averaging step outerIterations
// times; within each outer iteration the 3×3 weighted average is
// re-applied innerIterations times against the weights computed from
// that iteration's input, deepening the blur without re-estimating the
// (expensive) gradient weight map on every inner pass. h controls how
// sharply the weight collapses near an edge: w = exp(-sqrt(sqrt(g²)) /
// (2h²)).
func Adaptive(src *imagegrid.Grid[imagegrid.RGB], h float64, outerIterations, innerIterations int) *imagegrid.Grid[imagegrid.RGB] {
	if h <= 0 {
		panic("blur: h must be positive")
	}
	if outerIterations < 1 || innerIterations < 1 {
		panic("blur: iterations must be >= 1")
	}

	current := src.WithPadding(requiredPadding)
	w, hgt := current.Width(), current.Height()

	for outer := 0; outer < outerIterations; outer++ {
		weights := computeWeights(current, h)

		for inner := 0; inner < innerIterations; inner++ {
			next := imagegrid.New[imagegrid.RGB](w, hgt, requiredPadding)
			for y := 0; y < hgt; y++ {
				for x := 0; x < w; x++ {
					next.Set(x, y, weightedAverage(current, weights, x, y))
				}
			}
			current = next
		}
	}

	return current
}

// computeWeights returns, for every interior pixel, w = exp(-sqrt(g) /
// (2h²)) where g is the squared colour-gradient magnitude summed over
// channels (spec: "for colour input sum over channels").
func computeWeights(img *imagegrid.Grid[imagegrid.RGB], h float64) *imagegrid.Grid[float64] {
	w, hgt := img.Width(), img.Height()
	weights := imagegrid.New[float64](w, hgt, requiredPadding)

	red := imagegrid.New[float64](w, hgt, requiredPadding)
	green := imagegrid.New[float64](w, hgt, requiredPadding)
	blue := imagegrid.New[float64](w, hgt, requiredPadding)
	p := img.Padding()
	for y := -p; y < hgt+p; y++ {
		for x := -p; x < w+p; x++ {
			c := img.At(x, y)
			red.Set(x, y, c.R)
			green.Set(x, y, c.G)
			blue.Set(x, y, c.B)
		}
	}

	twoHSq := 2 * h * h
	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			gSq := channelGradSq(red, x, y) + channelGradSq(green, x, y) + channelGradSq(blue, x, y)
			weight := math.Exp(-math.Sqrt(math.Sqrt(gSq)) / twoHSq)
			weights.Set(x, y, weight)
		}
	}
	return weights
}

func channelGradSq(channel *imagegrid.Grid[float64], x, y int) float64 {
	gx := kernel.EvaluateRaw(kernel.Scharr5x5Gx, channel, x, y)
	gy := kernel.EvaluateRaw(kernel.Scharr5x5Gy, channel, x, y)
	return gx*gx + gy*gy
}

// weightedAverage replaces pixel (x,y) with the weight-normalised
// average of its 3x3 neighbourhood.
func weightedAverage(img *imagegrid.Grid[imagegrid.RGB], weights *imagegrid.Grid[float64], x, y int) imagegrid.RGB {
	var sumR, sumG, sumB, sumW float64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			w := neighbourWeight(weights, nx, ny)
			c := img.At(nx, ny)
			sumR += c.R * w
			sumG += c.G * w
			sumB += c.B * w
			sumW += w
		}
	}
	if sumW == 0 {
		return img.At(x, y)
	}
	return imagegrid.RGB{R: sumR / sumW, G: sumG / sumW, B: sumB / sumW}
}

// neighbourWeight reads the weight grid, returning 0 for neighbours
// that fall in the border (the weight map itself is only defined over
// the interior), so the zero-valued border cells never enter the
// average.
func neighbourWeight(weights *imagegrid.Grid[float64], x, y int) float64 {
	if x < 0 || y < 0 || x >= weights.Width() || y >= weights.Height() {
		return 0
	}
	return weights.At(x, y)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
