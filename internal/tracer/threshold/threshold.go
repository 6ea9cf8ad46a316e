// Package threshold selects the hysteresis cut points from a 256-bin
// histogram of gradient magnitudes (spec component F).
package threshold

import "github.com/cwbudde/vectrace/internal/tracer/imagegrid"

const bins = 256

// Histogram builds a 256-bin histogram of magnitude values in [0, 1]
// over the thinned gradient grid.
func Histogram(src *imagegrid.Grid[imagegrid.GradientCell]) [bins]int {
	var hist [bins]int
	w, h := src.Width(), src.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bin := binOf(src.At(x, y).Magnitude)
			hist[bin]++
		}
	}
	return hist
}

func binOf(mag float64) int {
	bin := int(mag * bins)
	if bin >= bins {
		bin = bins - 1
	}
	if bin < 0 {
		bin = 0
	}
	return bin
}

// Otsu picks a single cut index maximising inter-class variance
//
//	w0·w1·(μ1/w1 - μ0/w0)²
//
// over a 256-bin histogram, per spec.md §9's resolved off-by-one:
// the maximising index i itself is used (not i+1). Returns
// high = i/256 and low = high/2.
func Otsu(hist [bins]int) (low, high float64) {
	i := bestSingleCut(hist)
	high = float64(i) / bins
	low = high / 2
	return
}

func bestSingleCut(hist [bins]int) int {
	total := 0
	var sumAll float64
	for i, c := range hist {
		total += c
		sumAll += float64(i * c)
	}
	if total == 0 {
		return 0
	}

	// Track the first and last index attaining the maximum variance and
	// return their midpoint: a symmetric bimodal histogram has a flat
	// plateau of tied cuts, and first-wins would skew the result to one
	// edge of it instead of its centre.
	bestFirst, bestLast := 0, 0
	bestVar := -1.0
	w0, sum0 := 0, 0.0

	for i := 0; i < bins-1; i++ {
		w0 += hist[i]
		sum0 += float64(i * hist[i])
		w1 := total - w0
		if w0 == 0 || w1 == 0 {
			continue
		}
		mu0 := sum0 / float64(w0)
		mu1 := (sumAll - sum0) / float64(w1)
		variance := float64(w0) * float64(w1) * (mu1 - mu0) * (mu1 - mu0)
		if variance > bestVar {
			bestVar = variance
			bestFirst, bestLast = i, i
		} else if variance == bestVar {
			bestLast = i
		}
	}
	return (bestFirst + bestLast) / 2
}

// TwoLevel enumerates every (tl, th) with 1 <= tl < th <= 255 and
// maximises the three-class inter-class variance Σ wk·(μk-μ)², used by
// the engine-facing stage-cached pipeline.
func TwoLevel(hist [bins]int) (low, high float64) {
	total := 0
	var sumAll float64
	for i, c := range hist {
		total += c
		sumAll += float64(i * c)
	}
	if total == 0 {
		return 0, 0
	}
	mu := sumAll / float64(total)

	// Prefix sums for O(1) class statistics.
	var pw [bins + 1]int
	var psum [bins + 1]float64
	for i := 0; i < bins; i++ {
		pw[i+1] = pw[i] + hist[i]
		psum[i+1] = psum[i] + float64(i*hist[i])
	}

	classStats := func(a, b int) (w int, sum float64) { // [a, b)
		return pw[b] - pw[a], psum[b] - psum[a]
	}

	bestVar := -1.0
	bestTl, bestTh := 1, 2

	for tl := 1; tl < bins-1; tl++ {
		for th := tl + 1; th < bins; th++ {
			w0, sum0 := classStats(0, tl)
			w1, sum1 := classStats(tl, th)
			w2, sum2 := classStats(th, bins)
			if w0 == 0 || w1 == 0 || w2 == 0 {
				continue
			}
			mu0 := sum0 / float64(w0)
			mu1 := sum1 / float64(w1)
			mu2 := sum2 / float64(w2)
			variance := float64(w0)*(mu0-mu)*(mu0-mu) +
				float64(w1)*(mu1-mu)*(mu1-mu) +
				float64(w2)*(mu2-mu)*(mu2-mu)
			if variance > bestVar {
				bestVar = variance
				bestTl, bestTh = tl, th
			}
		}
	}

	return float64(bestTl) / bins, float64(bestTh) / bins
}
