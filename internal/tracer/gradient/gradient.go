// Package gradient computes per-pixel orientation and magnitude from a
// colour image (spec component D).
//
// Two gradient definitions exist historically: channel-argmax (pick the
// channel with the largest gx²+gy²) and the structure tensor. Per
// spec.md §9's open question, this package implements the structure
// tensor variant: it is theoretically sounder for colour input and is
// the variant the stage-cached pipeline must use.
package gradient

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
	"github.com/cwbudde/vectrace/internal/tracer/kernel"
)

const requiredPadding = 2

// flatEpsilon is the largest image-wide maximum magnitude still treated
// as a flat image.
const flatEpsilon = 1e-9

// Compute derives a GradientCell grid from a colour image. Magnitude is
// sqrt(lambda_max) of the 2x2 structure tensor
//
//	M = [[gx·gx, gx·gy], [gx·gy, gy·gy]]
//
// summed over channels, with orientation angle = ½·atan2(2·M01, M00-M11)
// folded into [0, π). A second pass normalises magnitudes by the
// image-wide maximum so peak magnitude is exactly 1.0; when that
// maximum is at most flatEpsilon (a flat image, where only
// floating-point residue remains) every magnitude is set to 0.
func Compute(src *imagegrid.Grid[imagegrid.RGB]) *imagegrid.Grid[imagegrid.GradientCell] {
	img := src.WithPadding(requiredPadding)
	w, h := img.Width(), img.Height()

	red, green, blue := splitChannels(img)

	out := imagegrid.New[imagegrid.GradientCell](w, h, requiredPadding)
	maxMag := 0.0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m00, m01, m11 := structureTensor(red, green, blue, x, y)
			mag, angle := eigenMagnitudeAngle(m00, m01, m11)
			out.Set(x, y, imagegrid.GradientCell{Magnitude: mag, Angle: angle})
			if mag > maxMag {
				maxMag = mag
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := out.At(x, y)
			if maxMag > flatEpsilon {
				c.Magnitude /= maxMag
			} else {
				c.Magnitude = 0
			}
			out.Set(x, y, c)
		}
	}
	return out
}

func splitChannels(img *imagegrid.Grid[imagegrid.RGB]) (r, g, b *imagegrid.Grid[float64]) {
	w, h := img.Width(), img.Height()
	p := img.Padding()
	r = imagegrid.New[float64](w, h, p)
	g = imagegrid.New[float64](w, h, p)
	b = imagegrid.New[float64](w, h, p)
	for y := -p; y < h+p; y++ {
		for x := -p; x < w+p; x++ {
			c := img.At(x, y)
			r.Set(x, y, c.R)
			g.Set(x, y, c.G)
			b.Set(x, y, c.B)
		}
	}
	return
}

// structureTensor accumulates gx·gx, gx·gy, gy·gy over the three
// channels at (x, y).
func structureTensor(red, green, blue *imagegrid.Grid[float64], x, y int) (m00, m01, m11 float64) {
	for _, ch := range [3]*imagegrid.Grid[float64]{red, green, blue} {
		gx := kernel.EvaluateRaw(kernel.Scharr5x5Gx, ch, x, y)
		gy := kernel.EvaluateRaw(kernel.Scharr5x5Gy, ch, x, y)
		m00 += gx * gx
		m01 += gx * gy
		m11 += gy * gy
	}
	return
}

// eigenMagnitudeAngle returns sqrt(lambda_max) and the orientation of
// the leading eigenvector of [[m00, m01],[m01, m11]], folded into
// [0, π).
func eigenMagnitudeAngle(m00, m01, m11 float64) (magnitude, angle float64) {
	trace := m00 + m11
	det := m00*m11 - m01*m01
	disc := trace*trace/4 - det
	if disc < 0 {
		disc = 0
	}
	root := math.Sqrt(disc)
	lambdaMax := trace/2 + root
	if lambdaMax < 0 {
		lambdaMax = 0
	}
	magnitude = math.Sqrt(lambdaMax)

	angle = 0.5 * math.Atan2(2*m01, m00-m11)
	const pi = math.Pi
	angle = math.Mod(angle, pi)
	if angle < 0 {
		angle += pi
	}
	return
}
