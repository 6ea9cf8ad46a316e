// Package thinning implements directional non-maximum suppression over
// a gradient field (spec component E).
package thinning

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

// direction for a quantised gradient angle, in degrees.
type direction struct{ dx, dy int }

// Suppress keeps a pixel's magnitude iff it strictly exceeds both
// neighbours along the quantised gradient direction; otherwise it is
// zeroed. Border rows and columns are forced to zero. Applying Suppress
// twice on its own output is a no-op (idempotence): every surviving
// pixel already exceeds its directional neighbours, and every zeroed
// pixel stays zero.
func Suppress(src *imagegrid.Grid[imagegrid.GradientCell]) *imagegrid.Grid[imagegrid.GradientCell] {
	w, h := src.Width(), src.Height()
	out := imagegrid.New[imagegrid.GradientCell](w, h, src.Padding())

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				out.Set(x, y, imagegrid.GradientCell{})
				continue
			}
			cell := src.At(x, y)
			if cell.Magnitude == 0 {
				out.Set(x, y, imagegrid.GradientCell{})
				continue
			}
			d := quantise(cell.Angle)
			n1 := src.At(x+d.dx, y+d.dy).Magnitude
			n2 := src.At(x-d.dx, y-d.dy).Magnitude
			if cell.Magnitude > n1 && cell.Magnitude > n2 {
				out.Set(x, y, cell)
			} else {
				out.Set(x, y, imagegrid.GradientCell{})
			}
		}
	}
	return out
}

// quantise maps a gradient angle (radians, [0, π)) to one of the four
// cardinal/diagonal directions per spec's table (bounds in degrees):
//
//	[0, 22.5] ∪ [157.5, 180) -> (1, 0)
//	(22.5, 67.5)             -> (1, 1)
//	[67.5, 122.5]            -> (0, 1)
//	(122.5, 157.5)           -> (-1, 1)
func quantise(angleRad float64) direction {
	deg := angleRad * 180 / math.Pi
	switch {
	case deg <= 22.5 || deg >= 157.5:
		return direction{1, 0}
	case deg < 67.5:
		return direction{1, 1}
	case deg <= 122.5:
		return direction{0, 1}
	default:
		return direction{-1, 1}
	}
}
