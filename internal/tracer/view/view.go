// Package view renders pipeline stage outputs to standard image.Image
// values for preview and debugging, adapted from the renderer's
// params-to-*image.NRGBA pattern but applied to stage grids instead of
// rendered geometry.
package view

import (
	"image"
	"image/color"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

// RGB renders an RGB grid to an *image.NRGBA, ignoring any padding
// border.
func RGB(g *imagegrid.Grid[imagegrid.RGB]) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := g.At(x, y)
			out.Set(x, y, color.NRGBA{
				R: clamp8(c.R),
				G: clamp8(c.G),
				B: clamp8(c.B),
				A: 255,
			})
		}
	}
	return out
}

// GradientMagnitude renders a gradient grid's magnitude channel as
// greyscale, normalised assuming values already lie in [0, 1].
func GradientMagnitude(g *imagegrid.Grid[imagegrid.GradientCell]) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := clamp8(g.At(x, y).Magnitude)
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// Binary renders a binary edge map as black-on-white.
func Binary(g *imagegrid.Grid[byte]) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := uint8(255)
			if g.At(x, y) != 0 {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v * 255)
	}
}
