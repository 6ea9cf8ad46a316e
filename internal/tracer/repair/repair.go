// Package repair eliminates "T" and small "+" junctions from a binary
// edge map before path extraction, so the direction-aligned DFS never
// gets stuck at a branch point (spec component H).
package repair

import "github.com/cwbudde/vectrace/internal/tracer/imagegrid"

// Fix applies four symmetric rewrite rules — one template, rotated and
// reflected four times — to every pixel: each rule detects a short
// "tail" perpendicular to a run of three collinear set pixels and
// swaps the tail into the centre pixel, provided the tail has no other
// neighbours. Rewrites read from src and write to a fresh copy, so a
// single pass never cascades.
func Fix(src *imagegrid.BinaryImage) *imagegrid.BinaryImage {
	src = src.WithPadding(2)
	w, h := src.Width(), src.Height()
	out := imagegrid.New[byte](w, h, src.Padding())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, src.At(x, y))
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			set := func(dx, dy int) bool { return src.At(x+dx, y+dy) != 0 }

			switch {
			case set(1, 0) && set(-1, 0):
				// Horizontal run through (x,y): look for a vertical
				// tail above or below with no other support.
				if set(0, 1) && !set(0, 2) && !set(1, 1) && !set(-1, 1) {
					out.Set(x, y, 1)
					out.Set(x, y+1, 0)
				}
				if set(0, -1) && !set(0, -2) && !set(1, -1) && !set(-1, -1) {
					out.Set(x, y, 1)
					out.Set(x, y-1, 0)
				}

			case set(0, 1) && set(0, -1):
				// Vertical run through (x,y): look for a horizontal
				// tail to the right or left with no other support.
				if set(1, 0) && !set(2, 0) && !set(1, 1) && !set(1, -1) {
					out.Set(x, y, 1)
					out.Set(x+1, y, 0)
				}
				if set(-1, 0) && !set(-2, 0) && !set(-1, 1) && !set(-1, -1) {
					out.Set(x, y, 1)
					out.Set(x-1, y, 0)
				}
			}
		}
	}

	return out
}
