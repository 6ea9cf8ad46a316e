// Package hysteresis promotes gradient magnitudes into a strict binary
// edge map using a (low, high) threshold pair, linking weak pixels to
// strong ones through 8-connectivity and salvaging the largest
// weak-only components (spec component G).
package hysteresis

import (
	"sort"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

const (
	unvisited = 0
	visited   = 1
)

// Run marks pixels as edges using (low, high):
//
//   - magnitude >= high is an immediate edge.
//   - magnitude in [low, high) participates in an 8-connected DFS over
//     pixels still in that band; a component is "strong" if any pixel
//     in it neighbours a magnitude >= high pixel, and all of a strong
//     component's pixels become edges.
//   - weak-only components are sorted by descending size and the top
//     takePercentile fraction is also promoted (salvage heuristic).
//
// Two invocations with identical (low, high, takePercentile) over the
// same input produce byte-identical output: the DFS explores a fixed
// 8-neighbour order and components are sorted by size with a
// deterministic tie-break (first-discovered wins), so there is no
// dependency on map iteration order.
func Run(mag *imagegrid.Grid[float64], low, high, takePercentile float64) *imagegrid.BinaryImage {
	w, h := mag.Width(), mag.Height()
	out := imagegrid.New[byte](w, h, mag.Padding())
	state := imagegrid.New[byte](w, h, mag.Padding())

	type component struct {
		pixels []point
		strong bool
	}
	var weakOnly []component

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := mag.At(x, y)
			if v >= high {
				out.Set(x, y, 1)
				state.Set(x, y, visited)
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := mag.At(x, y)
			if v < low || v >= high || state.At(x, y) == visited {
				continue
			}
			pixels, strong := floodComponent(mag, state, x, y, low, high)
			if strong {
				for _, p := range pixels {
					out.Set(p.x, p.y, 1)
				}
			} else {
				weakOnly = append(weakOnly, component{pixels: pixels})
			}
		}
	}

	sort.SliceStable(weakOnly, func(i, j int) bool {
		return len(weakOnly[i].pixels) > len(weakOnly[j].pixels)
	})

	salvage := int(takePercentile * float64(len(weakOnly)))
	for i := 0; i < salvage; i++ {
		for _, p := range weakOnly[i].pixels {
			out.Set(p.x, p.y, 1)
		}
	}

	return out
}

type point struct{ x, y int }

// 8-neighbour offsets in a fixed, deterministic scan order.
var neighbourOffsets = [8]point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// floodComponent performs an iterative (explicit-stack) 8-connected
// flood fill over pixels in [low, high), starting at (sx, sy). It
// returns every pixel visited and whether any of them neighbours a
// magnitude >= high pixel (making the component "strong").
func floodComponent(mag *imagegrid.Grid[float64], state *imagegrid.Grid[byte], sx, sy int, low, high float64) ([]point, bool) {
	w, h := mag.Width(), mag.Height()
	stack := []point{{sx, sy}}
	state.Set(sx, sy, visited)

	var pixels []point
	strong := false

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pixels = append(pixels, p)

		for _, off := range neighbourOffsets {
			nx, ny := p.x+off.x, p.y+off.y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			nv := mag.At(nx, ny)
			if nv >= high {
				strong = true
				continue
			}
			if nv < low || state.At(nx, ny) == visited {
				continue
			}
			state.Set(nx, ny, visited)
			stack = append(stack, point{nx, ny})
		}
	}

	return pixels, strong
}
