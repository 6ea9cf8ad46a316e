// Package polygon implements Potrace-style optimal polygon fitting:
// pivot/penalty computation over integer prefix sums (spec components
// J, K) and the quadratic-form vertex solver (component L).
package polygon

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/geom"
)

// computePivot returns, for every index i, the furthest index
// pivot[i] such that the chord path[i]->path[pivot[i]] stays inside
// the one-pixel tube swept by the path and every cardinal-sign
// quadrant has been crossed exactly once along the way — the
// admissible straight-segment bound used by the shortest-path stage.
//
// The trailing pass enforces pivot[i] = min(pivot[i], pivot[i+1]) so
// pivots are weakly decreasing scanning from the tail; this is the
// Potrace-matching monotonising variant (spec.md §9's resolved open
// question).
func computePivot(path []geom.Point) []int {
	n := len(path)
	nextCorner := make([]int, n)
	k := n - 1
	for i := n - 1; i >= 0; i-- {
		if path[i].X != path[k].X && path[i].Y != path[k].Y {
			k = i + 1
		}
		nextCorner[i] = k
	}

	pivot := make([]int, n)
	pivot[n-1] = n - 1

	for i := n - 2; i >= 0; i-- {
		var dirCount [4]int
		d0 := path[i+1].Sub(path[i])
		dirCount[dirIndex(d0)]++

		var c0, c1 geom.Point
		k := nextCorner[i]
		kPrev := i

		for {
			dk := signPoint(path[k].Sub(path[kPrev]))
			dirCount[dirIndex(dk)]++

			if dirCount[0] > 0 && dirCount[1] > 0 && dirCount[2] > 0 && dirCount[3] > 0 {
				pivot[i] = kPrev
				break
			}

			curr := path[k].Sub(path[i])
			if c0.Cross(curr) < 0 || c1.Cross(curr) > 0 {
				currPrev := path[kPrev].Sub(path[i])
				a := c0.Cross(currPrev)
				b := c0.Cross(dk)
				c := c1.Cross(currPrev)
				d := c1.Cross(dk)

				j := math.MaxInt
				if b < 0 {
					j = floorDiv(a, -b)
				}
				if d > 0 {
					j = minInt(j, floorDiv(-c, d))
				}
				pivot[i] = kPrev + j
				break
			}

			if absInt(curr.X) > 1 || absInt(curr.Y) > 1 {
				offset0 := geom.Point{X: curr.X + signForX(curr), Y: curr.Y + signForY(curr)}
				if c0.Cross(offset0) >= 0 {
					c0 = offset0
				}
				offset1 := geom.Point{X: curr.X + signForXAlt(curr), Y: curr.Y + signForYAlt(curr)}
				if c1.Cross(offset1) <= 0 {
					c1 = offset1
				}
			}

			kPrev = k
			k = nextCorner[k]
			if kPrev == n-1 {
				pivot[i] = n - 1
				break
			}
		}
	}

	for i := 0; i < n; i++ {
		pivot[i] = minInt(pivot[i], n-1)
	}

	j := pivot[n-1]
	for i := n - 2; i >= 0; i-- {
		if pivot[i] >= i+1 && pivot[i] < j {
			j = pivot[i]
		}
		pivot[i] = j
	}

	return pivot
}

func dirIndex(d geom.Point) int {
	return (3 + 3*d.X + d.Y) / 2
}

func signPoint(p geom.Point) geom.Point {
	return geom.Point{X: signInt(p.X), Y: signInt(p.Y)}
}

func signInt(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func signForX(curr geom.Point) int {
	if curr.Y >= 0 && (curr.Y > 0 || curr.X < 0) {
		return 1
	}
	return -1
}

func signForY(curr geom.Point) int {
	if curr.X <= 0 && (curr.X < 0 || curr.Y < 0) {
		return 1
	}
	return -1
}

func signForXAlt(curr geom.Point) int {
	if curr.Y <= 0 && (curr.Y < 0 || curr.X < 0) {
		return 1
	}
	return -1
}

func signForYAlt(curr geom.Point) int {
	if curr.X >= 0 && (curr.X > 0 || curr.Y < 0) {
		return 1
	}
	return -1
}

// floorDiv is Euclidean-rounding integer division matching the
// reference implementation's floor_div: a>=0 ? a/b : -1-(-1-a)/b.
func floorDiv(a, b int) int {
	if a >= 0 {
		return a / b
	}
	return -1 - (-1-a)/b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
