package polygon

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/geom"
)

// sums is a running prefix total of path[i]-path[0] and its second
// moments, letting penalty(i, j) be evaluated in O(1) once built.
type sums struct {
	x, y, x2, y2, xy float64
}

func prefixSums(path []geom.Point) []sums {
	n := len(path)
	out := make([]sums, n+1)
	origin := path[0]
	for i := 0; i < n; i++ {
		dx := float64(path[i].X - origin.X)
		dy := float64(path[i].Y - origin.Y)
		out[i+1] = sums{
			x:  out[i].x + dx,
			y:  out[i].y + dy,
			x2: out[i].x2 + dx*dx,
			y2: out[i].y2 + dy*dy,
			xy: out[i].xy + dx*dy,
		}
	}
	return out
}

// deltaSums returns the moments of path[i..j] inclusive and its point
// count, derived from the prefix table built over the same path.
func deltaSums(prefix []sums, i, j int) (x, y, x2, y2, xy float64, k int) {
	a, b := prefix[i], prefix[j+1]
	return b.x - a.x, b.y - a.y, b.x2 - a.x2, b.y2 - a.y2, b.xy - a.xy, j - i + 1
}

// penalty is the orthogonal root-mean-square distance of path[i..j]
// from the chord path[i]-path[j], weighted by the segment's direction
// normal — the cost Potrace-style shortest-path selection minimises.
func penalty(path []geom.Point, prefix []sums, i, j int) float64 {
	px, py, x2, y2, xy, k := deltaSums(prefix, i, j)

	origin := path[0]
	pmx := (float64(path[i].X+path[j].X)/2 - float64(origin.X))
	pmy := (float64(path[i].Y+path[j].Y)/2 - float64(origin.Y))

	ey := float64(path[j].X - path[i].X)
	ex := -float64(path[j].Y - path[i].Y)

	kf := float64(k)
	a := (x2-2*px*pmx)/kf + pmx*pmx
	b := (xy-px*pmy-py*pmx)/kf + pmx*pmy
	c := (y2-2*py*pmy)/kf + pmy*pmy

	s := ex*ex*a + 2*ex*ey*b + ey*ey*c
	if s < 0 {
		s = 0
	}
	return math.Sqrt(s)
}
