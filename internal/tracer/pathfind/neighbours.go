package pathfind

import (
	"math"
	"sort"

	"github.com/cwbudde/vectrace/internal/tracer/geom"
)

// diskRadius bounds the neighbourhood offsets considered by the
// direction-aligned search: every v with x²+y² <= diskRadius².
const diskRadius = 2

// diskOffsets enumerates every integer offset (including the origin)
// within diskRadius, in the fixed x-outer/y-inner scan order the
// stable sort below relies on for deterministic tie-breaking.
func diskOffsets() []geom.Point {
	var pts []geom.Point
	for x := -diskRadius; x <= diskRadius; x++ {
		for y := -diskRadius; y <= diskRadius; y++ {
			if x*x+y*y <= diskRadius*diskRadius {
				pts = append(pts, geom.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// neighbourTable precomputes, for every direction vector d in the
// disk, the list of non-zero in-disk offsets v with d·v >= 0, sorted
// by (|v|, -cos∠(d,v)) — prefer closer, then more-aligned neighbours.
// The null direction maps to the full sorted disk (spec component I).
type neighbourTable struct {
	byDir map[geom.Point][]geom.Point
}

func newNeighbourTable() *neighbourTable {
	all := diskOffsets()
	t := &neighbourTable{byDir: make(map[geom.Point][]geom.Point, len(all))}

	for _, dir := range all {
		var aligned []geom.Point
		for _, v := range all {
			if v == (geom.Point{}) {
				continue
			}
			if dir.X*v.X+dir.Y*v.Y >= 0 {
				aligned = append(aligned, v)
			}
		}

		lenDir := vecLength(dir)
		sort.SliceStable(aligned, func(i, j int) bool {
			li, lj := vecLength(aligned[i]), vecLength(aligned[j])
			if li != lj {
				return li < lj
			}
			ci := cosine(dir, aligned[i], lenDir)
			cj := cosine(dir, aligned[j], lenDir)
			return -ci < -cj
		})

		t.byDir[dir] = aligned
	}

	return t
}

func vecLength(v geom.Point) float64 {
	return math.Sqrt(float64(v.X*v.X + v.Y*v.Y))
}

const cosineEps = 1e-8

func cosine(dir, v geom.Point, lenDir float64) float64 {
	dot := float64(dir.X*v.X + dir.Y*v.Y)
	lenV := vecLength(v)
	return dot / (lenDir*lenV + cosineEps)
}

// firstAdmissible returns the first neighbour of cur (by the table
// entry for dirKey) that is in-image and unvisited, preferring closer
// then better-aligned candidates.
func (t *neighbourTable) firstAdmissible(cur geom.Point, dirKey geom.Point, admissible func(geom.Point) bool) (geom.Point, bool) {
	for _, d := range t.byDir[dirKey] {
		u := cur.Add(d)
		if admissible(u) {
			return u, true
		}
	}
	return geom.Point{}, false
}
