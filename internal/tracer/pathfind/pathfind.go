// Package pathfind extracts simple pixel paths from a repaired binary
// edge map via a direction-aligned depth-first walk (spec component
// I). The source expresses both the corner search and the recording
// walk as recursion that always follows the single best-admissible
// neighbour and backtracks only by unwinding on return — there is no
// branching search to preserve, so both are implemented here as plain
// iterative loops with an explicit "visited" unwind list, which also
// satisfies the concurrency model's requirement that DFS traversal not
// depend on a call stack sized by the image's pixel count.
package pathfind

import (
	"github.com/cwbudde/vectrace/internal/tracer/geom"
	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

// minPathLength is the spec's retention threshold: only paths with
// more than this many points are kept.
const minPathLength = 5

// Path is an ordered sequence of pixel coordinates extracted from the
// binary edge map.
type Path []geom.Point

// Finder walks a binary edge map and extracts simple pixel paths.
type Finder struct {
	image   *imagegrid.BinaryImage
	visited *imagegrid.Grid[byte]
	table   *neighbourTable
}

// New builds a Finder over a copy of image re-padded to at least
// diskRadius, so the disk-radius neighbourhood table can read freely
// near the border.
func New(image *imagegrid.BinaryImage) *Finder {
	image = image.WithPadding(diskRadius)
	return &Finder{
		image:   image,
		visited: imagegrid.New[byte](image.Width(), image.Height(), diskRadius),
		table:   newNeighbourTable(),
	}
}

// FindPaths scans every unvisited set pixel, finds its "corner" (the
// far end of a greedy direction-aligned walk) and records a path from
// there. Paths of length <= 5 are discarded (spec's PathologicalTopology
// case).
func (f *Finder) FindPaths() []Path {
	var paths []Path
	w, h := f.image.Width(), f.image.Height()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if f.image.At(x, y) == 0 {
				continue
			}
			// A junction pixel can seed more than one path: each
			// extraction only consumes one admissible branch, so keep
			// re-seeding from (x, y) until it is actually visited.
			for f.visited.At(x, y) == 0 {
				p := geom.Point{X: x, Y: y}
				corner := f.searchCorner(p, false, geom.Point{})
				path := f.searchPath(corner, false, geom.Point{})
				if len(path) > minPathLength {
					paths = append(paths, path)
				}
				if f.visited.At(x, y) == 0 {
					// No admissible branch moved past (x, y) itself;
					// mark it directly to avoid spinning forever.
					f.visited.Set(x, y, 1)
				}
			}
		}
	}
	return paths
}

func (f *Finder) isFree(p geom.Point) bool {
	return f.visited.At(p.X, p.Y) == 0 && f.image.At(p.X, p.Y) != 0
}

// searchCorner walks greedily from v, following the first admissible
// neighbour under the arrival direction, and returns the furthest
// point reached. Visited marks made during the walk are unwound before
// returning: this search only locates a starting corner, it does not
// record a path.
func (f *Finder) searchCorner(v geom.Point, hasPrev bool, prev geom.Point) geom.Point {
	var marked []geom.Point
	cur, curHasPrev, curPrev := v, hasPrev, prev

	for {
		f.visited.Set(cur.X, cur.Y, 1)
		marked = append(marked, cur)

		dirKey := geom.Point{}
		if curHasPrev {
			dirKey = cur.Sub(curPrev)
		}
		next, ok := f.table.firstAdmissible(cur, dirKey, f.isFree)
		if !ok {
			break
		}
		curPrev, cur, curHasPrev = cur, next, true
	}

	for _, p := range marked {
		f.visited.Set(p.X, p.Y, 0)
	}
	return cur
}

// searchPath records a path starting at v, applying the midpoint
// insertion rules from spec component I whenever the step from the
// running "prev" point to the next candidate would otherwise violate
// the Path invariant (no unconnected diagonal/chord jumps).
func (f *Finder) searchPath(v geom.Point, hasPrev bool, prev geom.Point) Path {
	var path Path
	cur, curHasPrev, curPrev := v, hasPrev, prev

	for {
		f.visited.Set(cur.X, cur.Y, 1)

		prevPoint := cur
		if len(path) > 0 {
			prevPoint = path[len(path)-1]
		}

		switch {
		case prevPoint.Chebyshev(cur) > 1:
			path = append(path, midpoint(prevPoint, cur))
		case prevPoint.X != cur.X && prevPoint.Y != cur.Y:
			if len(path) > 1 {
				dir := prevPoint.Sub(path[len(path)-2])
				lookahead := prevPoint.Add(dir.Scale(2))
				if f.image.At(lookahead.X, lookahead.Y) != 0 {
					path = append(path, cur.Sub(dir))
				} else {
					path = append(path, prevPoint.Add(dir))
				}
			} else {
				path = append(path, geom.Point{X: prevPoint.X, Y: cur.Y})
			}
		}
		path = append(path, cur)

		dirKey := geom.Point{}
		if curHasPrev {
			dirKey = cur.Sub(curPrev)
		}
		next, ok := f.table.firstAdmissible(cur, dirKey, f.isFree)
		if !ok {
			break
		}
		curPrev, cur, curHasPrev = cur, next, true
	}

	return path
}

func midpoint(a, b geom.Point) geom.Point {
	return geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
