package polygon

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/geom"
)

// eps guards every degeneracy check in the vertex solver: near-zero
// determinants, near-zero direction lengths, near-zero quadform
// curvature.
const eps = 1e-8

// mat3 is a symmetric 3x3 matrix acting on the homogeneous point
// (x, y, 1); it represents the squared-distance-to-line quadratic
// form built from a segment's best-fit line.
type mat3 [3][3]float64

func (q mat3) apply(p geom.Vec2) float64 {
	v := [3]float64{p.X, p.Y, 1}
	var sum float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum += v[i] * q[i][j] * v[j]
		}
	}
	return sum
}

func (q mat3) add(o mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = q[i][j] + o[i][j]
		}
	}
	return out
}

// bestFitLine returns the centre and principal-axis direction of
// path[i..j], approximating the dominant eigenvector of the segment's
// covariance matrix without an explicit eigendecomposition (the
// Potrace pointslope construction): subtract the larger eigenvalue
// from the diagonal and read the direction off whichever row has the
// larger remaining magnitude.
func bestFitLine(path []geom.Point, prefix []sums, i, j int) (center, dir geom.Vec2) {
	x, y, x2, y2, xy, n := deltaSums(prefix, i, j)
	k := float64(n)

	a := (x2 - x*x/k) / k
	b := (xy - x*y/k) / k
	c := (y2 - y*y/k) / k

	lambda2 := (a + c + math.Sqrt((a-c)*(a-c)+4*b*b)) / 2
	a -= lambda2
	c -= lambda2

	if math.Abs(a) >= math.Abs(c) {
		l := math.Sqrt(a*a + b*b)
		if l > eps {
			dir = geom.Vec2{X: -b / l, Y: a / l}
		}
	} else {
		l := math.Sqrt(c*c + b*b)
		if l > eps {
			dir = geom.Vec2{X: -c / l, Y: b / l}
		}
	}
	return geom.Vec2{X: x / k, Y: y / k}, dir
}

// segmentQuadforms builds, for every chord in the optimal sequence,
// the singular quadratic form measuring squared orthogonal distance
// from its best-fit line.
func segmentQuadforms(path []geom.Point, prefix []sums, seq []int) []mat3 {
	forms := make([]mat3, len(seq)-1)
	for i := 0; i < len(seq)-1; i++ {
		center, dir := bestFitLine(path, prefix, seq[i], seq[i+1])
		d := dir.Dot(dir)
		if d < eps {
			continue
		}
		v := [3]float64{dir.Y, -dir.X, 0}
		v[2] = -v[1]*center.Y - v[0]*center.X
		var q mat3
		for r := 0; r < 3; r++ {
			for col := 0; col < 3; col++ {
				q[r][col] = v[r] * v[col] / d
			}
		}
		forms[i] = q
	}
	return forms
}

// solveVertices places the m interior-optimised vertices of the
// polygon described by seq, minimising adjacent-segment quadratic
// forms with a box-constrained fallback when the unconstrained
// optimum strays further than half a pixel from the pivot point.
func solveVertices(path []geom.Point, seq []int) []geom.Vec2 {
	m := len(seq)
	prefix := prefixSums(path)
	forms := segmentQuadforms(path, prefix, seq)

	vertices := make([]geom.Vec2, m)
	vertices[0] = geom.FromPoint(path[seq[0]])
	vertices[m-1] = geom.FromPoint(path[seq[m-1]])
	origin := geom.FromPoint(path[seq[0]])

	for i := 1; i < m-1; i++ {
		s := geom.FromPoint(path[seq[i]]).Sub(origin)
		q := forms[i].add(forms[i-1])

		w, ok := solveQuadratic2x2(&q, s)
		_ = ok
		del := geom.Vec2{X: math.Abs(w.X - s.X), Y: math.Abs(w.Y - s.Y)}
		if del.X <= 0.5 && del.Y <= 0.5 {
			vertices[i] = origin.Add(w)
			continue
		}

		vertices[i] = origin.Add(boxConstrainedMinimum(q, s))
	}

	return vertices
}

// solveQuadratic2x2 solves the 2x2 linear system given by the
// top-left block and third column of q for the unconstrained minimum
// of the quadratic form, perturbing q by a rank-one term along its
// dominant diagonal direction whenever the system is singular.
func solveQuadratic2x2(q *mat3, s geom.Vec2) (geom.Vec2, bool) {
	for {
		det := q[0][0]*q[1][1] - q[0][1]*q[1][0]
		if math.Abs(det) > eps {
			w := geom.Vec2{
				X: (-q[0][2]*q[1][1] + q[1][2]*q[0][1]) / det,
				Y: (q[0][2]*q[1][0] - q[1][2]*q[0][0]) / det,
			}
			return w, true
		}

		var v [3]float64
		switch {
		case q[0][0] > q[1][1]:
			v[0], v[1] = -q[0][1], q[0][0]
		case math.Abs(q[1][1]) > eps:
			v[0], v[1] = -q[1][1], q[1][0]
		default:
			v[0], v[1] = 1, 0
		}
		d := v[0]*v[0] + v[1]*v[1]
		v[2] = -v[1]*s.Y - v[0]*s.X
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				q[r][c] += v[r] * v[c] / d
			}
		}
	}
}

// boxConstrainedMinimum evaluates q at the stationary points of each
// box edge (when the quadform is curved along that axis) and at the
// four corners of the unit box centred on s, returning the argmin —
// the fallback when the unconstrained solution falls outside the box.
func boxConstrainedMinimum(q mat3, s geom.Vec2) geom.Vec2 {
	minVal := q.apply(s)
	minVec := s

	if math.Abs(q[0][0]) > eps {
		for z := 0; z < 2; z++ {
			w := geom.Vec2{Y: s.Y - 0.5 + float64(z)}
			w.X = -(q[0][1]*w.Y + q[0][2]) / q[0][0]
			if math.Abs(w.X-s.X) <= 0.5 {
				if c := q.apply(w); c < minVal {
					minVal, minVec = c, w
				}
			}
		}
	}

	if math.Abs(q[1][1]) > eps {
		for z := 0; z < 2; z++ {
			w := geom.Vec2{X: s.X - 0.5 + float64(z)}
			w.Y = -(q[1][0]*w.X + q[1][2]) / q[1][1]
			if math.Abs(w.Y-s.Y) <= 0.5 {
				if c := q.apply(w); c < minVal {
					minVal, minVec = c, w
				}
			}
		}
	}

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			w := geom.Vec2{X: s.X - 0.5 + float64(i), Y: s.Y - 0.5 + float64(j)}
			if c := q.apply(w); c < minVal {
				minVal, minVec = c, w
			}
		}
	}

	return minVec
}
