// Package bezier turns an optimal-polygon vertex sequence into cubic
// Bézier curves (spec component M), one curve per consecutive vertex
// triple, using a parallelogram-area heuristic to decide how closely
// the curve should hug the middle vertex versus degrade to two
// straight segments.
package bezier

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/geom"
)

const eps = 1e-8

// alphaMin is the smallest clamp value a curved (non-degenerate)
// triple's alpha is allowed to take: 4(sqrt(2)-1)/3, the Potrace
// constant that keeps a quarter-circle-like corner from overshooting.
var alphaMin = 4 * (math.Sqrt2 - 1) / 3

// Curve is a cubic Bézier segment in P0,P1,P2,P3 control-point form.
type Curve struct {
	P0, P1, P2, P3 geom.Vec2
}

// Scale multiplies every control point by k, used to normalise curve
// coordinates into the unit square by the source image's width.
func (c Curve) Scale(k float64) Curve {
	return Curve{c.P0.Scale(k), c.P1.Scale(k), c.P2.Scale(k), c.P3.Scale(k)}
}

func straightLine(p1, p2 geom.Vec2) Curve {
	mid := p1.Add(p2).Scale(0.5)
	return Curve{P0: p1, P1: mid, P2: mid, P3: p2}
}

// denom measures how far p2 deviates from the axis-aligned line
// through p0 along the perpendicular of the dominant step direction;
// it is zero exactly when p0 and p2 coincide.
func denom(p0, p2 geom.Vec2) float64 {
	r := geom.Vec2{X: -sign(p2.Y - p0.Y), Y: sign(p2.X - p0.X)}
	return r.Y*(p2.X-p0.X) - r.X*(p2.Y-p0.Y)
}

func areaParallelogram(p0, p1, p2 geom.Vec2) float64 {
	u1 := p1.Sub(p0)
	u2 := p2.Sub(p0)
	return u1.X*u2.Y - u2.X*u1.Y
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Fit converts an ordered vertex sequence into cubic Béziers, one
// curve per consecutive vertex triple. A two-vertex sequence degrades
// to a single straight-line curve; anything shorter produces nothing.
func Fit(vertices []geom.Vec2) []Curve {
	m := len(vertices)
	if m < 2 {
		return nil
	}
	if m == 2 {
		return []Curve{straightLine(vertices[0], vertices[1])}
	}

	var curves []Curve
	for i := 0; i <= m-3; i++ {
		j, k := i+1, i+2
		p0 := vertices[i].Add(vertices[j]).Scale(0.5)
		p3 := vertices[k].Add(vertices[j]).Scale(0.5)
		if i == 0 {
			p0 = vertices[0]
		}
		if i == m-3 {
			p3 = vertices[m-1]
		}

		alpha := 4.0 / 3.0
		if den := denom(vertices[i], vertices[k]); den > eps {
			dd := math.Abs(areaParallelogram(vertices[i], vertices[j], vertices[k]) / den)
			if dd > 1 {
				alpha = 1 - 1/dd
			} else {
				alpha = 0
			}
			alpha /= 0.75
		}

		if alpha >= 1 {
			curves = append(curves, straightLine(p0, vertices[j]))
			curves = append(curves, straightLine(vertices[j], p3))
			continue
		}

		alpha = clamp(alpha, alphaMin, 1)
		t := 0.5 + alpha*0.5
		p1 := vertices[i].Add(vertices[j].Sub(vertices[i]).Scale(t))
		p2 := vertices[k].Add(vertices[j].Sub(vertices[k]).Scale(t))
		curves = append(curves, Curve{P0: p0, P1: p1, P2: p2, P3: p3})
	}
	return curves
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
