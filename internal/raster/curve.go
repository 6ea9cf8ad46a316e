package raster

import (
	"math"

	"github.com/cwbudde/vectrace/internal/tracer/bezier"
	"github.com/cwbudde/vectrace/internal/tracer/geom"
)

// flatnessTolerance is the delta term in the adaptive step formula: the
// target squared deviation, in pixels, between the flattened polyline
// and the true curve.
const flatnessTolerance = 0.1

// Subdivide samples a cubic Bézier at an adaptive step count: flatter
// curves (control points closer to the chord) take larger steps, up
// to a single segment, while sharply curved ones take many.
func Subdivide(c bezier.Curve) []geom.Vec2 {
	d1 := c.P0.Add(c.P1.Scale(-2)).Add(c.P2)
	d2 := c.P1.Add(c.P2.Scale(-2)).Add(c.P3)
	m := math.Max(d1.Dot(d1), d2.Dot(d2))

	step := 1.0
	if m > 1e-12 {
		step = math.Sqrt(8 * flatnessTolerance / (m * 6))
		if step > 1 {
			step = 1
		}
	}

	var points []geom.Vec2
	for t := 0.0; t < 1; t += step {
		points = append(points, evaluate(c, t))
	}
	points = append(points, c.P3)
	return points
}

func evaluate(c bezier.Curve, t float64) geom.Vec2 {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	cc := 3 * u * t * t
	d := t * t * t
	return geom.Vec2{
		X: a*c.P0.X + b*c.P1.X + cc*c.P2.X + d*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + cc*c.P2.Y + d*c.P3.Y,
	}
}

// DrawCubic flattens c and draws each resulting chord with Line.
func DrawCubic(c bezier.Curve, plot Plot) {
	points := Subdivide(c)
	for i := 1; i < len(points); i++ {
		Line(points[i-1], points[i], plot)
	}
}
