// Package geom holds the small point types shared across the path
// finder, polygon optimiser and Bézier emitter, so each stage package
// doesn't redeclare its own.
package geom

// Point is an integer pixel coordinate.
type Point struct{ X, Y int }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*k.
func (p Point) Scale(k int) Point { return Point{p.X * k, p.Y * k} }

// Chebyshev returns the L-infinity distance between p and q.
func (p Point) Chebyshev(q Point) int {
	return maxInt(absInt(p.X-q.X), absInt(p.Y-q.Y))
}

// Cross returns the 2-D cross product p × q.
func (p Point) Cross(q Point) int { return p.X*q.Y - p.Y*q.X }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Vec2 is a floating-point 2-D vector, used from the vertex solver
// onward once coordinates stop being purely integral.
type Vec2 struct{ X, Y float64 }

func (v Vec2) Add(u Vec2) Vec2     { return Vec2{v.X + u.X, v.Y + u.Y} }
func (v Vec2) Sub(u Vec2) Vec2     { return Vec2{v.X - u.X, v.Y - u.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Dot(u Vec2) float64  { return v.X*u.X + v.Y*u.Y }

// FromPoint converts an integer Point to a Vec2.
func FromPoint(p Point) Vec2 { return Vec2{float64(p.X), float64(p.Y)} }
