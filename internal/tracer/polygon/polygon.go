package polygon

import "github.com/cwbudde/vectrace/internal/tracer/geom"

// Optimize fits an optimal polygon through path, the extracted pixel
// path from the pathfind stage: it computes the admissible-chord
// pivot table, selects the minimum (segment count, penalty) chord
// sequence, and solves each interior vertex against the adjoining
// segments' best-fit lines. The result is the ordered vertex sequence
// consumed by the Bézier-curve emitter (spec component M); its length
// is always >= 2 for any input path of length >= 2.
func Optimize(path []geom.Point) []geom.Vec2 {
	pivot := computePivot(path)
	seq := optimalSequence(path, pivot)
	return solveVertices(path, seq)
}
