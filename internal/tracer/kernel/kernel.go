// Package kernel implements the integer separable-or-dense convolution
// kernel evaluator (spec component B), shared by the blur and gradient
// stages.
package kernel

import (
	"fmt"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

// Kernel is an N×N (N odd) table of integer weights plus a normalising
// integer divisor. Evaluating a kernel at (x,y) computes
//
//	Σ w[i+N/2, j+N/2] · image(x-i, y-j) / divisor
//
// which requires the source grid's padding to be at least N/2.
type Kernel struct {
	Size    int // N, odd
	Weights [][]int
	Divisor int
}

// New constructs a kernel from a row-major N×N weight table. It panics
// if N is not odd or the table is not square.
func New(weights [][]int, divisor int) Kernel {
	n := len(weights)
	if n%2 == 0 {
		panic(fmt.Sprintf("kernel: size %d must be odd", n))
	}
	for _, row := range weights {
		if len(row) != n {
			panic("kernel: weight table must be square")
		}
	}
	if divisor == 0 {
		panic("kernel: divisor must be non-zero")
	}
	return Kernel{Size: n, Weights: weights, Divisor: divisor}
}

// Radius returns N/2, the minimum padding an input grid must carry for
// Evaluate to stay within bounds at every interior pixel.
func (k Kernel) Radius() int { return k.Size / 2 }

// Evaluate convolves the kernel against grid at (x, y) using alg to
// combine cells of type T. Callers must ensure grid.Padding() >=
// k.Radius().
func Evaluate[T any](k Kernel, grid *imagegrid.Grid[T], x, y int, alg imagegrid.Algebra[T]) T {
	r := k.Radius()
	acc := alg.Zero()
	for j := -r; j <= r; j++ {
		row := k.Weights[j+r]
		for i := -r; i <= r; i++ {
			w := row[i+r]
			if w == 0 {
				continue
			}
			v := grid.At(x-i, y-j)
			acc = alg.Add(acc, alg.Scale(v, float64(w)))
		}
	}
	return alg.Scale(acc, 1/float64(k.Divisor))
}

// EvaluateRaw is Evaluate specialised to float64 grids (the common case
// for derivative kernels), avoiding the Algebra argument at call sites.
func EvaluateRaw(k Kernel, grid *imagegrid.Grid[float64], x, y int) float64 {
	return Evaluate[float64](k, grid, x, y, imagegrid.Float64Algebra{})
}
