// Package imagegrid implements the padded 2-D grid container shared by
// every stage of the tracing pipeline (spec component A).
package imagegrid

import "fmt"

// Grid is a rectangular W×H container with a zero-initialised border of
// Padding cells on every side, so kernel reads near the image edge are
// total without branching. Cells are addressed with (x, y) in
// [-Padding, W+Padding) × [-Padding, H+Padding).
//
// Grid replaces the source's Image<T> template: Go generics give us one
// container for every element type the pipeline needs (float magnitude,
// GradientCell, RGB, byte flags) instead of a type hierarchy.
type Grid[T any] struct {
	width, height, padding int
	stride                 int
	cells                  []T
}

// New allocates a width×height grid with the given padding. All cells,
// including the border, are zero-valued for T.
func New[T any](width, height, padding int) *Grid[T] {
	if width < 0 || height < 0 || padding < 0 {
		panic(fmt.Sprintf("imagegrid: invalid dimensions %dx%d pad=%d", width, height, padding))
	}
	stride := width + 2*padding
	return &Grid[T]{
		width:   width,
		height:  height,
		padding: padding,
		stride:  stride,
		cells:   make([]T, stride*(height+2*padding)),
	}
}

// Width returns the unpadded image width.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the unpadded image height.
func (g *Grid[T]) Height() int { return g.height }

// Padding returns the border size on every side.
func (g *Grid[T]) Padding() int { return g.padding }

func (g *Grid[T]) index(x, y int) int {
	return (y+g.padding)*g.stride + (x + g.padding)
}

// inBounds reports whether (x, y) falls within the padded extent.
func (g *Grid[T]) inBounds(x, y int) bool {
	return x >= -g.padding && x < g.width+g.padding &&
		y >= -g.padding && y < g.height+g.padding
}

// At reads the cell at (x, y). Reads outside the padded extent panic;
// every caller in this module is expected to stay within padding bounds
// derived from the kernel radius in use (see kernel.Kernel).
func (g *Grid[T]) At(x, y int) T {
	if !g.inBounds(x, y) {
		panic(fmt.Sprintf("imagegrid: read (%d,%d) out of bounds for %dx%d pad=%d", x, y, g.width, g.height, g.padding))
	}
	return g.cells[g.index(x, y)]
}

// Set writes the cell at (x, y).
func (g *Grid[T]) Set(x, y int, v T) {
	if !g.inBounds(x, y) {
		panic(fmt.Sprintf("imagegrid: write (%d,%d) out of bounds for %dx%d pad=%d", x, y, g.width, g.height, g.padding))
	}
	g.cells[g.index(x, y)] = v
}

// Clear resets every cell, including the border, to the zero value of T.
func (g *Grid[T]) Clear() {
	var zero T
	for i := range g.cells {
		g.cells[i] = zero
	}
}

// WithPadding returns a copy of g re-padded to at least minPadding,
// preserving interior content and re-zeroing the border. Used after a
// stage whose output must satisfy a downstream kernel's padding
// requirement (spec's "padding re-asserted to kernel-radius").
func (g *Grid[T]) WithPadding(minPadding int) *Grid[T] {
	if minPadding <= g.padding {
		return g
	}
	out := New[T](g.width, g.height, minPadding)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			out.Set(x, y, g.At(x, y))
		}
	}
	return out
}
