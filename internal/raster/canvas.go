package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/cwbudde/vectrace/internal/tracer/bezier"
)

// Canvas accumulates antialiased curve strokes into an RGBA preview
// image, letting multiple overlapping curves blend coverage correctly
// via straight alpha compositing.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a canvas of the given size filled with bg.
func NewCanvas(width, height int, bg color.Color) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	return &Canvas{img: img}
}

// StrokeCurve draws c onto the canvas in the given colour.
func (cv *Canvas) StrokeCurve(c bezier.Curve, col color.Color) {
	cr, cg, cb, ca := col.RGBA()
	DrawCubic(c, func(x, y int, coverage float64) {
		if coverage <= 0 {
			return
		}
		if !(image.Point{X: x, Y: y}).In(cv.img.Bounds()) {
			return
		}
		if coverage > 1 {
			coverage = 1
		}
		cv.blend(x, y, coverage, cr, cg, cb, ca)
	})
}

func (cv *Canvas) blend(x, y int, coverage float64, cr, cg, cb, ca uint32) {
	dst := cv.img.RGBAAt(x, y)
	a := coverage * (float64(ca) / 0xffff)
	blend8 := func(bg uint8, fg uint32) uint8 {
		return uint8(float64(bg)*(1-a) + float64(fg>>8)*a)
	}
	cv.img.SetRGBA(x, y, color.RGBA{
		R: blend8(dst.R, cr),
		G: blend8(dst.G, cg),
		B: blend8(dst.B, cb),
		A: 0xff,
	})
}

// Image returns the accumulated RGBA buffer.
func (cv *Canvas) Image() *image.RGBA {
	return cv.img
}

// Scaled resamples the canvas to width x height using a high-quality
// Catmull-Rom kernel. The CLI does not call it: it sizes the canvas by
// the plot scale before drawing.
func (cv *Canvas) Scaled(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), cv.img, cv.img.Bounds(), xdraw.Over, nil)
	return dst
}
