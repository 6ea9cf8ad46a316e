package raster

import (
	"image/color"
	"testing"

	"github.com/cwbudde/vectrace/internal/tracer/bezier"
	"github.com/cwbudde/vectrace/internal/tracer/geom"
)

func TestNewCanvasFillsBackground(t *testing.T) {
	cv := NewCanvas(10, 10, color.White)
	if r, g, b, a := cv.Image().RGBAAt(5, 5).RGBA(); r == 0 && g == 0 && b == 0 && a == 0 {
		t.Fatal("expected background fill to be visible")
	}
}

func TestStrokeCurveDarkensBackground(t *testing.T) {
	cv := NewCanvas(20, 20, color.White)
	curve := bezier.Curve{
		P0: geom.Vec2{X: 2, Y: 10},
		P1: geom.Vec2{X: 8, Y: 10},
		P2: geom.Vec2{X: 12, Y: 10},
		P3: geom.Vec2{X: 17, Y: 10},
	}
	cv.StrokeCurve(curve, color.Black)

	before := cv.Image().RGBAAt(5, 15)
	after := cv.Image().RGBAAt(10, 10)
	if after.R >= before.R {
		t.Fatalf("expected stroked pixel to be darker than untouched background: stroked=%v bg=%v", after, before)
	}
}

func TestScaledProducesRequestedDimensions(t *testing.T) {
	cv := NewCanvas(40, 40, color.White)
	scaled := cv.Scaled(20, 20)
	if b := scaled.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("expected 20x20 output, got %v", b)
	}
}
