// Package tracer is the engine façade (spec component Q): it owns one
// pipeline.Pipeline, validates configuration, and exposes the
// pipeline API a host binding or the HTTP server drives — set the
// source image and config, then ask for the resulting curves.
package tracer

import (
	"fmt"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/cwbudde/vectrace/internal/raster"
	"github.com/cwbudde/vectrace/internal/tracer/bezier"
	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
	"github.com/cwbudde/vectrace/internal/tracer/pipeline"
	"github.com/cwbudde/vectrace/internal/tracer/view"
)

// ConfigError reports an out-of-range pipeline configuration field,
// analogous to the teacher's store.ValidationError.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

// ErrNoSourceImage is returned by Curves when no image has been set.
var ErrNoSourceImage = fmt.Errorf("tracer: no source image set")

// ColoredCurve pairs a fitted Bézier curve with the coverage-weighted
// colour sampled from the source image along its span.
type ColoredCurve struct {
	Curve  bezier.Curve
	Colour colorful.Color
}

// Tracer is the stateful engine instance: one source image, one
// config, one pipeline cache. It is not safe for concurrent use by
// multiple goroutines (see spec.md §5); the HTTP server gives each job
// its own Tracer.
type Tracer struct {
	pipeline *pipeline.Pipeline
	source   *imagegrid.Grid[imagegrid.RGB]
}

// New builds a Tracer with the pipeline's default configuration.
func New() *Tracer {
	return &Tracer{pipeline: pipeline.New()}
}

// SetSourceImage installs src as the tracer's source, marking the
// entire pipeline chain dirty.
func (t *Tracer) SetSourceImage(src *imagegrid.Grid[imagegrid.RGB]) {
	t.source = src
	t.pipeline.SetSource(src)
}

// SetConfig validates cfg and installs it, marking only the stages
// whose consumed fields changed.
func (t *Tracer) SetConfig(cfg pipeline.Config) error {
	if cfg.BlurH <= 0 {
		return &ConfigError{Field: "BlurH", Reason: "must be positive"}
	}
	if cfg.BlurOuterIterations < 1 || cfg.BlurInnerIterations < 1 {
		return &ConfigError{Field: "BlurIterations", Reason: "must be >= 1"}
	}
	if cfg.SalvagePercentile < 0 || cfg.SalvagePercentile > 1 {
		return &ConfigError{Field: "SalvagePercentile", Reason: "must be within [0, 1]"}
	}
	if cfg.PlotScale <= 0 {
		return &ConfigError{Field: "PlotScale", Reason: "must be positive"}
	}
	t.pipeline.SetConfig(cfg)
	return nil
}

// Stats reports per-stage recompute counts, exposed for diagnostics
// and the dirty-tracking property tests.
func (t *Tracer) Stats() pipeline.Stats { return t.pipeline.Stats() }

// Curves runs the pipeline end to end and returns each resulting
// curve paired with its sampled source colour.
func (t *Tracer) Curves() ([]ColoredCurve, error) {
	if t.source == nil {
		return nil, ErrNoSourceImage
	}
	curves := t.pipeline.Curves()
	width := float64(t.source.Width())

	out := make([]ColoredCurve, len(curves))
	for i, c := range curves {
		// Curves are stored normalised to unit image width; undo that
		// to sample colour in the source image's own pixel space.
		pixelSpace := c.Scale(width)
		out[i] = ColoredCurve{Curve: c, Colour: raster.SampleColour(t.source, pixelSpace)}
	}
	return out, nil
}

// BlurView renders the current blur-stage output for preview.
func (t *Tracer) BlurView() image.Image {
	if img := t.pipeline.BlurImage(); img != nil {
		return view.RGB(img)
	}
	return nil
}

// GradientView renders the current gradient-magnitude stage output.
func (t *Tracer) GradientView() image.Image {
	if img := t.pipeline.GradientImage(); img != nil {
		return view.GradientMagnitude(img)
	}
	return nil
}

// EdgeView renders the current hysteresis-stage binary edge map.
func (t *Tracer) EdgeView() image.Image {
	if img := t.pipeline.HysteresisImage(); img != nil {
		return view.Binary(img)
	}
	return nil
}
