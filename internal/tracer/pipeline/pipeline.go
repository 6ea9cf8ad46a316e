// Package pipeline chains the tracer's stages (Blur, Gradient,
// Thinning, Threshold, Hysteresis, Tracing, Plotting) behind a
// dirty-tracking cache (spec component O): each stage recomputes only
// when the source image changed or one of the config fields it
// actually consumes changed since its last run.
package pipeline

import (
	"github.com/cwbudde/vectrace/internal/tracer/bezier"
	"github.com/cwbudde/vectrace/internal/tracer/blur"
	"github.com/cwbudde/vectrace/internal/tracer/gradient"
	"github.com/cwbudde/vectrace/internal/tracer/hysteresis"
	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
	"github.com/cwbudde/vectrace/internal/tracer/pathfind"
	"github.com/cwbudde/vectrace/internal/tracer/polygon"
	"github.com/cwbudde/vectrace/internal/tracer/repair"
	"github.com/cwbudde/vectrace/internal/tracer/thinning"
	"github.com/cwbudde/vectrace/internal/tracer/threshold"
)

// Config collects every stage's tunable parameters. JobID and Seed are
// ambient fields carried through for logging and reproducibility; no
// stage consumes them, so changing them alone marks nothing dirty.
type Config struct {
	BlurH               float64
	BlurOuterIterations int
	BlurInnerIterations int

	UseTwoLevelThreshold bool
	SalvagePercentile    float64

	PlotScale float64

	JobID string
	Seed  int64
}

// DefaultConfig returns the parameter set the CLI falls back to when a
// flag is left unset.
func DefaultConfig() Config {
	return Config{
		BlurH:               0.1,
		BlurOuterIterations: 3,
		BlurInnerIterations: 3,
		SalvagePercentile:   0.1,
		PlotScale:           1.0,
	}
}

// Stats counts recomputations per stage, letting callers (and tests)
// confirm that an unrelated config change left upstream stages alone.
type Stats struct {
	Blur, Gradient, Thinning, Threshold, Hysteresis, Tracing, Plotting int
}

type blurSig struct {
	h                    float64
	outer, inner         int
}

type thresholdSig struct {
	useTwoLevel bool
}

type hysteresisSig struct {
	salvage float64
}

// Pipeline holds the source image, the current config, and each
// stage's cached output plus the signature it was computed from.
type Pipeline struct {
	source    *imagegrid.Grid[imagegrid.RGB]
	hasSource bool
	cfg       Config
	hasConfig bool
	stats     Stats

	blurOut       *imagegrid.Grid[imagegrid.RGB]
	blurSignature blurSig
	blurDirty     bool

	gradientOut   *imagegrid.Grid[imagegrid.GradientCell]
	gradientDirty bool

	thinningOut   *imagegrid.Grid[imagegrid.GradientCell]
	thinningDirty bool

	thresholdLow, thresholdHigh float64
	thresholdSignature          thresholdSig
	thresholdDirty              bool

	hysteresisOut       *imagegrid.BinaryImage
	hysteresisSignature hysteresisSig
	hysteresisDirty     bool

	tracingOut   []pathfind.Path
	tracingDirty bool

	plottingOut   []bezier.Curve
	plottingSig   float64
	plottingDirty bool
}

// New builds an empty pipeline; call SetSource before Curves.
func New() *Pipeline {
	return &Pipeline{cfg: DefaultConfig(), hasConfig: true}
}

// SetSource installs a new source image, marking the entire chain
// dirty regardless of config.
func (p *Pipeline) SetSource(src *imagegrid.Grid[imagegrid.RGB]) {
	p.source = src
	p.hasSource = true
	p.blurDirty = true
}

// SetConfig installs cfg, marking only the stages whose consumed
// fields actually changed (or all of them, on the very first call).
func (p *Pipeline) SetConfig(cfg Config) {
	if !p.hasConfig {
		p.cfg = cfg
		p.hasConfig = true
		p.blurDirty = true
		return
	}
	newBlurSig := blurSig{cfg.BlurH, cfg.BlurOuterIterations, cfg.BlurInnerIterations}
	if newBlurSig != p.blurSignature {
		p.blurDirty = true
	}
	newThresholdSig := thresholdSig{cfg.UseTwoLevelThreshold}
	if newThresholdSig != p.thresholdSignature {
		p.thresholdDirty = true
	}
	newHysteresisSig := hysteresisSig{cfg.SalvagePercentile}
	if newHysteresisSig != p.hysteresisSignature {
		p.hysteresisDirty = true
	}
	if cfg.PlotScale != p.plottingSig {
		p.plottingDirty = true
	}
	p.cfg = cfg
}

// Stats reports how many times each stage has recomputed so far.
func (p *Pipeline) Stats() Stats { return p.stats }

// BlurImage returns the current cached blur-stage output, or nil if
// Curves has never run.
func (p *Pipeline) BlurImage() *imagegrid.Grid[imagegrid.RGB] { return p.blurOut }

// GradientImage returns the current cached gradient-stage output.
func (p *Pipeline) GradientImage() *imagegrid.Grid[imagegrid.GradientCell] { return p.gradientOut }

// ThinningImage returns the current cached non-max-suppression output.
func (p *Pipeline) ThinningImage() *imagegrid.Grid[imagegrid.GradientCell] { return p.thinningOut }

// Thresholds returns the current low/high hysteresis cut points.
func (p *Pipeline) Thresholds() (low, high float64) { return p.thresholdLow, p.thresholdHigh }

// HysteresisImage returns the current cached binary edge map.
func (p *Pipeline) HysteresisImage() *imagegrid.BinaryImage { return p.hysteresisOut }

// Paths returns the current cached extracted pixel paths.
func (p *Pipeline) Paths() []pathfind.Path { return p.tracingOut }

// Curves runs the pipeline (recomputing only dirty stages) and
// returns the resulting Bézier curves, scaled to unit image width per
// spec component K.
func (p *Pipeline) Curves() []bezier.Curve {
	p.runBlur()
	p.runGradient()
	p.runThinning()
	p.runThreshold()
	p.runHysteresis()
	p.runTracing()
	p.runPlotting()
	return p.plottingOut
}

func (p *Pipeline) runBlur() {
	if !p.blurDirty {
		return
	}
	p.blurOut = blur.Adaptive(p.source, p.cfg.BlurH, p.cfg.BlurOuterIterations, p.cfg.BlurInnerIterations)
	p.blurSignature = blurSig{p.cfg.BlurH, p.cfg.BlurOuterIterations, p.cfg.BlurInnerIterations}
	p.stats.Blur++
	p.blurDirty = false
	p.gradientDirty = true
}

func (p *Pipeline) runGradient() {
	if !p.gradientDirty {
		return
	}
	p.gradientOut = gradient.Compute(p.blurOut)
	p.stats.Gradient++
	p.gradientDirty = false
	p.thinningDirty = true
}

func (p *Pipeline) runThinning() {
	if !p.thinningDirty {
		return
	}
	p.thinningOut = thinning.Suppress(p.gradientOut)
	p.stats.Thinning++
	p.thinningDirty = false
	p.thresholdDirty = true
}

func (p *Pipeline) runThreshold() {
	if !p.thresholdDirty {
		return
	}
	hist := threshold.Histogram(p.thinningOut)
	if p.cfg.UseTwoLevelThreshold {
		p.thresholdLow, p.thresholdHigh = threshold.TwoLevel(hist)
	} else {
		p.thresholdLow, p.thresholdHigh = threshold.Otsu(hist)
	}
	p.thresholdSignature = thresholdSig{p.cfg.UseTwoLevelThreshold}
	p.stats.Threshold++
	p.thresholdDirty = false
	p.hysteresisDirty = true
}

func (p *Pipeline) runHysteresis() {
	if !p.hysteresisDirty {
		return
	}
	mag := imagegrid.New[float64](p.thinningOut.Width(), p.thinningOut.Height(), p.thinningOut.Padding())
	for y := 0; y < p.thinningOut.Height(); y++ {
		for x := 0; x < p.thinningOut.Width(); x++ {
			mag.Set(x, y, p.thinningOut.At(x, y).Magnitude)
		}
	}
	p.hysteresisOut = hysteresis.Run(mag, p.thresholdLow, p.thresholdHigh, p.cfg.SalvagePercentile)
	p.hysteresisSignature = hysteresisSig{p.cfg.SalvagePercentile}
	p.stats.Hysteresis++
	p.hysteresisDirty = false
	p.tracingDirty = true
}

func (p *Pipeline) runTracing() {
	if !p.tracingDirty {
		return
	}
	repaired := repair.Fix(p.hysteresisOut)
	finder := pathfind.New(repaired)
	p.tracingOut = finder.FindPaths()
	p.stats.Tracing++
	p.tracingDirty = false
	p.plottingDirty = true
}

func (p *Pipeline) runPlotting() {
	if !p.plottingDirty {
		return
	}
	var curves []bezier.Curve
	width := 1
	if p.source != nil {
		width = p.source.Width()
	}
	scale := 1.0 / float64(width)
	for _, path := range p.tracingOut {
		vertices := polygon.Optimize(path)
		for _, c := range bezier.Fit(vertices) {
			curves = append(curves, c.Scale(scale))
		}
	}
	p.plottingOut = curves
	p.plottingSig = p.cfg.PlotScale
	p.stats.Plotting++
	p.plottingDirty = false
}
