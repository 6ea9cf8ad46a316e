package pipeline

import (
	"testing"

	"github.com/cwbudde/vectrace/internal/tracer/imagegrid"
)

func squareImage(n int) *imagegrid.Grid[imagegrid.RGB] {
	img := imagegrid.New[imagegrid.RGB](n, n, 2)
	white := imagegrid.RGB{R: 1, G: 1, B: 1}
	black := imagegrid.RGB{R: 0, G: 0, B: 0}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			img.Set(x, y, white)
		}
	}
	for x := n / 4; x < 3*n/4; x++ {
		for y := n / 4; y < 3*n/4; y++ {
			img.Set(x, y, black)
		}
	}
	return img
}

func TestCurvesRunsWithoutPanicking(t *testing.T) {
	p := New()
	p.SetSource(squareImage(24))
	p.SetConfig(DefaultConfig())
	_ = p.Curves()

	stats := p.Stats()
	if stats.Blur == 0 || stats.Gradient == 0 || stats.Plotting == 0 {
		t.Fatalf("expected every stage to have run at least once: %+v", stats)
	}
}

// Changing only PlotScale must not re-run any stage upstream of
// Plotting: that is the entire point of the dirty-tracking cache.
func TestPlotScaleChangeOnlyRerunsPlotting(t *testing.T) {
	p := New()
	p.SetSource(squareImage(24))
	p.SetConfig(DefaultConfig())
	_ = p.Curves()
	before := p.Stats()

	cfg := DefaultConfig()
	cfg.PlotScale = 2.0
	p.SetConfig(cfg)
	_ = p.Curves()
	after := p.Stats()

	if after.Blur != before.Blur ||
		after.Gradient != before.Gradient ||
		after.Thinning != before.Thinning ||
		after.Threshold != before.Threshold ||
		after.Hysteresis != before.Hysteresis ||
		after.Tracing != before.Tracing {
		t.Fatalf("expected only Plotting to re-run, before=%+v after=%+v", before, after)
	}
	if after.Plotting != before.Plotting+1 {
		t.Fatalf("expected Plotting to re-run exactly once more, before=%d after=%d", before.Plotting, after.Plotting)
	}
}

// Changing BlurH must invalidate the whole downstream chain.
func TestBlurParamChangeRerunsEverything(t *testing.T) {
	p := New()
	p.SetSource(squareImage(24))
	p.SetConfig(DefaultConfig())
	_ = p.Curves()
	before := p.Stats()

	cfg := DefaultConfig()
	cfg.BlurH = 0.5
	p.SetConfig(cfg)
	_ = p.Curves()
	after := p.Stats()

	if after.Blur != before.Blur+1 || after.Plotting != before.Plotting+1 {
		t.Fatalf("expected blur and every downstream stage to re-run, before=%+v after=%+v", before, after)
	}
}

func TestRepeatedCurvesCallWithoutChangeDoesNotRecompute(t *testing.T) {
	p := New()
	p.SetSource(squareImage(24))
	p.SetConfig(DefaultConfig())
	_ = p.Curves()
	before := p.Stats()
	_ = p.Curves()
	after := p.Stats()
	if after != before {
		t.Fatalf("expected no stage to recompute without a source or config change: before=%+v after=%+v", before, after)
	}
}
