package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/cwbudde/vectrace/internal/imageio"
	"github.com/cwbudde/vectrace/internal/raster"
	"github.com/cwbudde/vectrace/internal/tracer"
	"github.com/cwbudde/vectrace/internal/tracer/pipeline"
	"github.com/spf13/cobra"
)

var (
	traceOutPath string
	traceScale   float64
	traceColour  bool
	traceSeed    int64
	traceCpuProfile string
	traceMemProfile string
)

var traceCmd = &cobra.Command{
	Use:   "trace <input-path>",
	Short: "Trace a raster image into Bézier curves and render the result",
	Long: `Runs the blur/gradient/threshold/hysteresis/tracing/plotting pipeline
on the given image and writes a rendered PNG of the resulting curves.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringVarP(&traceOutPath, "out", "o", "output.png", "Output image path")
	traceCmd.Flags().Float64VarP(&traceScale, "scale", "s", 1.0, "Output rendering scale relative to source dimensions")
	traceCmd.Flags().BoolVarP(&traceColour, "colour", "c", false, "Render with sampled source colour; without it, greyscale on a solid background")
	traceCmd.Flags().Int64Var(&traceSeed, "seed", 0, "Random seed (reserved for future stochastic stages)")

	traceCmd.Flags().StringVar(&traceCpuProfile, "cpuprofile", "", "Write CPU profile to file")
	traceCmd.Flags().StringVar(&traceMemProfile, "memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if traceCpuProfile != "" {
		f, err := os.Create(traceCpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		slog.Info("CPU profiling enabled", "output", traceCpuProfile)
	}

	slog.Info("Starting trace", "input", inputPath, "scale", traceScale, "colour", traceColour)

	src, err := imageio.Load(inputPath, 2)
	if err != nil {
		return fmt.Errorf("failed to load input image: %w", err)
	}

	slog.Info("Loaded source image", "width", src.Width(), "height", src.Height())

	cfg := pipeline.DefaultConfig()
	cfg.PlotScale = traceScale
	cfg.Seed = traceSeed

	tr := tracer.New()
	tr.SetSourceImage(src)
	if err := tr.SetConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	start := time.Now()
	curves, err := tr.Curves()
	if err != nil {
		return fmt.Errorf("tracing failed: %w", err)
	}
	elapsed := time.Since(start)

	width := int(float64(src.Width()) * traceScale)
	height := int(float64(src.Height()) * traceScale)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	bg := color.White
	canvas := raster.NewCanvas(width, height, bg)

	scaleFactor := float64(width)
	for _, cc := range curves {
		stroke := cc.Curve.Scale(scaleFactor)
		col := color.Color(color.Black)
		if traceColour {
			col = cc.Colour
		}
		canvas.StrokeCurve(stroke, col)
	}

	if err := imageio.SavePNG(canvas.Image(), traceOutPath); err != nil {
		return fmt.Errorf("failed to save output: %w", err)
	}

	slog.Info("Trace complete",
		"elapsed", elapsed,
		"curves", len(curves),
		"output", traceOutPath,
	)
	fmt.Printf("Wrote %s (%d curves, %s)\n", traceOutPath, len(curves), elapsed.Round(time.Millisecond))

	if traceMemProfile != "" {
		f, err := os.Create(traceMemProfile)
		if err != nil {
			return fmt.Errorf("failed to create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
		slog.Info("Memory profile written", "output", traceMemProfile)
	}

	return nil
}
