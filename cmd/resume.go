package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/vectrace/internal/imageio"
	"github.com/cwbudde/vectrace/internal/raster"
	"github.com/cwbudde/vectrace/internal/store"
	"github.com/cwbudde/vectrace/internal/tracer"
	"github.com/cwbudde/vectrace/internal/tracer/pipeline"
	"github.com/spf13/cobra"
)

var (
	resumeServerURL string
	resumeLocalMode bool
	resumeOutputDir string
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Rerun a checkpointed job's config as a fresh trace",
	Long: `A trace pipeline is cheap to redo from scratch (milliseconds to low
seconds), so "resume" here means loading a checkpointed job's config and
resubmitting it, not continuing mid-stage computation.

Supports two modes:
  1. Server mode (default): POST the checkpointed config to the server
  2. Local mode (--local): load the checkpoint and trace locally

Examples:
  # Resume via server
  vectrace resume abc123 --server-url http://localhost:8080

  # Resume locally
  vectrace resume abc123 --local --output ./resumed`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeServerURL, "server-url", "http://localhost:8080", "Server URL for remote resume")
	resumeCmd.Flags().BoolVar(&resumeLocalMode, "local", false, "Run resume locally instead of via server")
	resumeCmd.Flags().StringVar(&resumeOutputDir, "output", "./resumed", "Output directory for local mode")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	if resumeLocalMode {
		return runResumeLocal(jobID)
	}
	return runResumeServer(jobID)
}

// runResumeServer loads the checkpointed config and submits it as a new
// trace job on the server.
func runResumeServer(jobID string) error {
	checkpointStore, err := store.NewFSStore("./data")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	checkpoint, err := checkpointStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	slog.Info("Resuming job via server", "job_id", jobID, "source", checkpoint.Config.SourcePath)

	body, err := json.Marshal(checkpoint.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/traces", resumeServerURL)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var job struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Submitted new trace job\n")
	fmt.Printf("  Job ID: %s\n", job.ID)
	fmt.Printf("  State: %s\n", job.State)
	fmt.Printf("\nUse 'vectrace status %s' to monitor progress\n", job.ID)

	return nil
}

// runResumeLocal loads a checkpoint and retraces the source image locally.
func runResumeLocal(jobID string) error {
	slog.Info("Resuming job locally", "job_id", jobID)

	checkpointStore, err := store.NewFSStore("./data")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	checkpoint, err := checkpointStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	if err := checkpoint.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	fmt.Printf("Loaded checkpoint:\n")
	fmt.Printf("  Job ID: %s\n", checkpoint.JobID)
	fmt.Printf("  Last stage: %s\n", checkpoint.Stage)
	fmt.Printf("  Curve count: %d\n", checkpoint.CurveCount)
	fmt.Printf("  Source: %s\n", checkpoint.Config.SourcePath)
	fmt.Printf("  Checkpoint time: %s\n\n", checkpoint.Timestamp.Format(time.RFC3339))

	src, err := imageio.Load(checkpoint.Config.SourcePath, 2)
	if err != nil {
		return fmt.Errorf("failed to load source image: %w", err)
	}

	cfg := pipeline.Config{
		BlurH:                checkpoint.Config.BlurH,
		BlurOuterIterations:  checkpoint.Config.BlurOuterIterations,
		BlurInnerIterations:  checkpoint.Config.BlurInnerIterations,
		UseTwoLevelThreshold: checkpoint.Config.UseTwoLevelThreshold,
		SalvagePercentile:    checkpoint.Config.SalvagePercentile,
		PlotScale:            checkpoint.Config.PlotScale,
		Seed:                 checkpoint.Config.Seed,
	}

	tr := tracer.New()
	tr.SetSourceImage(src)
	if err := tr.SetConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Printf("Retracing...\n")
	start := time.Now()
	curves, err := tr.Curves()
	if err != nil {
		return fmt.Errorf("tracing failed: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("\nTrace completed in %s\n", elapsed)
	fmt.Printf("  Curves: %d\n", len(curves))

	if err := os.MkdirAll(resumeOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	width := int(float64(src.Width()) * checkpoint.Config.PlotScale)
	height := int(float64(src.Height()) * checkpoint.Config.PlotScale)
	canvas := raster.NewCanvas(width, height, color.White)
	for _, cc := range curves {
		canvas.StrokeCurve(cc.Curve.Scale(float64(width)), color.Color(color.Black))
	}

	outPath := filepath.Join(resumeOutputDir, jobID+".png")
	if err := imageio.SavePNG(canvas.Image(), outPath); err != nil {
		return fmt.Errorf("failed to save rendered output: %w", err)
	}
	fmt.Printf("  Saved render: %s\n", outPath)

	updatedCheckpoint := store.NewCheckpoint(jobID, "plotting", len(curves), checkpoint.Config)
	if err := checkpointStore.SaveCheckpoint(jobID, updatedCheckpoint); err != nil {
		slog.Warn("Failed to update checkpoint", "error", err)
	} else {
		fmt.Printf("Checkpoint updated\n")
	}

	return nil
}
