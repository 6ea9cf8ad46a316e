package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/vectrace/internal/imageio"
	"github.com/cwbudde/vectrace/internal/store"
	"github.com/cwbudde/vectrace/internal/tracer"
	"github.com/cwbudde/vectrace/internal/tracer/pipeline"
)

// stageOrder lists the pipeline stages in execution order, used to
// replay progress events after a synchronous Curves() call completes.
var stageOrder = []string{"blur", "gradient", "thinning", "threshold", "hysteresis", "tracing", "plotting"}

// runJob executes a trace job in the background. If checkpointStore is
// not nil, job bookkeeping (not mid-stage state, see store.Checkpoint's
// doc comment) is persisted once the pipeline completes.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	}); err != nil {
		return err
	}

	slog.Info("Starting trace job", "job_id", jobID, "source", job.Config.SourcePath)

	// Check for cancellation before starting expensive I/O.
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	src, err := imageio.Load(job.Config.SourcePath, 2)
	if err != nil {
		err = fmt.Errorf("failed to load source image: %w", err)
		markJobFailed(jm, jobID, err)
		return err
	}

	slog.Info("Loaded source image", "job_id", jobID, "width", src.Width(), "height", src.Height())

	var traceWriter *store.TraceWriter
	if checkpointStore != nil {
		if tw, err := store.NewTraceWriter("./data", jobID, false); err != nil {
			slog.Warn("Failed to create trace writer", "job_id", jobID, "error", err)
		} else {
			traceWriter = tw
			defer func() {
				if err := traceWriter.Close(); err != nil {
					slog.Warn("Failed to close trace writer", "job_id", jobID, "error", err)
				}
			}()
		}
	}

	tr := tracer.New()
	tr.SetSourceImage(src)
	if err := tr.SetConfig(pipelineConfigFromJob(job.Config)); err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	start := time.Now()
	curves, err := tr.Curves()
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}
	elapsed := time.Since(start)

	recordStageProgress(jm, jobID, tr.Stats(), len(curves), traceWriter)

	// Note: the pipeline runs synchronously and completes in
	// milliseconds to low seconds, so there is no meaningful mid-run
	// cancellation point beyond the one checked above.
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	endTime := time.Now()
	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Stage = "plotting"
		j.CurveCount = len(curves)
		j.Curves = curves
		j.EndTime = &endTime
	}); err != nil {
		return err
	}

	if checkpointStore != nil {
		checkpoint := store.NewCheckpoint(jobID, "plotting", len(curves), job.Config)
		if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
			slog.Warn("Failed to save checkpoint", "job_id", jobID, "error", err)
		}
	}

	slog.Info("Trace job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"curves", len(curves),
	)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:      jobID,
		State:      StateCompleted,
		Stage:      "plotting",
		CurveCount: len(curves),
		Timestamp:  time.Now(),
	})

	return nil
}

// pipelineConfigFromJob narrows a job's persisted config down to the
// pipeline fields the tracer actually consumes.
func pipelineConfigFromJob(cfg JobConfig) pipeline.Config {
	return pipeline.Config{
		BlurH:                cfg.BlurH,
		BlurOuterIterations:  cfg.BlurOuterIterations,
		BlurInnerIterations:  cfg.BlurInnerIterations,
		UseTwoLevelThreshold: cfg.UseTwoLevelThreshold,
		SalvagePercentile:    cfg.SalvagePercentile,
		PlotScale:            cfg.PlotScale,
		Seed:                 cfg.Seed,
	}
}

// recordStageProgress broadcasts one progress event per stage that
// actually recomputed (Stats() counters are nonzero on a fresh job's
// first run), and appends the same sequence to the trace log if
// enabled. The plotting entry carries curveCount.
func recordStageProgress(jm *JobManager, jobID string, stats pipeline.Stats, curveCount int, tw *store.TraceWriter) {
	counts := map[string]int{
		"blur":       stats.Blur,
		"gradient":   stats.Gradient,
		"thinning":   stats.Thinning,
		"threshold":  stats.Threshold,
		"hysteresis": stats.Hysteresis,
		"tracing":    stats.Tracing,
		"plotting":   stats.Plotting,
	}

	for _, stage := range stageOrder {
		if counts[stage] == 0 {
			continue
		}

		now := time.Now()
		jm.UpdateJob(jobID, func(j *Job) { j.Stage = stage })
		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:     jobID,
			State:     StateRunning,
			Stage:     stage,
			Timestamp: now,
		})

		if tw != nil {
			entry := store.TraceEntry{Stage: stage, Timestamp: now}
			if stage == "plotting" {
				entry.CurveCount = curveCount
			}
			if err := tw.Write(entry); err != nil {
				slog.Warn("Failed to write trace entry", "job_id", jobID, "stage", stage, "error", err)
			}
		}
	}

	if tw != nil {
		if err := tw.Flush(); err != nil {
			slog.Warn("Failed to flush trace writer", "job_id", jobID, "error", err)
		}
	}
}

// markJobFailed marks a job as failed with an error message.
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Trace job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled.
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Trace job cancelled", "job_id", jobID)
}
