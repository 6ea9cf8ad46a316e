package store

import "time"

// JobConfig holds the tracer configuration for a submitted trace job
// (checkpoint copy). This avoids import cycles with the server package.
type JobConfig struct {
	SourcePath           string  `json:"sourcePath"`
	BlurH                float64 `json:"blurH"`
	BlurOuterIterations  int     `json:"blurOuterIterations"`
	BlurInnerIterations  int     `json:"blurInnerIterations"`
	UseTwoLevelThreshold bool    `json:"useTwoLevelThreshold"`
	SalvagePercentile    float64 `json:"salvagePercentile"`
	PlotScale            float64 `json:"plotScale"`
	Seed                 int64   `json:"seed"`
}

// Checkpoint records a completed (or in-flight) trace job's
// bookkeeping: which stage last finished and, once available, the
// resulting curve count. Unlike the optimizer this system was adapted
// from, the pipeline itself is cheap to rerun from scratch (a single
// image traces in milliseconds to low seconds) — this checkpoint exists
// purely so a crashed server can report a job's last known status and
// config without recomputing anything, not to resume mid-stage.
type Checkpoint struct {
	// JobID is the unique identifier for this trace job.
	JobID string `json:"jobId"`

	// Stage is the name of the last pipeline stage to complete
	// ("blur", "gradient", ..., "plotting").
	Stage string `json:"stage"`

	// CurveCount is the number of Bézier curves produced once the
	// plotting stage has completed; zero until then.
	CurveCount int `json:"curveCount"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the job configuration, needed for validation
	// during status queries and resubmission.
	Config JobConfig `json:"config"`
}

// CheckpointInfo contains metadata about a checkpoint without the
// full config, used for listing jobs efficiently.
type CheckpointInfo struct {
	JobID      string    `json:"jobId"`
	Stage      string    `json:"stage"`
	CurveCount int       `json:"curveCount"`
	Timestamp  time.Time `json:"timestamp"`
	SourcePath string    `json:"sourcePath"`
}

// NewCheckpoint creates a checkpoint from job state.
func NewCheckpoint(jobID, stage string, curveCount int, config JobConfig) *Checkpoint {
	return &Checkpoint{
		JobID:      jobID,
		Stage:      stage,
		CurveCount: curveCount,
		Timestamp:  time.Now(),
		Config:     config,
	}
}

// ToInfo converts a full Checkpoint to CheckpointInfo (metadata only).
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:      c.JobID,
		Stage:      c.Stage,
		CurveCount: c.CurveCount,
		Timestamp:  c.Timestamp,
		SourcePath: c.Config.SourcePath,
	}
}

// Validate checks if the checkpoint has valid data. Returns an error
// if any required field is missing or invalid.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if c.Stage == "" {
		return &ValidationError{Field: "Stage", Reason: "cannot be empty"}
	}
	if c.CurveCount < 0 {
		return &ValidationError{Field: "CurveCount", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.SourcePath == "" {
		return &ValidationError{Field: "Config.SourcePath", Reason: "cannot be empty"}
	}
	if c.Config.BlurH <= 0 {
		return &ValidationError{Field: "Config.BlurH", Reason: "must be positive"}
	}
	if c.Config.BlurOuterIterations <= 0 || c.Config.BlurInnerIterations <= 0 {
		return &ValidationError{Field: "Config.BlurIterations", Reason: "must be positive"}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this checkpoint can be resubmitted with the
// given config, i.e. still refers to the same source image.
func (c *Checkpoint) IsCompatible(config JobConfig) error {
	if c.Config.SourcePath != config.SourcePath {
		return &CompatibilityError{
			Field:    "SourcePath",
			Expected: c.Config.SourcePath,
			Actual:   config.SourcePath,
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
