package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/cwbudde/vectrace/internal/store"
	"github.com/cwbudde/vectrace/internal/tracer/pipeline"
)

// Server is the HTTP preview/engine façade: a REST+SSE surface over
// the tracer, backed by a JobManager for in-flight state and an
// optional store.Store for job bookkeeping.
type Server struct {
	jobManager *JobManager
	store      store.Store
	addr       string
	server     *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates a new HTTP server with an optional checkpoint
// store. If store is nil, job bookkeeping is kept in memory only.
func NewServer(addr string, checkpointStore store.Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		jobManager: NewJobManager(),
		store:      checkpointStore,
		addr:       addr,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/traces", s.handleTraces)
	mux.HandleFunc("/api/v1/traces/", s.handleTracesWithID)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	handler := s.loggingMiddleware(s.corsMiddleware(mux))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: handler,
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")

	s.cancel()

	if s.store != nil {
		s.checkpointRunningJobs(ctx)
	}

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// checkpointRunningJobs persists bookkeeping for jobs still running at
// shutdown time. Since a trace run is cheap to redo from scratch, this
// only records the last known stage/config, not progress to resume.
func (s *Server) checkpointRunningJobs(ctx context.Context) {
	runningJobs := s.jobManager.GetRunningJobs()
	if len(runningJobs) == 0 {
		slog.Info("No running jobs to checkpoint")
		return
	}

	slog.Info("Checkpointing running jobs", "count", len(runningJobs))

	for _, job := range runningJobs {
		checkpoint := store.NewCheckpoint(job.ID, job.Stage, job.CurveCount, job.Config)
		if err := s.store.SaveCheckpoint(job.ID, checkpoint); err != nil {
			slog.Error("Failed to checkpoint job on shutdown", "job_id", job.ID, "error", err)
			continue
		}
		slog.Info("Job checkpointed on shutdown", "job_id", job.ID, "stage", job.Stage)
	}
}

// handleTraces handles /api/v1/traces.
func (s *Server) handleTraces(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTrace(w, r)
	case http.MethodGet:
		s.handleListTraces(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTracesWithID handles /api/v1/traces/:id/*.
func (s *Server) handleTracesWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/traces/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	switch {
	case len(parts) == 1:
		s.handleGetTraceStatus(w, r, jobID)
	case parts[1] == "stream":
		s.handleJobStream(w, r, jobID)
	case parts[1] == "curves":
		s.handleGetTraceCurves(w, r, jobID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateTrace handles POST /api/v1/traces: submit a source image
// path and pipeline config, get back a job id.
func (s *Server) handleCreateTrace(w http.ResponseWriter, r *http.Request) {
	var config JobConfig
	if err := decodeJSON(r, &config); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if config.SourcePath == "" {
		writeError(w, http.StatusBadRequest, "sourcePath is required")
		return
	}
	defaults := pipeline.DefaultConfig()
	if config.BlurH <= 0 {
		config.BlurH = defaults.BlurH
	}
	if config.BlurOuterIterations <= 0 {
		config.BlurOuterIterations = defaults.BlurOuterIterations
	}
	if config.BlurInnerIterations <= 0 {
		config.BlurInnerIterations = defaults.BlurInnerIterations
	}
	if config.SalvagePercentile <= 0 {
		config.SalvagePercentile = defaults.SalvagePercentile
	}
	if config.PlotScale <= 0 {
		config.PlotScale = defaults.PlotScale
	}

	job := s.jobManager.CreateJob(config)

	go runJob(s.ctx, s.jobManager, s.store, job.ID)

	writeJSON(w, http.StatusCreated, job)
}

// handleListTraces handles GET /api/v1/traces.
func (s *Server) handleListTraces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jobManager.ListJobs())
}

// handleGetTraceStatus handles GET /api/v1/traces/:id.
func (s *Server) handleGetTraceStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         job.ID,
		"state":      job.State,
		"config":     job.Config,
		"stage":      job.Stage,
		"curveCount": job.CurveCount,
		"elapsed":    elapsed.Seconds(),
		"startTime":  job.StartTime,
		"endTime":    job.EndTime,
		"error":      job.Error,
	})
}

// handleGetTraceCurves handles GET /api/v1/traces/:id/curves.
func (s *Server) handleGetTraceCurves(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	if job.State != StateCompleted {
		writeError(w, http.StatusConflict, fmt.Sprintf("job is %s, not completed", job.State))
		return
	}

	writeJSON(w, http.StatusOK, job.Curves)
}

// corsMiddleware adds CORS headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
