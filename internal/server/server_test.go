package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestServer_CreateTrace(t *testing.T) {
	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "test.png")
	createSimpleTestImage(t, imgPath)

	s := NewServer(":8080", nil)

	config := JobConfig{
		SourcePath: imgPath,
		BlurH:      0.1,
		Seed:       42,
	}

	body, _ := json.Marshal(config)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/traces", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateTrace(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}

	if job.State != StatePending && job.State != StateRunning {
		t.Errorf("Expected pending or running state, got %s", job.State)
	}
}

func TestServer_CreateTrace_MissingSourcePath(t *testing.T) {
	s := NewServer(":8080", nil)

	body, _ := json.Marshal(JobConfig{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/traces", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateTrace(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestServer_CreateTrace_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "test.png")
	createSimpleTestImage(t, imgPath)

	s := NewServer(":8080", nil)

	body, _ := json.Marshal(JobConfig{SourcePath: imgPath})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/traces", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateTrace(w, req)

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if job.Config.BlurH == 0 {
		t.Error("BlurH should have been defaulted")
	}
	if job.Config.PlotScale == 0 {
		t.Error("PlotScale should have been defaulted")
	}
}

func TestServer_ListTraces(t *testing.T) {
	s := NewServer(":8080", nil)

	s.jobManager.CreateJob(JobConfig{SourcePath: "test1.png"})
	s.jobManager.CreateJob(JobConfig{SourcePath: "test2.png"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/traces", nil)
	w := httptest.NewRecorder()

	s.handleListTraces(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var jobs []*Job
	if err := json.NewDecoder(w.Body).Decode(&jobs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(jobs) != 2 {
		t.Errorf("Expected 2 jobs, got %d", len(jobs))
	}
}

func TestServer_GetTraceStatus(t *testing.T) {
	s := NewServer(":8080", nil)

	job := s.jobManager.CreateJob(JobConfig{SourcePath: "test.png"})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/traces/%s", job.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetTraceStatus(w, req, job.ID)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["id"] != job.ID {
		t.Error("Response should contain job ID")
	}

	if response["state"] != string(StatePending) {
		t.Errorf("Expected pending state, got %v", response["state"])
	}
}

func TestServer_GetTraceStatus_NotFound(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/traces/nonexistent", nil)
	w := httptest.NewRecorder()

	s.handleGetTraceStatus(w, req, "nonexistent")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_GetTraceCurves(t *testing.T) {
	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "test.png")
	createSimpleTestImage(t, imgPath)

	s := NewServer(":8080", nil)

	job := s.jobManager.CreateJob(JobConfig{SourcePath: imgPath, BlurH: 0.1, Seed: 42})

	if err := runJob(context.Background(), s.jobManager, nil, job.ID); err != nil {
		t.Fatalf("Job failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/traces/%s/curves", job.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetTraceCurves(w, req, job.ID)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var curves []interface{}
	if err := json.NewDecoder(w.Body).Decode(&curves); err != nil {
		t.Fatalf("Failed to decode curves: %v", err)
	}
}

func TestServer_GetTraceCurves_NotCompleted(t *testing.T) {
	s := NewServer(":8080", nil)

	job := s.jobManager.CreateJob(JobConfig{SourcePath: "test.png"})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/traces/%s/curves", job.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetTraceCurves(w, req, job.ID)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestServer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "test.png")
	createSimpleTestImage(t, imgPath)

	s := NewServer("localhost:0", nil)
	srv := httptest.NewServer(s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/traces" && r.Method == http.MethodPost {
			s.handleCreateTrace(w, r)
		} else if r.URL.Path == "/api/v1/traces" && r.Method == http.MethodGet {
			s.handleListTraces(w, r)
		} else {
			s.handleTracesWithID(w, r)
		}
	})))
	defer srv.Close()

	config := JobConfig{
		SourcePath: imgPath,
		BlurH:      0.1,
		Seed:       42,
	}

	body, _ := json.Marshal(config)
	resp, err := http.Post(srv.URL+"/api/v1/traces", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}
	defer resp.Body.Close()

	var job Job
	json.NewDecoder(resp.Body).Decode(&job)

	maxAttempts := 50
	for i := 0; i < maxAttempts; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/traces/" + job.ID)
		if err != nil {
			t.Fatalf("Failed to get status: %v", err)
		}

		var status map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()

		if status["state"] == string(StateCompleted) {
			break
		}

		if status["state"] == string(StateFailed) {
			t.Fatalf("Job failed: %v", status["error"])
		}

		if i == maxAttempts-1 {
			t.Fatal("Job did not complete in time")
		}

		time.Sleep(20 * time.Millisecond)
	}

	resp, err = http.Get(srv.URL + "/api/v1/traces/" + job.ID + "/curves")
	if err != nil {
		t.Fatalf("Failed to get curves: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestServer_JobStream_SSE(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping SSE test in short mode")
	}

	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "test.png")
	createSimpleTestImage(t, imgPath)

	s := NewServer(":8080", nil)

	job := s.jobManager.CreateJob(JobConfig{
		SourcePath: imgPath,
		BlurH:      0.1,
		Seed:       42,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go runJob(ctx, s.jobManager, nil, job.ID)

	time.Sleep(100 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/traces/%s/stream", job.ID), nil)
	w := httptest.NewRecorder()

	done := make(chan bool)
	go func() {
		s.handleJobStream(w, req, job.ID)
		done <- true
	}()

	timeout := time.After(3 * time.Second)
	select {
	case <-done:
	case <-timeout:
	}

	if w.Header().Get("Content-Type") != "text/event-stream" {
		t.Error("Expected text/event-stream content type")
	}

	body := w.Body.String()
	if !containsString(body, "data:") {
		t.Error("Expected SSE data in response")
	}
}

func TestServer_JobStream_NotFound(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/traces/nonexistent/stream", nil)
	w := httptest.NewRecorder()

	s.handleJobStream(w, req, "nonexistent")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestEventBroadcaster(t *testing.T) {
	eb := NewEventBroadcaster()

	ch := eb.Subscribe("job1")
	defer eb.Unsubscribe("job1", ch)

	event := ProgressEvent{
		JobID:      "job1",
		State:      StateRunning,
		Stage:      "gradient",
		CurveCount: 0,
		Timestamp:  time.Now(),
	}
	eb.Broadcast(event)

	select {
	case received := <-ch:
		if received.JobID != "job1" {
			t.Errorf("Expected jobID job1, got %s", received.JobID)
		}
		if received.Stage != "gradient" {
			t.Errorf("Expected stage gradient, got %s", received.Stage)
		}
	case <-time.After(1 * time.Second):
		t.Error("Timeout waiting for event")
	}

	eb.CleanupJob("job1")
}

func TestServer_Routing_MethodNotAllowed(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/traces", nil)
	w := httptest.NewRecorder()

	s.handleTraces(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func containsString(haystack, needle string) bool {
	return bytes.Contains([]byte(haystack), []byte(needle))
}

func createSimpleTestImage(t *testing.T, path string) {
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	white := color.NRGBA{255, 255, 255, 255}
	red := color.NRGBA{255, 0, 0, 255}

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, white)
		}
	}

	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.Set(x, y, red)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}
