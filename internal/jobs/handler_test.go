package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newJobsRouter(t *testing.T, seed []Job) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	for _, job := range seed {
		if err := repo.UpsertJob(context.Background(), job); err != nil {
			t.Fatalf("seed job %s: %v", job.ID, err)
		}
	}
	router := gin.New()
	api := router.Group("/api/v1")
	NewHandler(repo).RegisterRoutes(api)
	return router
}

func sampleJobs() []Job {
	now := time.Now().UTC()
	return []Job{
		{ID: "job-1", Title: "Frontend Developer", Company: "Acme", WorkMode: "Remote", CreatedAt: now, UpdatedAt: now},
		{ID: "job-2", Title: "Backend Engineer", Company: "Globex", WorkMode: "On-site", CreatedAt: now, UpdatedAt: now},
		{ID: "job-3", Title: "Data Analyst", Company: "Initech", WorkMode: "Hybrid", CreatedAt: now, UpdatedAt: now},
	}
}

func TestListJobsFiltersByQueryAndWorkMode(t *testing.T) {
	router := newJobsRouter(t, sampleJobs())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/jobs?q=developer&workMode=Remote", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Jobs  []Job `json:"jobs"`
		Total int   `json:"total"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Total != 1 || len(payload.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", payload.Total)
	}
	if payload.Jobs[0].ID != "job-1" {
		t.Fatalf("expected job-1, got %s", payload.Jobs[0].ID)
	}
}

func TestListJobsRejectsInvalidLimit(t *testing.T) {
	router := newJobsRouter(t, sampleJobs())

	for _, raw := range []string{"abc", "0", "-5"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/jobs?limit="+raw, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: expected status 400, got %d", raw, resp.Code)
		}
	}
}

func TestListJobsAppliesLimit(t *testing.T) {
	router := newJobsRouter(t, sampleJobs())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/jobs?limit=2", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payload struct {
		Jobs []Job `json:"jobs"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(payload.Jobs))
	}
}

func TestGetJobByID(t *testing.T) {
	router := newJobsRouter(t, sampleJobs())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-2", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var job Job
	if err := json.Unmarshal(resp.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Title != "Backend Engineer" {
		t.Fatalf("unexpected job %+v", job)
	}

	missing := httptest.NewRecorder()
	router.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/no-such-job", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", missing.Code)
	}
}
