package match

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/resume"
)

func newMatchRouter(t *testing.T, seed []jobs.Job) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := jobs.NewMemoryRepo()
	for _, job := range seed {
		if err := repo.UpsertJob(context.Background(), job); err != nil {
			t.Fatalf("seed job %s: %v", job.ID, err)
		}
	}

	extractor := resume.NewExtractor(resume.DefaultDictionaries())
	ranker := newTestRanker(constantVector([]float32{1, 0}))
	handler := NewHandler(extractor, NewOrchestrator(ranker), repo)

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func matchSeedJobs() []jobs.Job {
	now := time.Now().UTC()
	return []jobs.Job{
		{
			ID:          "job-frontend",
			Title:       "Frontend Developer",
			Company:     "Acme",
			Description: "Build UI features with react and typescript in an agile team.",
			WorkMode:    "Remote",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "job-backend",
			Title:       "Backend Engineer",
			Company:     "Globex",
			Description: "Design APIs with node and postgresql services.",
			WorkMode:    "On-site",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

const frontendResume = `Experienced frontend developer with 5 years of experience
building single page applications with react, typescript and node.
Comfortable with testing, accessibility and component design.`

func TestMatchFromJSONBodyReturnsRankedJobs(t *testing.T) {
	router := newMatchRouter(t, matchSeedJobs())

	body, err := json.Marshal(map[string]string{"resumeText": frontendResume})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Profile resume.Profile `json:"profile"`
		Matches []MatchResult  `json:"matches"`
		Total   int            `json:"total"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Total == 0 || len(payload.Matches) != payload.Total {
		t.Fatalf("expected matches, got total=%d len=%d", payload.Total, len(payload.Matches))
	}
	if payload.Matches[0].JobID != "job-frontend" {
		t.Fatalf("expected job-frontend ranked first, got %s", payload.Matches[0].JobID)
	}
	for i := 1; i < len(payload.Matches); i++ {
		if payload.Matches[i].MatchPercentage > payload.Matches[i-1].MatchPercentage {
			t.Fatalf("matches not sorted by percentage: %d before %d",
				payload.Matches[i-1].MatchPercentage, payload.Matches[i].MatchPercentage)
		}
	}
	if len(payload.Profile.Skills) == 0 && len(payload.Profile.Technologies) == 0 {
		t.Fatal("expected extracted profile terms in response")
	}
}

func TestMatchFromFileUpload(t *testing.T) {
	router := newMatchRouter(t, matchSeedJobs())

	var buf strings.Builder
	boundary := "testboundary"
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString(`Content-Disposition: form-data; name="file"; filename="resume.txt"` + "\r\n")
	buf.WriteString("Content-Type: text/plain\r\n\r\n")
	buf.WriteString(frontendResume)
	buf.WriteString("\r\n--" + boundary + "--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Total == 0 {
		t.Fatal("expected at least one match from uploaded resume")
	}
}

func TestMatchRejectsEmptyResumeText(t *testing.T) {
	router := newMatchRouter(t, matchSeedJobs())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{"resumeText":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestMatchRejectsLowConfidenceResume(t *testing.T) {
	router := newMatchRouter(t, matchSeedJobs())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match",
		strings.NewReader(`{"resumeText":"a short note about nothing in particular"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "low_confidence") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestMatchRejectsUnsupportedUpload(t *testing.T) {
	router := newMatchRouter(t, matchSeedJobs())

	var buf strings.Builder
	boundary := "testboundary"
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString(`Content-Disposition: form-data; name="file"; filename="resume.png"` + "\r\n")
	buf.WriteString("Content-Type: image/png\r\n\r\n")
	buf.WriteString("not really an image")
	buf.WriteString("\r\n--" + boundary + "--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status 415, got %d: %s", resp.Code, resp.Body.String())
	}
}
