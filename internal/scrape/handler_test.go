package scrape

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newHandlerRouter(fetcher PageFetcher) (*gin.Engine, *TaskManager) {
	gin.SetMode(gin.TestMode)
	manager, _ := newTestTaskManager(fetcher)
	router := gin.New()
	api := router.Group("/api/v1")
	NewHandler(manager).RegisterRoutes(api)
	return router, manager
}

func TestStartScrapeRejectsMissingQuery(t *testing.T) {
	router, _ := newHandlerRouter(&fakeFetcher{pages: map[int]string{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scrapes", strings.NewReader(`{"query":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "query is required") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestStartScrapeAcceptedAndObservable(t *testing.T) {
	router, manager := newHandlerRouter(&fakeFetcher{pages: map[int]string{
		1: resultsPage(uniqueCards(1, 2)...),
	}})

	body := strings.NewReader(`{"query":"developer","location":"sydney","maxPages":2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scrapes", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", resp.Code, resp.Body.String())
	}
	var task Task
	if err := json.Unmarshal(resp.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.ID == "" || task.Query != "developer" {
		t.Fatalf("unexpected task %+v", task)
	}

	waitForTerminal(t, manager, task.ID)

	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, httptest.NewRequest(http.MethodGet, "/api/v1/scrapes/"+task.ID, nil))
	if getResp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", getResp.Code)
	}
	var fetched Task
	if err := json.Unmarshal(getResp.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if fetched.Status != TaskStatusCompleted {
		t.Fatalf("expected completed, got %q (%s)", fetched.Status, fetched.Error)
	}
	if fetched.Listings != 2 {
		t.Fatalf("expected 2 listings, got %d", fetched.Listings)
	}

	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, httptest.NewRequest(http.MethodGet, "/api/v1/scrapes", nil))
	if listResp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", listResp.Code)
	}
	var list struct {
		Tasks []Task `json:"tasks"`
	}
	if err := json.Unmarshal(listResp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(list.Tasks))
	}
}

func TestGetScrapeNotFound(t *testing.T) {
	router, _ := newHandlerRouter(&fakeFetcher{pages: map[int]string{}})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/scrapes/no-such-task", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestCancelScrape(t *testing.T) {
	router, manager := newHandlerRouter(blockingFetcher{release: make(chan struct{})})

	task := manager.Start("developer", "", 2)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/scrapes/"+task.ID, nil))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", resp.Code, resp.Body.String())
	}

	done := waitForTerminal(t, manager, task.ID)
	if done.Status != TaskStatusCanceled {
		t.Fatalf("expected canceled, got %q", done.Status)
	}

	// Canceling a finished task conflicts.
	again := httptest.NewRecorder()
	router.ServeHTTP(again, httptest.NewRequest(http.MethodDelete, "/api/v1/scrapes/"+task.ID, nil))
	if again.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", again.Code)
	}

	missing := httptest.NewRecorder()
	router.ServeHTTP(missing, httptest.NewRequest(http.MethodDelete, "/api/v1/scrapes/no-such-task", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", missing.Code)
	}
}
