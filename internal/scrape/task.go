package scrape

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/shared/telemetry"
)

const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
	TaskStatusCanceled  = "canceled"
)

// Task is one observable crawl session.
type Task struct {
	ID         string             `json:"id"`
	Query      string             `json:"query"`
	Location   string             `json:"location"`
	MaxPages   int                `json:"maxPages"`
	Status     string             `json:"status"`
	Crawl      Result             `json:"crawl"`
	Listings   int                `json:"listings"`
	Ingest     jobs.IngestResult  `json:"ingest"`
	Error      string             `json:"error,omitempty"`
	StartedAt  time.Time          `json:"startedAt"`
	FinishedAt *time.Time         `json:"finishedAt,omitempty"`

	cancel context.CancelFunc
}

// TaskManager runs crawl sessions as supervised background tasks with
// observable status and explicit cancellation. Sessions are independent:
// each Scrape call owns its seen-key set, so tasks may run concurrently.
type TaskManager struct {
	crawler  *Crawler
	ingestor *Ingestor

	mu    sync.RWMutex
	tasks map[string]*Task
}

func NewTaskManager(crawler *Crawler, ingestor *Ingestor) *TaskManager {
	return &TaskManager{
		crawler:  crawler,
		ingestor: ingestor,
		tasks:    make(map[string]*Task),
	}
}

// Start launches a crawl session in the background and returns its task.
func (m *TaskManager) Start(query, location string, maxPages int) Task {
	ctx, cancel := context.WithCancel(context.Background())
	task := &Task{
		ID:        uuid.NewString(),
		Query:     query,
		Location:  location,
		MaxPages:  maxPages,
		Status:    TaskStatusPending,
		StartedAt: time.Now().UTC(),
		cancel:    cancel,
	}

	m.mu.Lock()
	m.tasks[task.ID] = task
	m.mu.Unlock()

	go m.run(ctx, task.ID, query, location, maxPages)
	return *task
}

func (m *TaskManager) run(ctx context.Context, taskID, query, location string, maxPages int) {
	m.update(taskID, func(t *Task) { t.Status = TaskStatusRunning })

	listings, crawl, err := m.crawler.Scrape(ctx, query, location, maxPages)

	// Partial results are still worth persisting, whatever ended the crawl.
	var ingest jobs.IngestResult
	if len(listings) > 0 {
		var ingestErr error
		ingest, ingestErr = m.ingestor.Ingest(context.WithoutCancel(ctx), listings)
		if ingestErr != nil && err == nil {
			err = ingestErr
		}
	}

	now := time.Now().UTC()
	m.update(taskID, func(t *Task) {
		t.Crawl = crawl
		t.Listings = len(listings)
		t.Ingest = ingest
		t.FinishedAt = &now
		switch {
		case ctx.Err() != nil:
			t.Status = TaskStatusCanceled
		case err != nil:
			t.Status = TaskStatusFailed
			t.Error = err.Error()
		default:
			t.Status = TaskStatusCompleted
		}
	})

	telemetry.Info("scrape.task.finished", map[string]any{
		"task_id":  taskID,
		"query":    query,
		"listings": len(listings),
		"inserted": ingest.Inserted,
		"updated":  ingest.Updated,
	})
}

// Get returns a snapshot of the task.
func (m *TaskManager) Get(id string) (Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// List returns task snapshots, most recent first.
func (m *TaskManager) List() []Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		out = append(out, *task)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// Cancel stops a pending or running task. It reports whether the task
// exists and was still cancelable.
func (m *TaskManager) Cancel(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return false
	}
	if task.Status != TaskStatusPending && task.Status != TaskStatusRunning {
		return false
	}
	task.cancel()
	return true
}

func (m *TaskManager) update(id string, fn func(*Task)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task, ok := m.tasks[id]; ok {
		fn(task)
	}
}
