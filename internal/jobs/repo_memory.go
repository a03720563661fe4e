package jobs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for tests and dry runs.
type MemoryRepo struct {
	mu    sync.RWMutex
	jobs  map[string]Job
	byURL map[string]string // source url -> job id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		jobs:  make(map[string]Job),
		byURL: make(map[string]string),
	}
}

func (r *MemoryRepo) UpsertJob(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertJobLocked(job)
	return nil
}

func (r *MemoryRepo) upsertJobLocked(job Job) bool {
	now := time.Now().UTC()
	existing, ok := r.jobs[job.ID]
	if ok {
		job.CreatedAt = existing.CreatedAt
		job.Sources = existing.Sources
		if job.Location == "" {
			job.Location = existing.Location
		}
		if job.Description == "" {
			job.Description = existing.Description
		}
	} else {
		job.CreatedAt = now
		job.Sources = nil
	}
	job.UpdatedAt = now
	r.jobs[job.ID] = job
	return !ok
}

func (r *MemoryRepo) UpsertSource(ctx context.Context, jobID string, src Source) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertSourceLocked(jobID, src)
	return nil
}

func (r *MemoryRepo) upsertSourceLocked(jobID string, src Source) {
	job, ok := r.jobs[jobID]
	if !ok {
		return
	}
	replaced := false
	for i, existing := range job.Sources {
		if existing.Site == src.Site && existing.ExternalID == src.ExternalID {
			if src.PostedAt == "" {
				src.PostedAt = existing.PostedAt
			}
			job.Sources[i] = src
			replaced = true
			break
		}
	}
	if !replaced {
		job.Sources = append(job.Sources, src)
	}
	r.jobs[jobID] = job
	if src.URL != "" {
		r.byURL[src.URL] = jobID
	}
}

func (r *MemoryRepo) IngestBatch(ctx context.Context, batch []Job) (IngestResult, error) {
	if err := ctx.Err(); err != nil {
		return IngestResult{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var result IngestResult
	for _, job := range batch {
		sources := job.Sources
		if r.upsertJobLocked(job) {
			result.Inserted++
		} else {
			result.Updated++
		}
		for _, src := range sources {
			r.upsertSourceLocked(job.ID, src)
			result.SourcesAdded++
		}
	}
	return result, nil
}

func (r *MemoryRepo) FindJobByURL(ctx context.Context, url string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byURL[url]
	if !ok {
		return Job{}, ErrNotFound
	}
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) FindJobByID(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) ListJobs(ctx context.Context, filter ListFilter) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	var out []Job
	for _, job := range r.jobs {
		if filter.WorkMode != "" && job.WorkMode != filter.WorkMode {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(job.Title), query) &&
			!strings.Contains(strings.ToLower(job.Company), query) {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
