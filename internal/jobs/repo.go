package jobs

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "job not found" }

// Repo is the persistence gateway for the job catalog.
type Repo interface {
	UpsertJob(ctx context.Context, job Job) error
	UpsertSource(ctx context.Context, jobID string, src Source) error
	FindJobByURL(ctx context.Context, url string) (Job, error)
	FindJobByID(ctx context.Context, id string) (Job, error)
	ListJobs(ctx context.Context, filter ListFilter) ([]Job, error)

	// IngestBatch upserts a crawl batch inside a single transaction.
	// A row that keeps failing after bounded retries is skipped and
	// counted, not fatal to the batch.
	IngestBatch(ctx context.Context, batch []Job) (IngestResult, error)
}
