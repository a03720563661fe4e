package scrape

import (
	"context"
	"errors"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/telemetry"
)

// Ingestor persists deduped listings through the jobs gateway.
type Ingestor struct {
	Repo  jobs.Repo
	Keyer *Keyer
}

// Ingest upserts listings as jobs. Before deriving a fresh id it checks
// the store for an exact source-URL match; that catches postings whose
// URL form drifted between runs and would otherwise get a second record.
func (i *Ingestor) Ingest(ctx context.Context, listings []Listing) (jobs.IngestResult, error) {
	batch := make([]jobs.Job, 0, len(listings))
	for _, l := range listings {
		id := ""
		if l.Source.URL != "" {
			existing, err := i.Repo.FindJobByURL(ctx, l.Source.URL)
			switch {
			case err == nil:
				id = existing.ID
			case !errors.Is(err, jobs.ErrNotFound):
				// Falling through to a derived id may duplicate the job;
				// leave a trace so the record can be reconciled later.
				telemetry.Warn("scrape.ingest.url_lookup_failed", map[string]any{
					"url":   l.Source.URL,
					"error": err.Error(),
				})
			}
		}
		if id == "" {
			id = i.Keyer.JobID(l)
		}
		batch = append(batch, jobs.Job{
			ID:              id,
			Title:           l.Title,
			Company:         l.Company,
			Location:        l.Location,
			Description:     l.Description,
			WorkMode:        l.WorkMode,
			ExperienceLevel: l.ExperienceLevel,
			Sources:         []jobs.Source{l.Source},
		})
	}

	result, err := i.Repo.IngestBatch(ctx, batch)
	if err != nil {
		return result, err
	}
	metrics.AddJobsUpserted(result.Inserted + result.Updated)
	return result, nil
}
