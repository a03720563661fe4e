package match

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/resume"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/telemetry"
)

// batchSize bounds concurrent scoring, and with it concurrent calls to
// the embedding provider.
const batchSize = 10

// Orchestrator scores a profile against a corpus of jobs in bounded
// batches and returns the publishable results ranked best-first.
type Orchestrator struct {
	ranker *Ranker
}

func NewOrchestrator(ranker *Ranker) *Orchestrator {
	return &Orchestrator{ranker: ranker}
}

type scoredJob struct {
	result   MatchResult
	postedAt time.Time
}

// MatchAll scores every job and returns results sorted by descending
// matchPercentage, ties broken by the most recent posting date. Jobs
// that fail to score are logged and omitted; jobs forced to zero by the
// gate or publish threshold are excluded. Cancellation is honored
// between batches, so already-scored results are returned intact.
func (o *Orchestrator) MatchAll(ctx context.Context, profile resume.Profile, corpus []jobs.Job) ([]MatchResult, error) {
	start := time.Now()

	var results []scoredJob
	for offset := 0; offset < len(corpus); offset += batchSize {
		if err := ctx.Err(); err != nil {
			return rankAndPublish(results), err
		}

		end := offset + batchSize
		if end > len(corpus) {
			end = len(corpus)
		}
		batch := corpus[offset:end]

		out := make([]scoredJob, len(batch))
		ok := make([]bool, len(batch))
		var wg sync.WaitGroup
		for i, job := range batch {
			wg.Add(1)
			go func(i int, job jobs.Job) {
				defer wg.Done()
				result, err := o.ranker.Score(ctx, profile, job)
				if err != nil {
					telemetry.Error("match.score_failed", map[string]any{
						"job_id": job.ID,
						"error":  err.Error(),
					})
					return
				}
				out[i] = scoredJob{result: result, postedAt: mostRecentPosting(job)}
				ok[i] = true
			}(i, job)
		}
		wg.Wait()

		for i := range out {
			if ok[i] {
				results = append(results, out[i])
			}
		}
	}

	ranked := rankAndPublish(results)
	metrics.AddMatchesScored(len(ranked))
	metrics.ObserveMatchPassDurationMs(float64(time.Since(start).Milliseconds()))
	return ranked, nil
}

// rankAndPublish sorts scored jobs and drops the ones the ranker forced
// to zero.
func rankAndPublish(results []scoredJob) []MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].result.MatchPercentage != results[j].result.MatchPercentage {
			return results[i].result.MatchPercentage > results[j].result.MatchPercentage
		}
		return results[i].postedAt.After(results[j].postedAt)
	})
	ranked := make([]MatchResult, 0, len(results))
	for _, s := range results {
		if s.result.MatchPercentage == 0 {
			continue
		}
		ranked = append(ranked, s.result)
	}
	return ranked
}

// mostRecentPosting parses the freeform postedAt strings on a job's
// sources and returns the latest one, falling back to updatedAt.
func mostRecentPosting(job jobs.Job) time.Time {
	var latest time.Time
	for _, src := range job.Sources {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, src.PostedAt); err == nil {
				if t.After(latest) {
					latest = t
				}
				break
			}
		}
	}
	if latest.IsZero() {
		return job.UpdatedAt
	}
	return latest
}
