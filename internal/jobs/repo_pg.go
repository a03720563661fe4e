package jobs

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"jobmatch-backend/internal/shared/telemetry"
)

const (
	upsertMaxAttempts = 3
	upsertRetryDelay  = 50 * time.Millisecond
	defaultListLimit  = 200
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) UpsertJob(ctx context.Context, job Job) error {
	return upsertJobExec(ctx, r.DB, job)
}

func (r *PGRepo) UpsertSource(ctx context.Context, jobID string, src Source) error {
	return upsertSourceExec(ctx, r.DB, jobID, src)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertJobExec(ctx context.Context, ex execer, job Job) error {
	const query = `
INSERT INTO jobs (id, title, company, location, description, work_mode, experience_level, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  company = EXCLUDED.company,
  location = COALESCE(NULLIF(EXCLUDED.location, ''), jobs.location),
  description = COALESCE(NULLIF(EXCLUDED.description, ''), jobs.description),
  work_mode = EXCLUDED.work_mode,
  experience_level = EXCLUDED.experience_level,
  updated_at = now()`
	_, err := ex.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		nullableString(job.Location),
		nullableString(job.Description),
		job.WorkMode,
		job.ExperienceLevel,
	)
	return err
}

func upsertSourceExec(ctx context.Context, ex execer, jobID string, src Source) (err error) {
	const query = `
INSERT INTO job_sources (job_id, site, url, external_id, posted_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (job_id, site, external_id) DO UPDATE SET
  url = EXCLUDED.url,
  posted_at = COALESCE(NULLIF(EXCLUDED.posted_at, ''), job_sources.posted_at)`
	_, err = ex.ExecContext(ctx, query,
		jobID,
		src.Site,
		src.URL,
		src.ExternalID,
		nullableString(src.PostedAt),
	)
	return err
}

// IngestBatch writes a crawl batch inside one transaction. Each statement
// runs under its own savepoint: a failed statement rolls back to the
// savepoint instead of poisoning the transaction, so a bad row is skipped
// and logged while the rest of the batch still commits. Lock conflicts
// are retried in place with a short backoff.
func (r *PGRepo) IngestBatch(ctx context.Context, batch []Job) (IngestResult, error) {
	var result IngestResult
	if len(batch) == 0 {
		return result, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return result, err
	}
	defer tx.Rollback()

	for i, job := range batch {
		existed, err := jobExists(ctx, tx, job.ID)
		if err != nil {
			return result, err
		}
		if err := execSkippable(ctx, tx, "ingest_job_"+strconv.Itoa(i), func() error {
			return upsertJobExec(ctx, tx, job)
		}); err != nil {
			result.Skipped++
			telemetry.Error("jobs.ingest.skip", map[string]any{
				"job_id": job.ID,
				"title":  job.Title,
				"error":  err.Error(),
			})
			continue
		}
		if existed {
			result.Updated++
		} else {
			result.Inserted++
		}
		for j, src := range job.Sources {
			if err := execSkippable(ctx, tx, "ingest_src_"+strconv.Itoa(i)+"_"+strconv.Itoa(j), func() error {
				return upsertSourceExec(ctx, tx, job.ID, src)
			}); err != nil {
				telemetry.Error("jobs.ingest.source_skip", map[string]any{
					"job_id": job.ID,
					"site":   src.Site,
					"error":  err.Error(),
				})
				continue
			}
			result.SourcesAdded++
		}
	}

	if err := tx.Commit(); err != nil {
		return result, err
	}
	return result, nil
}

func jobExists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var found bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&found)
	return found, err
}

// execSkippable runs one statement under a savepoint. On failure it rolls
// back to the savepoint, which keeps the enclosing transaction usable, and
// retries lock conflicts with a short backoff. The final error is returned
// with the transaction already healthy, so the caller can skip the row.
func execSkippable(ctx context.Context, tx *sql.Tx, name string, fn func() error) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return err
	}
	var err error
	for attempt := 1; attempt <= upsertMaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			_, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
			return relErr
		}
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return rbErr
		}
		if !isRetryable(err) || attempt == upsertMaxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(upsertRetryDelay * time.Duration(attempt)):
		}
	}
	return err
}

// isRetryable reports whether the error can be retried inside the same
// transaction after rolling back to its savepoint. Serialization failures
// (40001) are excluded: they require restarting the whole transaction, so
// the row is skipped and left for the next crawl to re-ingest.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40P01", "55P03": // deadlock, lock not available
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "busy")
}

func (r *PGRepo) FindJobByURL(ctx context.Context, url string) (Job, error) {
	var id string
	err := r.DB.QueryRowContext(ctx,
		`SELECT job_id FROM job_sources WHERE url = $1 LIMIT 1`, url).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return r.FindJobByID(ctx, id)
}

func (r *PGRepo) FindJobByID(ctx context.Context, id string) (Job, error) {
	const query = `
SELECT id, title, company, location, description, work_mode, experience_level, created_at, updated_at
FROM jobs
WHERE id = $1
LIMIT 1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	job.Sources, err = r.loadSources(ctx, job.ID)
	if err != nil {
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) ListJobs(ctx context.Context, filter ListFilter) ([]Job, error) {
	query := `
SELECT id, title, company, location, description, work_mode, experience_level, created_at, updated_at
FROM jobs`
	var conds []string
	var args []any
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, "(title ILIKE $1 OR company ILIKE $1)")
	}
	if filter.WorkMode != "" {
		args = append(args, filter.WorkMode)
		conds = append(conds, "work_mode = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += "\nORDER BY updated_at DESC\nLIMIT $" + strconv.Itoa(len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Sources, err = r.loadSources(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PGRepo) loadSources(ctx context.Context, jobID string) ([]Source, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT site, url, external_id, posted_at FROM job_sources WHERE job_id = $1 ORDER BY site, external_id`,
		jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		var postedAt sql.NullString
		if err := rows.Scan(&src.Site, &src.URL, &src.ExternalID, &postedAt); err != nil {
			return nil, err
		}
		if postedAt.Valid {
			src.PostedAt = postedAt.String
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var location, description sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&location,
		&description,
		&job.WorkMode,
		&job.ExperienceLevel,
		&job.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	if location.Valid {
		job.Location = location.String
	}
	if description.Valid {
		job.Description = description.String
	}
	if updatedAt.Valid {
		job.UpdatedAt = updatedAt.Time
	} else {
		job.UpdatedAt = time.Now().UTC()
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
