package jobs

import "time"

// Work mode values stored on a Job.
const (
	WorkModeRemote = "Remote"
	WorkModeHybrid = "Hybrid"
	WorkModeOnSite = "On-site"
)

// Experience level values stored on a Job.
const (
	LevelJunior = "Junior"
	LevelMid    = "Mid"
	LevelSenior = "Senior"
)

// Source records one place a job posting was found. A job keeps one Source
// per (site, externalId) pair, accumulated across scrape runs.
type Source struct {
	Site       string `json:"site"`
	URL        string `json:"url"`
	ExternalID string `json:"externalId"`
	PostedAt   string `json:"postedAt"`
}

// Job is a deduplicated, persisted posting. Its ID is derived from the
// listing dedup key and is stable across repeated scrapes of the same post.
type Job struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	WorkMode        string    `json:"workMode"`
	ExperienceLevel string    `json:"experienceLevel"`
	Sources         []Source  `json:"sources"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ListFilter narrows ListJobs results. The zero value lists everything.
type ListFilter struct {
	Query    string // substring match against title and company
	WorkMode string
	Limit    int
}

// IngestResult summarizes one transactional batch upsert.
type IngestResult struct {
	Inserted     int `json:"inserted"`
	Updated      int `json:"updated"`
	SourcesAdded int `json:"sourcesAdded"`
	Skipped      int `json:"skipped"`
}
