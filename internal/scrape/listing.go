package scrape

import (
	"strings"

	"jobmatch-backend/internal/jobs"
)

// Listing is a single scraped record from one page render, before
// deduplication. Listings are discarded after ingestion.
type Listing struct {
	Title           string      `json:"title"`
	Company         string      `json:"company"`
	Location        string      `json:"location"`
	Description     string      `json:"description"`
	WorkMode        string      `json:"workMode"`
	ExperienceLevel string      `json:"experienceLevel"`
	Source          jobs.Source `json:"source"`
}

// inferenceRule maps keyword hits in title+description to a field value.
// Rules are checked in order; the first hit wins.
type inferenceRule struct {
	value    string
	keywords []string
}

var workModeRules = []inferenceRule{
	{value: jobs.WorkModeRemote, keywords: []string{
		"fully remote", "100% remote", "work from home", "wfh", "telecommute", "remote",
	}},
	{value: jobs.WorkModeHybrid, keywords: []string{"hybrid"}},
}

var experienceLevelRules = []inferenceRule{
	{value: jobs.LevelSenior, keywords: []string{
		"senior", "lead", "principal", "staff engineer", "head of",
	}},
	{value: jobs.LevelJunior, keywords: []string{
		"junior", "graduate", "entry level", "entry-level", "intern", "trainee",
	}},
}

// InferWorkMode scans title+description text for work mode keywords.
// Defaults to On-site.
func InferWorkMode(text string) string {
	return applyRules(text, workModeRules, jobs.WorkModeOnSite)
}

// InferExperienceLevel scans title+description text for seniority keywords.
// Defaults to Mid.
func InferExperienceLevel(text string) string {
	return applyRules(text, experienceLevelRules, jobs.LevelMid)
}

func applyRules(text string, rules []inferenceRule, fallback string) string {
	lowered := strings.ToLower(text)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.value
			}
		}
	}
	return fallback
}
