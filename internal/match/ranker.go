package match

import (
	"context"
	"fmt"
	"math"
	"strings"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/resume"
)

// Weights distributes the overall score across the four signals. They are
// configuration, not load-bearing literals; DefaultWeights is the
// consolidated weighting.
type Weights struct {
	Category     float64
	Semantic     float64
	Skills       float64
	Technologies float64
}

func DefaultWeights() Weights {
	return Weights{Category: 0.40, Semantic: 0.25, Skills: 0.20, Technologies: 0.15}
}

// Thresholds gathers the gating, publishing and ceiling rules.
type Thresholds struct {
	// SemanticGate is the semantic score that lets a job through the
	// gate when it has no skill or technology overlap at all.
	SemanticGate float64
	// AlignedCategory splits the publish threshold: at or above it the
	// lower PublishAligned floor applies, below it PublishDefault.
	AlignedCategory float64
	PublishAligned  int
	PublishDefault  int
	// CeilingRatio is the skill/tech/semantic level at which the
	// percentage is floored at CeilingFloor.
	CeilingRatio float64
	CeilingFloor int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SemanticGate:    0.6,
		AlignedCategory: 0.5,
		PublishAligned:  30,
		PublishDefault:  40,
		CeilingRatio:    0.75,
		CeilingFloor:    95,
	}
}

// MatchResult is the scored outcome of comparing one profile to one job.
type MatchResult struct {
	JobID               string   `json:"jobId"`
	CategoryMatch       float64  `json:"categoryMatch"`
	SkillsMatched       []string `json:"skillsMatched"`
	SkillsMissing       []string `json:"skillsMissing"`
	TechnologiesMatched []string `json:"technologiesMatched"`
	TechnologiesMissing []string `json:"technologiesMissing"`
	SemanticScore       float64  `json:"semanticScore"`
	OverallScore        float64  `json:"overallScore"`
	MatchPercentage     int      `json:"matchPercentage"`
	MatchReasons        []string `json:"matchReasons"`
	Suggestions         []string `json:"suggestions"`
}

// Ranker combines category, semantic, skill and technology signals into
// a bounded score. Scoring one job is a pure function over the profile
// and the job; a Ranker is safe for concurrent use.
type Ranker struct {
	weights    Weights
	thresholds Thresholds
	semantic   *SemanticScorer
	classifier *resume.Extractor
}

func NewRanker(semantic *SemanticScorer, classifier *resume.Extractor, weights Weights, thresholds Thresholds) *Ranker {
	return &Ranker{
		weights:    weights,
		thresholds: thresholds,
		semantic:   semantic,
		classifier: classifier,
	}
}

// Score ranks one job against the profile.
func (r *Ranker) Score(ctx context.Context, profile resume.Profile, job jobs.Job) (MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}

	jobText := strings.ToLower(job.Title + " " + job.Description)

	result := MatchResult{JobID: job.ID}
	result.CategoryMatch = categoryAffinity(profile.Category, r.classifier.ClassifyText(job.Title+" "+job.Description))
	result.SkillsMatched = matchedTerms(profile.Skills, jobText)
	result.SkillsMissing = missingTerms(r.classifier.DetectSkills(jobText), profile.Skills)
	result.TechnologiesMatched = matchedTerms(profile.Technologies, jobText)
	result.TechnologiesMissing = missingTerms(r.classifier.DetectTechnologies(jobText), profile.Technologies)
	result.SemanticScore = r.semantic.Score(ctx, semanticQuery(profile), job)

	// Gate: with no concrete overlap and no meaningful semantic signal
	// the job is not a candidate at all.
	if len(result.SkillsMatched) == 0 &&
		len(result.TechnologiesMatched) == 0 &&
		result.SemanticScore <= r.thresholds.SemanticGate {
		return result, nil
	}

	skillRatio := ratio(len(result.SkillsMatched), len(profile.Skills))
	techRatio := ratio(len(result.TechnologiesMatched), len(profile.Technologies))

	base := result.CategoryMatch*r.weights.Category +
		adjustedSemantic(result.SemanticScore)*r.weights.Semantic +
		math.Pow(skillRatio, 1.2)*r.weights.Skills +
		math.Pow(techRatio, 1.2)*r.weights.Technologies

	multiplier := 1.0
	switch {
	case result.CategoryMatch >= 0.9:
		multiplier += 0.20
	case result.CategoryMatch >= 0.7:
		multiplier += 0.10
	case result.CategoryMatch < 0.3:
		base *= 0.5
	}
	if len(result.SkillsMatched) > 0 && len(result.TechnologiesMatched) > 0 {
		multiplier += 0.10
	}
	if skillRatio >= 0.7 {
		multiplier += 0.06
	}
	if techRatio >= 0.7 {
		multiplier += 0.06
	}
	if result.SemanticScore >= 0.8 {
		multiplier += 0.08
	}
	if result.CategoryMatch >= 0.9 && skillRatio >= 0.6 && techRatio >= 0.6 {
		multiplier += 0.15
	}

	overall := base * multiplier
	if overall > 1 {
		overall = 1
	}
	if overall < 0 {
		overall = 0
	}
	result.OverallScore = overall
	result.MatchPercentage = int(math.Round(overall * 100))

	if skillRatio >= r.thresholds.CeilingRatio &&
		techRatio >= r.thresholds.CeilingRatio &&
		result.SemanticScore >= r.thresholds.CeilingRatio &&
		result.MatchPercentage < r.thresholds.CeilingFloor {
		result.MatchPercentage = r.thresholds.CeilingFloor
	}

	// Publish threshold: weak results are excluded outright, not ranked low.
	publishFloor := r.thresholds.PublishDefault
	if result.CategoryMatch >= r.thresholds.AlignedCategory {
		publishFloor = r.thresholds.PublishAligned
	}
	if result.MatchPercentage < publishFloor {
		result.MatchPercentage = 0
		result.OverallScore = 0
		return result, nil
	}

	result.MatchReasons = r.reasons(result, profile)
	result.Suggestions = r.suggestions(result)
	return result, nil
}

// categoryAffinity maps a (resume category, job category) pair to [0,1].
func categoryAffinity(resumeCat, jobCat string) float64 {
	if resumeCat == "" || jobCat == "" {
		return 0.3
	}
	if resumeCat == jobCat {
		return 1.0
	}
	related := map[[2]string]bool{
		{resume.CategoryFullstack, resume.CategoryFrontend}: true,
		{resume.CategoryFullstack, resume.CategoryBackend}:  true,
		{resume.CategoryDevops, resume.CategoryCloud}:       true,
		{resume.CategoryData, resume.CategoryBackend}:       true,
	}
	if related[[2]string{resumeCat, jobCat}] || related[[2]string{jobCat, resumeCat}] {
		return 0.7
	}
	if resumeCat == resume.CategoryGeneral || jobCat == resume.CategoryGeneral {
		return 0.3
	}
	return 0.1
}

// adjustedSemantic rewards confident similarity and discounts noise
// before the weight is applied.
func adjustedSemantic(s float64) float64 {
	switch {
	case s > 0.7:
		s *= 1.1
	case s > 0.6:
		s *= 1.05
	case s < 0.5:
		s *= 0.8
	}
	if s > 1 {
		s = 1
	}
	return s
}

// matchedTerms returns the profile terms the job text mentions.
func matchedTerms(terms []string, jobText string) []string {
	var matched []string
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(jobText, strings.ToLower(term)) {
			matched = append(matched, term)
		}
	}
	return matched
}

// missingTerms returns the terms the job asks for that the profile lacks.
func missingTerms(jobTerms, profileTerms []string) []string {
	have := make(map[string]struct{}, len(profileTerms))
	for _, t := range profileTerms {
		have[strings.ToLower(t)] = struct{}{}
	}
	var missing []string
	for _, t := range jobTerms {
		if _, ok := have[strings.ToLower(t)]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

func ratio(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

func semanticQuery(profile resume.Profile) string {
	if profile.SummaryText != "" {
		return profile.SummaryText
	}
	raw := strings.Join(strings.Fields(profile.RawText), " ")
	if len(raw) > jobTextLimit {
		raw = raw[:jobTextLimit]
	}
	return raw
}

func (r *Ranker) reasons(result MatchResult, profile resume.Profile) []string {
	var reasons []string
	switch {
	case result.CategoryMatch >= 0.9:
		reasons = append(reasons, fmt.Sprintf("Role category aligns with your %s background", profile.Category))
	case result.CategoryMatch >= 0.7:
		reasons = append(reasons, fmt.Sprintf("Role category is adjacent to your %s background", profile.Category))
	}
	if len(result.SkillsMatched) > 0 {
		reasons = append(reasons, fmt.Sprintf("Matches %d of your skills: %s",
			len(result.SkillsMatched), joinFirst(result.SkillsMatched, 5)))
	}
	if len(result.TechnologiesMatched) > 0 {
		reasons = append(reasons, fmt.Sprintf("Uses technologies you know: %s",
			joinFirst(result.TechnologiesMatched, 5)))
	}
	switch {
	case result.SemanticScore >= 0.8:
		reasons = append(reasons, "Job description closely mirrors your experience")
	case result.SemanticScore >= 0.6:
		reasons = append(reasons, "Job description is a good fit for your experience")
	}
	return reasons
}

func (r *Ranker) suggestions(result MatchResult) []string {
	var suggestions []string
	if len(result.SkillsMissing) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Highlight or build these skills: %s",
			joinFirst(result.SkillsMissing, 5)))
	}
	if len(result.TechnologiesMissing) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("The posting also asks for: %s",
			joinFirst(result.TechnologiesMissing, 5)))
	}
	if result.SemanticScore < 0.6 {
		suggestions = append(suggestions, "Tailor your resume summary toward this kind of role")
	}
	if result.CategoryMatch < 0.7 {
		suggestions = append(suggestions, "This role sits outside your main category; emphasize transferable work")
	}
	return suggestions
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
