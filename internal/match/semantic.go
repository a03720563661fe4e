package match

import (
	"context"
	"math"
	"strings"

	"jobmatch-backend/internal/embedding"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/shared/telemetry"
)

const (
	jobTextLimit        = 512
	keywordBoost        = 0.15
	weakSignalFloor     = 0.4
	significantTokenLen = 3 // tokens must be longer than this
)

// SemanticScorer computes embedding-based similarity between resume text
// and a job, with exact-keyword boosting and weak-signal damping. A
// provider failure degrades to 0: no signal, never evidence of mismatch.
type SemanticScorer struct {
	provider embedding.Provider
}

func NewSemanticScorer(provider embedding.Provider) *SemanticScorer {
	return &SemanticScorer{provider: provider}
}

// Score returns a similarity in [0,1] between the query text and the job.
func (s *SemanticScorer) Score(ctx context.Context, query string, job jobs.Job) float64 {
	query = strings.TrimSpace(query)
	if s == nil || s.provider == nil || query == "" {
		return 0
	}

	queryVec, err := s.provider.Embed(ctx, query)
	if err != nil {
		telemetry.Error("match.embed_failed", map[string]any{"side": "query", "error": err.Error()})
		return 0
	}
	jobVec, err := s.provider.Embed(ctx, jobText(job))
	if err != nil {
		telemetry.Error("match.embed_failed", map[string]any{"side": "job", "job_id": job.ID, "error": err.Error()})
		return 0
	}

	score := (cosine(queryVec, jobVec) + 1) / 2

	title := strings.ToLower(job.Title)
	for _, token := range significantTokens(query) {
		if strings.Contains(title, token) {
			score += keywordBoost
		}
	}
	if score > 1 {
		score = 1
	}
	if score < weakSignalFloor {
		score /= 2
	}
	if score < 0 {
		score = 0
	}
	return score
}

// jobText builds the text embedded for a job: the title twice, so it
// outweighs the description, then the description, truncated to 512 chars.
func jobText(job jobs.Job) string {
	text := job.Title + ". " + job.Title + ". " + job.Description
	if len(text) > jobTextLimit {
		text = text[:jobTextLimit]
	}
	return text
}

func significantTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		f = strings.Trim(f, ".,;:()[]")
		if len(f) <= significantTokenLen {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
