package scrape

import (
	"fmt"
	"strings"
	"testing"
)

func cardHTML(id, title, company, location, snippet string) string {
	return fmt.Sprintf(`
<article data-testid="job-card" data-job-id=%q>
  <h3><a href="/job/%s">%s</a></h3>
  <span data-testid="company-name">%s</span>
  <span data-testid="job-card-location">%s</span>
  <p data-testid="job-card-teaser">%s</p>
  <time data-testid="job-card-date">3d ago</time>
</article>`, id, id, title, company, location, snippet)
}

func resultsPage(cards ...string) string {
	return "<html><body><main>" + strings.Join(cards, "\n") + "</main></body></html>"
}

func TestExtractorFirstStrategyWins(t *testing.T) {
	html := resultsPage(
		cardHTML("101", "Frontend Developer", "Acme", "Sydney", "React and TypeScript work"),
		cardHTML("102", "Backend Developer", "Beta", "Remote", "Go microservices, fully remote"),
	)

	e := NewExtractor("seek")
	listings, err := e.Extract(html, "https://example.com/jobs?q=developer&page=1")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.Title != "Frontend Developer" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.Company != "Acme" {
		t.Fatalf("unexpected company %q", first.Company)
	}
	if first.Source.URL != "https://example.com/job/101" {
		t.Fatalf("expected resolved absolute url, got %q", first.Source.URL)
	}
	if first.Source.ExternalID != "101" {
		t.Fatalf("expected external id from data attribute, got %q", first.Source.ExternalID)
	}
	if first.Source.PostedAt != "3d ago" {
		t.Fatalf("expected posted text kept freeform, got %q", first.Source.PostedAt)
	}

	second := listings[1]
	if second.WorkMode != "Remote" {
		t.Fatalf("expected inferred Remote, got %q", second.WorkMode)
	}
}

func TestExtractorSkipsUntitledCards(t *testing.T) {
	html := resultsPage(
		cardHTML("101", "  ", "Acme", "Sydney", "no title here"),
		cardHTML("102", "DevOps Engineer", "", "Sydney", "pipelines"),
	)

	e := NewExtractor("seek")
	listings, err := e.Extract(html, "https://example.com/jobs")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected untitled card dropped, got %d listings", len(listings))
	}
	if listings[0].Company != "Unknown" {
		t.Fatalf("expected company default Unknown, got %q", listings[0].Company)
	}
}

func TestExtractorFallbackStrategy(t *testing.T) {
	html := `<html><body>
<div class="job-listing">
  <h3><a href="https://other.example.com/job/9">Data Engineer</a></h3>
  <span class="company-name">Gamma</span>
  <span class="job-location">Melbourne</span>
  <p class="snippet">Airflow and dbt</p>
</div>
</body></html>`

	e := NewExtractor("seek")
	listings, err := e.Extract(html, "https://example.com/jobs")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected fallback strategy to match, got %d listings", len(listings))
	}
	if listings[0].Title != "Data Engineer" {
		t.Fatalf("unexpected title %q", listings[0].Title)
	}
}

func TestExtractorEmptyPageIsNotAnError(t *testing.T) {
	e := NewExtractor("seek")
	listings, err := e.Extract("<html><body><p>No results.</p></body></html>", "https://example.com/jobs")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("expected no listings, got %d", len(listings))
	}
}
