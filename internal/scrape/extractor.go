package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobmatch-backend/internal/jobs"
)

// selectorStrategy is one way of locating listing cards on a results page.
// Strategies are tried in order; the first one that matches at least one
// container element is used for the whole page.
type selectorStrategy struct {
	name        string
	container   string
	title       string
	company     string
	location    string
	description string
	postedAt    string
	link        string
	externalID  string // attribute name on the container, e.g. data-job-id
}

var defaultStrategies = []selectorStrategy{
	{
		name:        "testid-cards",
		container:   `article[data-testid="job-card"], div[data-testid="job-card"]`,
		title:       `[data-testid="job-card-title"], h3 a, h2 a`,
		company:     `[data-testid="company-name"], span.company`,
		location:    `[data-testid="job-card-location"], span.location`,
		description: `[data-testid="job-card-teaser"], p.teaser`,
		postedAt:    `[data-testid="job-card-date"], time`,
		link:        `a[href]`,
		externalID:  "data-job-id",
	},
	{
		name:        "article-cards",
		container:   "article[data-job-id], article.job-card",
		title:       "h3, h2",
		company:     ".company, .employer",
		location:    ".location",
		description: ".snippet, .summary",
		postedAt:    "time, .date",
		link:        "a[href]",
		externalID:  "data-job-id",
	},
	{
		name:        "generic-results",
		container:   "div.job-listing, li.result, div.result, div.job",
		title:       "h3 a, h2 a, a.title, .job-title",
		company:     ".company, .company-name",
		location:    ".location, .job-location",
		description: ".description, .snippet",
		postedAt:    ".posted, .date, time",
		link:        "a[href]",
		externalID:  "data-id",
	},
}

// Extractor parses a results page into raw Listings.
type Extractor struct {
	site       string
	strategies []selectorStrategy
}

func NewExtractor(site string) *Extractor {
	return &Extractor{site: site, strategies: defaultStrategies}
}

// Extract returns one Listing per card element. Elements without a title
// are dropped; a missing company becomes "Unknown". Returning an empty
// slice is not an error, it signals end of results to the crawler.
func (e *Extractor) Extract(html, pageURL string) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	base, _ := url.Parse(pageURL)

	for _, st := range e.strategies {
		sel := doc.Find(st.container)
		if sel.Length() == 0 {
			continue
		}
		var listings []Listing
		sel.Each(func(_ int, card *goquery.Selection) {
			listing, ok := e.extractCard(card, st, base)
			if ok {
				listings = append(listings, listing)
			}
		})
		return listings, nil
	}
	return nil, nil
}

func (e *Extractor) extractCard(card *goquery.Selection, st selectorStrategy, base *url.URL) (Listing, bool) {
	title := cleanText(card.Find(st.title).First().Text())
	if title == "" {
		return Listing{}, false
	}

	company := cleanText(card.Find(st.company).First().Text())
	if company == "" {
		company = "Unknown"
	}

	description := cleanText(card.Find(st.description).First().Text())

	href, _ := card.Find(st.link).First().Attr("href")
	link := resolveURL(base, strings.TrimSpace(href))

	externalID, _ := card.Attr(st.externalID)
	externalID = strings.TrimSpace(externalID)

	combined := title + " " + description
	return Listing{
		Title:           title,
		Company:         company,
		Location:        cleanText(card.Find(st.location).First().Text()),
		Description:     description,
		WorkMode:        InferWorkMode(combined),
		ExperienceLevel: InferExperienceLevel(combined),
		Source: jobs.Source{
			Site:       e.site,
			URL:        link,
			ExternalID: externalID,
			PostedAt:   cleanText(card.Find(st.postedAt).First().Text()),
		},
	}, true
}

func resolveURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
