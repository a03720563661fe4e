package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/telemetry"
)

const (
	defaultPageDelay = 2 * time.Second
	defaultMaxPages  = 5

	// A page counts toward the broken-pagination signal only when it is
	// big enough that an all-duplicates outcome is unlikely by chance.
	duplicatePageFloor = 10
	duplicatePageWarn  = 2
	duplicatePageAbort = 3
)

// CrawlerConfig controls one crawler instance.
type CrawlerConfig struct {
	Site      string
	BaseURL   string // search endpoint, e.g. https://example.com/jobs
	PageDelay time.Duration
	MaxPages  int // cap applied when the caller passes 0
	// SearchURL overrides the default query-string URL builder.
	SearchURL func(query, location string, page int) string
}

// Crawler drives the fetch → extract → dedup cycle across result pages.
// One Crawler is safe for concurrent sessions: the seen-key set is scoped
// to a single Scrape call.
type Crawler struct {
	fetcher   PageFetcher
	extractor *Extractor
	keyer     *Keyer
	cfg       CrawlerConfig
}

// Result reports how a crawl session ended, alongside the listings.
type Result struct {
	PagesFetched      int  `json:"pagesFetched"`
	Extracted         int  `json:"extracted"`
	Duplicates        int  `json:"duplicates"`
	PaginationSuspect bool `json:"paginationSuspect"`
}

func NewCrawler(fetcher PageFetcher, extractor *Extractor, keyer *Keyer, cfg CrawlerConfig) *Crawler {
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = defaultPageDelay
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	return &Crawler{fetcher: fetcher, extractor: extractor, keyer: keyer, cfg: cfg}
}

// Scrape crawls result pages for the query until end-of-results, maxPages,
// a fetch failure, or context cancellation. A fetch failure returns the
// listings collected so far together with the error; they are never
// silently discarded.
func (c *Crawler) Scrape(ctx context.Context, query, location string, maxPages int) ([]Listing, Result, error) {
	if maxPages <= 0 || maxPages > c.cfg.MaxPages {
		maxPages = c.cfg.MaxPages
	}

	started := time.Now()
	session := newSessionSet()
	var collected []Listing
	var result Result
	consecutiveDuplicatePages := 0

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return collected, result, err
		}

		pageURL := c.searchURL(query, location, page)
		html, err := c.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			telemetry.Error("crawl.fetch_failed", map[string]any{
				"site": c.cfg.Site, "page": page, "url": pageURL, "error": err.Error(),
			})
			return collected, result, fmt.Errorf("page %d: %w", page, err)
		}
		result.PagesFetched++
		metrics.IncPagesFetched()

		listings, err := c.extractor.Extract(html, pageURL)
		if err != nil {
			return collected, result, fmt.Errorf("page %d: %w", page, err)
		}
		if len(listings) == 0 {
			// No strategy matched anything: end of results.
			break
		}
		result.Extracted += len(listings)
		metrics.AddListingsExtracted(len(listings))

		unique := 0
		for _, l := range listings {
			if session.Seen(c.keyer.Key(l)) {
				result.Duplicates++
				continue
			}
			collected = append(collected, l)
			unique++
		}

		if unique == 0 {
			telemetry.Warn("crawl.page_all_duplicates", map[string]any{
				"site":     c.cfg.Site,
				"page":     page,
				"listings": len(listings),
			})
			if len(listings) >= duplicatePageFloor {
				consecutiveDuplicatePages++
				if consecutiveDuplicatePages >= duplicatePageWarn {
					result.PaginationSuspect = true
					telemetry.Warn("crawl.pagination_suspect", map[string]any{
						"site":  c.cfg.Site,
						"page":  page,
						"pages": consecutiveDuplicatePages,
					})
				}
				if consecutiveDuplicatePages >= duplicatePageAbort {
					break
				}
			}
		} else {
			consecutiveDuplicatePages = 0
		}

		if page < maxPages {
			select {
			case <-ctx.Done():
				return collected, result, ctx.Err()
			case <-time.After(c.cfg.PageDelay):
			}
		}
	}

	metrics.ObserveCrawlDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("crawl.complete", map[string]any{
		"site":       c.cfg.Site,
		"query":      query,
		"location":   location,
		"pages":      result.PagesFetched,
		"extracted":  result.Extracted,
		"unique":     len(collected),
		"duplicates": result.Duplicates,
	})
	return collected, result, nil
}

func (c *Crawler) searchURL(query, location string, page int) string {
	if c.cfg.SearchURL != nil {
		return c.cfg.SearchURL(query, location, page)
	}
	params := url.Values{}
	params.Set("q", query)
	if location != "" {
		params.Set("l", location)
	}
	params.Set("page", strconv.Itoa(page))
	return c.cfg.BaseURL + "?" + params.Encode()
}
