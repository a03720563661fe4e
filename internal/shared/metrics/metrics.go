package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	pagesFetchedTotal      atomic.Uint64
	listingsExtractedTotal atomic.Uint64
	jobsUpsertedTotal      atomic.Uint64
	matchesScoredTotal     atomic.Uint64

	crawlDuration     = newHistogram([]float64{500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
	matchPassDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncPagesFetched increments the fetched-page counter.
func IncPagesFetched() {
	pagesFetchedTotal.Add(1)
}

// AddListingsExtracted adds to the extracted-listing counter.
func AddListingsExtracted(n int) {
	if n > 0 {
		listingsExtractedTotal.Add(uint64(n))
	}
}

// AddJobsUpserted adds to the persisted-job counter.
func AddJobsUpserted(n int) {
	if n > 0 {
		jobsUpsertedTotal.Add(uint64(n))
	}
}

// AddMatchesScored adds to the scored-match counter.
func AddMatchesScored(n int) {
	if n > 0 {
		matchesScoredTotal.Add(uint64(n))
	}
}

// ObserveCrawlDurationMs records one crawl session's duration in milliseconds.
func ObserveCrawlDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	crawlDuration.Observe(value)
}

// ObserveMatchPassDurationMs records one full matching pass in milliseconds.
func ObserveMatchPassDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	matchPassDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "scrape_pages_fetched_total", "Total search pages fetched", pagesFetchedTotal.Load())
	writeCounter(&buf, "scrape_listings_extracted_total", "Total listings extracted from pages", listingsExtractedTotal.Load())
	writeCounter(&buf, "jobs_upserted_total", "Total jobs inserted or refreshed", jobsUpsertedTotal.Load())
	writeCounter(&buf, "matches_scored_total", "Total match results returned", matchesScoredTotal.Load())
	writeHistogram(&buf, "scrape_crawl_duration_ms", "Crawl session duration in milliseconds", crawlDuration.Snapshot())
	writeHistogram(&buf, "match_pass_duration_ms", "Full matching pass duration in milliseconds", matchPassDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
