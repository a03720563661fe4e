package scrape

import (
	"regexp"
	"strings"

	"jobmatch-backend/internal/shared/util"
)

// urlKeyRule extracts a posting identifier from a listing URL.
type urlKeyRule struct {
	pattern *regexp.Regexp
	group   int
}

var defaultURLKeyRules = []urlKeyRule{
	{pattern: regexp.MustCompile(`/job/(\d+)`), group: 1},
	{pattern: regexp.MustCompile(`jk=([A-Za-z0-9]+)`), group: 1},
}

// Keyer derives a stable dedup key for a listing. Derivation priority:
// an ID captured from the URL, the normalized URL, the external ID, and
// finally a hash of the normalized "title|company" string.
type Keyer struct {
	rules []urlKeyRule
}

func NewKeyer() *Keyer {
	return &Keyer{rules: defaultURLKeyRules}
}

func (k *Keyer) Key(l Listing) string {
	url := strings.TrimSpace(l.Source.URL)
	if url != "" {
		// Captured ids keep their case; mixed-case ids like jk=Ab12Cd34
		// are distinct postings. Only the whole-URL fallback is folded.
		for _, rule := range k.rules {
			if m := rule.pattern.FindStringSubmatch(url); len(m) > rule.group {
				return m[rule.group]
			}
		}
		return strings.ToLower(url)
	}
	if id := strings.TrimSpace(l.Source.ExternalID); id != "" {
		return id
	}
	normalized := strings.ToLower(strings.TrimSpace(l.Title)) + "|" + strings.ToLower(strings.TrimSpace(l.Company))
	return util.HashKey(normalized)
}

// JobID maps a dedup key to the persisted job identifier. The site is
// folded in so the same posting on two boards stays two jobs.
func (k *Keyer) JobID(l Listing) string {
	return util.HashKey(l.Source.Site + "|" + k.Key(l))
}

// sessionSet tracks keys seen within a single crawl session.
type sessionSet struct {
	seen map[string]struct{}
}

func newSessionSet() *sessionSet {
	return &sessionSet{seen: make(map[string]struct{})}
}

// Seen records the key and reports whether it was already present.
func (s *sessionSet) Seen(key string) bool {
	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	return false
}
