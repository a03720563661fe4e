package resume

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	maxSkills          = 30
	maxFallbackYears   = 15
	yearsPerEntry      = 2.5
	summaryLimit       = 500
	categoryFloor      = 3.0
	fullstackBoost     = 10.0
	fullstackSideFloor = 5.0
)

var (
	skillLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:key skills|technical skills|core competencies|proficiencies|skills)\s*[:\-]\s*(.+)`),
	}
	yearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*years?(?:\s+of)?\s+experience`),
		regexp.MustCompile(`(?i)experience\s*[:\-]?\s*(\d{1,2})\s*\+?\s*years?`),
	}
	jobTitleLine = regexp.MustCompile(`(?i)\b(engineer|developer|analyst|consultant|architect|administrator|scientist|designer|manager|intern)\b`)
	skillSplit   = regexp.MustCompile(`[,;•|/]`)
)

// Extractor derives a Profile from raw resume text using the configured
// keyword dictionaries. Construct once and reuse; it is read-only after
// construction and safe for concurrent use.
type Extractor struct {
	dict     Dictionaries
	termRe   map[string]*regexp.Regexp
	catNames map[string]*regexp.Regexp
}

func NewExtractor(dict Dictionaries) *Extractor {
	e := &Extractor{
		dict:     dict,
		termRe:   make(map[string]*regexp.Regexp),
		catNames: make(map[string]*regexp.Regexp),
	}
	for _, term := range dict.TechnicalSkills {
		e.termRe[term] = termPattern(term)
	}
	for _, term := range dict.SoftSkills {
		e.termRe[term] = termPattern(term)
	}
	for _, term := range dict.Technologies {
		e.termRe[term] = termPattern(term)
	}
	for name, profile := range dict.Categories {
		e.catNames[name] = termPattern(name)
		for _, kw := range profile.Keywords {
			if _, ok := e.termRe[kw]; !ok {
				e.termRe[kw] = termPattern(kw)
			}
		}
	}
	return e
}

// termPattern matches a term on its own word boundary. Symbol-bearing
// terms like "c#", "c++" and "node.js" keep their symbols as part of the
// word, so "c" in "c#" never matches plain "c".
func termPattern(term string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(strings.ToLower(term))
	return regexp.MustCompile(`(?:^|[^a-z0-9+#.])` + escaped + `(?:[^a-z0-9+#.]|$)`)
}

func (e *Extractor) contains(lowered, term string) bool {
	re, ok := e.termRe[term]
	if !ok {
		re = termPattern(term)
	}
	return re.MatchString(lowered)
}

// Extract builds a Profile from resume text. Short or garbled text
// yields a low-confidence profile with empty skill lists.
func (e *Extractor) Extract(text string) Profile {
	lowered := strings.ToLower(text)

	skills := e.extractSkills(text, lowered)
	technologies := e.extractTechnologies(lowered)
	years := e.extractYears(text)
	category := e.classifyCategory(lowered, technologies)

	return Profile{
		Skills:            skills,
		Technologies:      technologies,
		ExperienceLevel:   levelForYears(years),
		YearsOfExperience: years,
		Category:          category,
		SummaryText:       summarize(text),
		RawText:           text,
	}
}

// ClassifyText classifies arbitrary text (typically job title plus
// description) into the same category set used for resumes.
func (e *Extractor) ClassifyText(text string) string {
	lowered := strings.ToLower(text)
	return e.classifyCategory(lowered, e.extractTechnologies(lowered))
}

// DetectSkills returns the dictionary skills mentioned in arbitrary
// text, without the phrase-pattern scan used for resumes.
func (e *Extractor) DetectSkills(text string) []string {
	lowered := strings.ToLower(text)
	seen := make(map[string]struct{})
	var out []string
	for _, term := range e.dict.TechnicalSkills {
		if _, ok := seen[term]; ok {
			continue
		}
		if e.contains(lowered, term) {
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	for _, term := range e.dict.SoftSkills {
		if _, ok := seen[term]; ok {
			continue
		}
		if e.contains(lowered, term) {
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	return out
}

// DetectTechnologies returns the dictionary technologies mentioned in
// arbitrary text.
func (e *Extractor) DetectTechnologies(text string) []string {
	return e.extractTechnologies(strings.ToLower(text))
}

func (e *Extractor) extractSkills(text, lowered string) []string {
	seen := make(map[string]struct{})
	var skills []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if len(s) < 2 || len(skills) >= maxSkills {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}

	for _, line := range strings.Split(text, "\n") {
		for _, re := range skillLinePatterns {
			if m := re.FindStringSubmatch(line); len(m) > 1 {
				for _, part := range skillSplit.Split(m[1], -1) {
					add(part)
				}
			}
		}
	}
	for _, term := range e.dict.TechnicalSkills {
		if e.contains(lowered, term) {
			add(term)
		}
	}
	for _, term := range e.dict.SoftSkills {
		if e.contains(lowered, term) {
			add(term)
		}
	}
	return skills
}

func (e *Extractor) extractTechnologies(lowered string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, term := range e.dict.Technologies {
		if _, ok := seen[term]; ok {
			continue
		}
		if e.contains(lowered, term) {
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	return out
}

func (e *Extractor) extractYears(text string) float64 {
	for _, re := range yearsPatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if years, err := strconv.Atoi(m[1]); err == nil {
				return float64(years)
			}
		}
	}
	entries := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > 90 {
			continue
		}
		if jobTitleLine.MatchString(line) {
			entries++
		}
	}
	years := float64(entries) * yearsPerEntry
	if years > maxFallbackYears {
		years = maxFallbackYears
	}
	return years
}

func levelForYears(years float64) string {
	switch {
	case years == 0:
		return LevelInternship
	case years < 2:
		return LevelJunior
	case years < 5:
		return LevelMid
	case years < 8:
		return LevelSenior
	default:
		return LevelLead
	}
}

// classifyCategory accumulates a weight per category and picks the argmax.
// Keyword hits weigh ×2, technology membership ×3, and free-text mentions
// of the category name ×1. A resume strong on both frontend and backend
// without an explicit fullstack keyword gets the fullstack boost.
func (e *Extractor) classifyCategory(lowered string, technologies []string) string {
	techSet := make(map[string]struct{}, len(technologies))
	for _, t := range technologies {
		techSet[t] = struct{}{}
	}

	weights := make(map[string]float64, len(e.dict.Categories))
	for name, profile := range e.dict.Categories {
		var w float64
		for _, kw := range profile.Keywords {
			if e.contains(lowered, kw) {
				w += 2
			}
		}
		for _, tech := range profile.Technologies {
			if _, ok := techSet[tech]; ok {
				w += 3
			}
		}
		if re, ok := e.catNames[name]; ok {
			w += float64(len(re.FindAllStringIndex(lowered, -1)))
		}
		weights[name] = w
	}

	explicitFullstack := false
	for _, kw := range e.dict.Categories[CategoryFullstack].Keywords {
		if e.contains(lowered, kw) {
			explicitFullstack = true
			break
		}
	}
	if !explicitFullstack &&
		weights[CategoryFrontend] > fullstackSideFloor &&
		weights[CategoryBackend] > fullstackSideFloor {
		weights[CategoryFullstack] += fullstackBoost
	}

	best, bestWeight := "", 0.0
	for name, w := range weights {
		if w > bestWeight || (w == bestWeight && name < best) {
			best, bestWeight = name, w
		}
	}
	if bestWeight >= categoryFloor {
		return best
	}
	return e.fallbackCategory(techSet)
}

// fallbackCategory is the low-signal heuristic: whichever of frontend,
// backend or data owns the most extracted technologies.
func (e *Extractor) fallbackCategory(techSet map[string]struct{}) string {
	best, bestCount := CategoryGeneral, 0
	for _, name := range []string{CategoryFrontend, CategoryBackend, CategoryData} {
		count := 0
		for _, tech := range e.dict.Categories[name].Technologies {
			if _, ok := techSet[tech]; ok {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = name, count
		}
	}
	return best
}

func summarize(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if len(collapsed) <= summaryLimit {
		return collapsed
	}
	cut := collapsed[:summaryLimit]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
