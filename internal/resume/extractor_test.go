package resume

import (
	"fmt"
	"strings"
	"testing"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultDictionaries())
}

const frontendResume = `Jane Doe
Frontend Developer

Summary
Frontend developer with 4 years experience building single page applications.

Skills: React, TypeScript, CSS, communication

Experience
Frontend Developer at Acme (2021 - present)
Web Developer at Beta (2019 - 2021)

Built responsive design systems with React, Next.js and Vite.
`

func TestExtractFrontendResume(t *testing.T) {
	profile := newTestExtractor().Extract(frontendResume)

	if profile.Category != CategoryFrontend {
		t.Fatalf("expected frontend category, got %q", profile.Category)
	}
	if profile.YearsOfExperience != 4 {
		t.Fatalf("expected 4 years, got %v", profile.YearsOfExperience)
	}
	if profile.ExperienceLevel != LevelMid {
		t.Fatalf("expected Mid, got %q", profile.ExperienceLevel)
	}
	wantSkills := []string{"react", "typescript", "communication"}
	for _, want := range wantSkills {
		if !containsString(profile.Skills, want) {
			t.Fatalf("expected skill %q in %v", want, profile.Skills)
		}
	}
	for _, want := range []string{"react", "typescript", "next.js", "vite"} {
		if !containsString(profile.Technologies, want) {
			t.Fatalf("expected technology %q in %v", want, profile.Technologies)
		}
	}
	if profile.SummaryText == "" {
		t.Fatal("expected non-empty summary")
	}
}

func TestExtractYearsFallbackFromEntries(t *testing.T) {
	text := `John Smith
Software Engineer at Acme
Backend Developer at Beta
Systems Analyst at Gamma
`
	profile := newTestExtractor().Extract(text)
	// Three title-like lines at 2.5 years each.
	if profile.YearsOfExperience != 7.5 {
		t.Fatalf("expected 7.5 fallback years, got %v", profile.YearsOfExperience)
	}
	if profile.ExperienceLevel != LevelSenior {
		t.Fatalf("expected Senior, got %q", profile.ExperienceLevel)
	}
}

func TestExtractYearsFallbackCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("Resume\n")
	for i := 0; i < 10; i++ {
		b.WriteString("Software Engineer at Company\n")
	}
	profile := newTestExtractor().Extract(b.String())
	if profile.YearsOfExperience != 15 {
		t.Fatalf("expected capped 15 years, got %v", profile.YearsOfExperience)
	}
	if profile.ExperienceLevel != LevelLead {
		t.Fatalf("expected Lead, got %q", profile.ExperienceLevel)
	}
}

func TestLevelBuckets(t *testing.T) {
	cases := []struct {
		years float64
		want  string
	}{
		{0, LevelInternship},
		{1, LevelJunior},
		{2, LevelMid},
		{4.5, LevelMid},
		{5, LevelSenior},
		{7.9, LevelSenior},
		{8, LevelLead},
	}
	for _, tc := range cases {
		if got := levelForYears(tc.years); got != tc.want {
			t.Errorf("levelForYears(%v) = %q, want %q", tc.years, got, tc.want)
		}
	}
}

func TestFullstackBoostWithoutExplicitKeyword(t *testing.T) {
	text := `Developer with 6 years experience.
Frontend: React, TypeScript, Vue, Next.js, Vite
Backend: Go, PostgreSQL, Redis, Kafka, Django
Building backend microservices and frontend responsive design.
`
	profile := newTestExtractor().Extract(text)
	if profile.Category != CategoryFullstack {
		t.Fatalf("expected fullstack from combined signals, got %q", profile.Category)
	}
}

func TestShortTextYieldsLowConfidenceProfile(t *testing.T) {
	profile := newTestExtractor().Extract("qwerty asdf")
	if !profile.LowConfidence() {
		t.Fatalf("expected low-confidence profile, got %+v", profile)
	}
	if profile.Category != CategoryGeneral {
		t.Fatalf("expected general category, got %q", profile.Category)
	}
	if profile.ExperienceLevel != LevelInternship {
		t.Fatalf("expected Internship for zero years, got %q", profile.ExperienceLevel)
	}
}

func TestSkillCapAtThirty(t *testing.T) {
	var parts []string
	for i := 0; i < 45; i++ {
		parts = append(parts, fmt.Sprintf("skill%02d", i))
	}
	text := "Skills: " + strings.Join(parts, ", ")
	profile := newTestExtractor().Extract(text)
	if len(profile.Skills) != 30 {
		t.Fatalf("expected exactly 30 skills, got %d", len(profile.Skills))
	}
}

func TestSymbolTermsMatchOnBoundaries(t *testing.T) {
	profile := newTestExtractor().Extract("Worked with C# and Node.js daily. 3 years experience.")
	if !containsString(profile.Technologies, "c#") {
		t.Fatalf("expected c# detected, got %v", profile.Technologies)
	}
	if !containsString(profile.Technologies, "node.js") {
		t.Fatalf("expected node.js detected, got %v", profile.Technologies)
	}
	if containsString(profile.Technologies, "java") {
		t.Fatalf("java must not match from javascript-free text, got %v", profile.Technologies)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
