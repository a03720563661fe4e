package scrape

import (
	"testing"

	"jobmatch-backend/internal/jobs"
)

func TestInferWorkMode(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Senior Go Developer - fully remote", jobs.WorkModeRemote},
		{"Backend Developer (WFH available)", jobs.WorkModeRemote},
		{"Platform Engineer, hybrid 2 days in office", jobs.WorkModeHybrid},
		{"Warehouse systems engineer", jobs.WorkModeOnSite},
	}
	for _, tc := range cases {
		if got := InferWorkMode(tc.text); got != tc.want {
			t.Errorf("InferWorkMode(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestInferExperienceLevel(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Senior Backend Developer", jobs.LevelSenior},
		{"Engineering Lead - payments", jobs.LevelSenior},
		{"Principal Engineer", jobs.LevelSenior},
		{"Graduate Software Engineer", jobs.LevelJunior},
		{"Software Engineer", jobs.LevelMid},
	}
	for _, tc := range cases {
		if got := InferExperienceLevel(tc.text); got != tc.want {
			t.Errorf("InferExperienceLevel(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
