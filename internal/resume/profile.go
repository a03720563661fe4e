package resume

// Experience level buckets derived from years of experience.
const (
	LevelInternship = "Internship"
	LevelJunior     = "Junior"
	LevelMid        = "Mid"
	LevelSenior     = "Senior"
	LevelLead       = "Lead"
)

// Profile holds structured features extracted from resume text. A profile
// with empty Skills and Technologies is a low-confidence extraction, not
// an error; downstream matching then leans on semantic similarity alone.
type Profile struct {
	Skills            []string `json:"skills"`
	Technologies      []string `json:"technologies"`
	ExperienceLevel   string   `json:"experienceLevel"`
	YearsOfExperience float64  `json:"yearsOfExperience"`
	Category          string   `json:"category"`
	SummaryText       string   `json:"summaryText"`
	RawText           string   `json:"-"`
}

// LowConfidence reports whether extraction found no concrete signals.
func (p Profile) LowConfidence() bool {
	return len(p.Skills) == 0 && len(p.Technologies) == 0
}
