package resume

// Dictionaries is the versioned keyword configuration consumed by the
// extractor. Defaults live here rather than in branches so a caller can
// swap in a tuned set without touching the extraction code.
type Dictionaries struct {
	Version         string
	TechnicalSkills []string
	SoftSkills      []string
	Technologies    []string
	Categories      map[string]CategoryProfile
}

// CategoryProfile drives category classification: keyword hits weigh ×2,
// technology-list membership ×3 and free-text mentions of the category
// name ×1.
type CategoryProfile struct {
	Keywords     []string
	Technologies []string
}

// Category names. "general" is the fallback when nothing scores.
const (
	CategoryData          = "data"
	CategoryFrontend      = "frontend"
	CategoryBackend       = "backend"
	CategoryFullstack     = "fullstack"
	CategoryMobile        = "mobile"
	CategoryDevops        = "devops"
	CategoryCloud         = "cloud"
	CategoryCybersecurity = "cybersecurity"
	CategoryGeneral       = "general"
)

func DefaultDictionaries() Dictionaries {
	return Dictionaries{
		Version: "2024-06",
		TechnicalSkills: []string{
			"api design", "rest apis", "graphql", "microservices", "unit testing",
			"integration testing", "ci/cd", "agile", "scrum", "tdd", "debugging",
			"code review", "data modeling", "etl", "machine learning", "data analysis",
			"responsive design", "accessibility", "performance tuning", "system design",
			"distributed systems", "caching", "message queues", "observability",
		},
		SoftSkills: []string{
			"communication", "teamwork", "leadership", "problem solving",
			"mentoring", "stakeholder management", "time management", "collaboration",
		},
		Technologies: []string{
			// languages
			"go", "golang", "python", "javascript", "typescript", "java", "c#",
			"c++", "ruby", "php", "kotlin", "swift", "rust", "scala", "sql",
			// frameworks
			"react", "angular", "vue", "svelte", "next.js", "node", "node.js",
			"express", "django", "flask", "spring", "rails", ".net", "laravel",
			"gin", "fastapi", "flutter", "react native",
			// data stores
			"postgresql", "postgres", "mysql", "mongodb", "redis", "elasticsearch",
			"sqlite", "dynamodb", "cassandra", "kafka", "rabbitmq", "snowflake",
			"bigquery", "spark", "airflow", "dbt",
			// cloud / infra
			"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible",
			"jenkins", "github actions", "gitlab ci", "prometheus", "grafana",
			"linux", "nginx", "serverless", "lambda",
			// tools
			"git", "jira", "figma", "webpack", "vite", "pandas", "numpy",
			"tensorflow", "pytorch", "scikit-learn", "tableau", "power bi",
		},
		Categories: map[string]CategoryProfile{
			CategoryData: {
				Keywords: []string{
					"data engineer", "data scientist", "data analyst", "data pipeline",
					"etl", "data warehouse", "analytics", "machine learning", "statistics",
				},
				Technologies: []string{
					"pandas", "numpy", "spark", "airflow", "dbt", "snowflake",
					"bigquery", "tensorflow", "pytorch", "scikit-learn", "tableau",
					"power bi", "sql",
				},
			},
			CategoryFrontend: {
				Keywords: []string{
					"frontend", "front-end", "front end", "ui developer", "web developer",
					"responsive design", "user interface", "spa", "component library",
				},
				Technologies: []string{
					"react", "angular", "vue", "svelte", "next.js", "javascript",
					"typescript", "webpack", "vite", "figma",
				},
			},
			CategoryBackend: {
				Keywords: []string{
					"backend", "back-end", "back end", "server-side", "api development",
					"microservices", "distributed systems", "rest apis",
				},
				Technologies: []string{
					"go", "golang", "java", "c#", "python", "node", "node.js",
					"express", "django", "flask", "spring", "rails", ".net", "gin",
					"fastapi", "postgresql", "postgres", "mysql", "mongodb", "redis",
					"kafka", "rabbitmq",
				},
			},
			CategoryFullstack: {
				Keywords: []string{
					"fullstack", "full-stack", "full stack",
				},
				Technologies: []string{
					"react", "node", "node.js", "typescript", "next.js", "django",
					"rails", "laravel",
				},
			},
			CategoryMobile: {
				Keywords: []string{
					"mobile developer", "ios", "android", "mobile app", "app store",
				},
				Technologies: []string{
					"swift", "kotlin", "flutter", "react native",
				},
			},
			CategoryDevops: {
				Keywords: []string{
					"devops", "sre", "site reliability", "infrastructure", "ci/cd",
					"deployment", "automation", "observability",
				},
				Technologies: []string{
					"docker", "kubernetes", "terraform", "ansible", "jenkins",
					"github actions", "gitlab ci", "prometheus", "grafana", "linux",
					"nginx",
				},
			},
			CategoryCloud: {
				Keywords: []string{
					"cloud engineer", "cloud architect", "cloud native", "cloud migration",
				},
				Technologies: []string{
					"aws", "azure", "gcp", "serverless", "lambda", "terraform",
					"kubernetes",
				},
			},
			CategoryCybersecurity: {
				Keywords: []string{
					"security engineer", "cybersecurity", "penetration testing",
					"vulnerability", "incident response", "threat", "soc analyst",
					"application security",
				},
				Technologies: []string{
					"linux",
				},
			},
		},
	}
}
