package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/embedding"
	"jobmatch-backend/internal/embedding/openai"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/match"
	"jobmatch-backend/internal/resume"
	"jobmatch-backend/internal/scrape"
	"jobmatch-backend/internal/services/health"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
	"jobmatch-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL,
			db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var jobRepo jobs.Repo
	if sqlDB != nil {
		jobRepo = &jobs.PGRepo{DB: sqlDB}
	} else {
		jobRepo = jobs.NewMemoryRepo()
	}

	keyer := scrape.NewKeyer()
	crawler := scrape.NewCrawler(
		scrape.NewHTTPFetcher(scrape.FetchOptions{}),
		scrape.NewExtractor(cfg.ScrapeSite),
		keyer,
		scrape.CrawlerConfig{
			Site:      cfg.ScrapeSite,
			BaseURL:   cfg.ScrapeBaseURL,
			PageDelay: cfg.ScrapePageDelay,
			MaxPages:  cfg.ScrapeMaxPages,
		},
	)
	tasks := scrape.NewTaskManager(crawler, &scrape.Ingestor{Repo: jobRepo, Keyer: keyer})

	profileExtractor := resume.NewExtractor(resume.DefaultDictionaries())

	var provider embedding.Provider = embedding.PlaceholderProvider{}
	if cfg.EmbeddingProvider == "openai" {
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.EmbeddingModel)
		if err != nil {
			log.Printf("embedding provider unavailable, semantic scores degrade to 0: %v", err)
		} else {
			provider = client
		}
	}
	ranker := match.NewRanker(match.NewSemanticScorer(provider), profileExtractor,
		match.DefaultWeights(), match.DefaultThresholds())

	healthSvc := health.NewService(sqlDB)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"SCRAPE": {Rate: 0.2, Burst: 2},
			"MATCH":  {Rate: 1, Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			switch {
			case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/scrapes":
				return "SCRAPE"
			case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/match":
				return "MATCH"
			default:
				return ""
			}
		},
	}))
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	scrape.NewHandler(tasks).RegisterRoutes(api)
	jobs.NewHandler(jobRepo).RegisterRoutes(api)
	match.NewHandler(profileExtractor, match.NewOrchestrator(ranker), jobRepo).RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
