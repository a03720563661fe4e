package main

// Run a crawl session from the command line:
//   go run ./cmd/crawler -query "golang developer" -location "Berlin" -pages 3
//
// Without DATABASE_URL the results land in an in-memory store and are
// printed instead of persisted, which is useful for selector debugging.

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/scrape"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/storage/db"
)

func main() {
	query := flag.String("query", "", "search query (required)")
	location := flag.String("location", "", "search location")
	pages := flag.Int("pages", 0, "max pages to fetch (0 uses the configured default)")
	dryRun := flag.Bool("dry-run", false, "skip persistence and print extracted listings")
	flag.Parse()

	if *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, cleanup := openRepo(ctx, cfg, *dryRun)
	defer cleanup()

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

	listings, result, err := crawler.Scrape(ctx, *query, *location, *pages)
	if err != nil {
		log.Printf("crawl ended early: %v", err)
	}
	log.Printf("crawl done: pages=%d extracted=%d duplicates=%d",
		result.PagesFetched, result.Extracted, result.Duplicates)

	if *dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, listing := range listings {
			if err := enc.Encode(listing); err != nil {
				log.Fatalf("encode listing: %v", err)
			}
		}
		return
	}

	ingestor := &scrape.Ingestor{Repo: repo, Keyer: keyer}
	ingest, err := ingestor.Ingest(context.WithoutCancel(ctx), listings)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
	log.Printf("ingest done: inserted=%d updated=%d sources=%d skipped=%d",
		ingest.Inserted, ingest.Updated, ingest.SourcesAdded, ingest.Skipped)
}

func openRepo(ctx context.Context, cfg config.Config, dryRun bool) (jobs.Repo, func()) {
	if dryRun || cfg.DatabaseURL == "" {
		if !dryRun {
			log.Printf("DATABASE_URL not set, using in-memory store")
		}
		return jobs.NewMemoryRepo(), func() {}
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	return &jobs.PGRepo{DB: sqlDB}, func() { sqlDB.Close() }
}
