package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nmarzin/gourmand/internal/config"
	"github.com/nmarzin/gourmand/internal/fetch"
	"github.com/nmarzin/gourmand/internal/ingest"
	"github.com/nmarzin/gourmand/internal/logger"
	"github.com/nmarzin/gourmand/internal/nutrition"
	"github.com/nmarzin/gourmand/internal/repository"
	"github.com/nmarzin/gourmand/internal/scrape"
	"github.com/nmarzin/gourmand/internal/translate"
	"github.com/nmarzin/gourmand/internal/wikidata"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "gourmand-ingest",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Parse command line flags
	pipeline := flag.String("pipeline", "all", "Pipeline to run: recipes, enrich, sandwiches, wikidata or all")
	csvPath := flag.String("csv", "", "Sandwich CSV path (overrides config)")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	if *csvPath == "" {
		*csvPath = cfg.Sandwich.CSVPath
	}

	appLogger.WithFields(logger.Fields{
		"pipeline": *pipeline,
	}).Info("Starting ingestion")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	// The wikidata pipeline only talks to the SPARQL endpoint and the
	// filesystem, so it skips database setup entirely.
	if *pipeline == "wikidata" {
		runWikidata(ctx, cfg, *csvPath)
		return
	}

	// Initialize databases
	mongoClient, err := repository.InitMongo(ctx, &cfg.Mongo)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())

	db, err := repository.InitRelationalDB(&cfg.Relational)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize relational database")
	}

	// Initialize repositories and clients
	recipeRepo := repository.NewRecipeRepository(mongoClient, cfg.Mongo.Database)
	sandwichRepo := repository.NewSandwichRepository(mongoClient, cfg.Mongo.Database)
	foodRepo := repository.NewFoodRepository(db)

	fetcher := fetch.NewFetcher(&fetch.Config{
		Timeout:   cfg.Scraper.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
	})
	walker := scrape.NewWalker(fetcher, cfg.Scraper.MaxPages)

	translator := translate.NewClient(&translate.Config{
		BaseURL: cfg.Translate.BaseURL,
		APIKey:  cfg.Translate.APIKey,
		Timeout: cfg.Translate.Timeout,
	})

	nutrients := nutrition.NewClient(&nutrition.Config{
		BaseURL:     cfg.Nutrition.BaseURL,
		AccessToken: cfg.Nutrition.AccessToken,
		Timeout:     cfg.Nutrition.Timeout,
		MaxAttempts: cfg.Nutrition.MaxAttempts,
		Backoff:     cfg.Nutrition.Backoff,
	})

	orchestrator := ingest.New(ingest.Options{
		Recipes:    recipeRepo,
		Sandwiches: sandwichRepo,
		Foods:      foodRepo,
		Translator: translator,
		Nutrients:  nutrients,
		Source:     walker,
		Categories: cfg.Scraper.Categories,
		SourceLang: cfg.Translate.Source,
		TargetLang: cfg.Translate.Target,
		Pacing:     cfg.Nutrition.Pacing,
	})

	// Run the requested pipelines
	switch *pipeline {
	case "recipes":
		report("recipes", run(ctx, orchestrator.RunRecipes))
	case "enrich":
		report("enrich", run(ctx, orchestrator.RunEnrichment))
	case "sandwiches":
		report("sandwiches", runSandwiches(ctx, orchestrator, *csvPath))
	case "all":
		report("recipes", run(ctx, orchestrator.RunRecipes))
		report("enrich", run(ctx, orchestrator.RunEnrichment))
		report("sandwiches", runSandwiches(ctx, orchestrator, *csvPath))
	default:
		appLogger.WithField("pipeline", *pipeline).Fatal("Unknown pipeline")
	}
}

func run(ctx context.Context, pipeline func(context.Context) (*ingest.Stats, error)) *ingest.Stats {
	stats, err := pipeline(ctx)
	if err != nil {
		logger.CtxError(ctx, "Pipeline failed: %v", err)
	}
	return stats
}

func runSandwiches(ctx context.Context, orchestrator *ingest.Orchestrator, csvPath string) *ingest.Stats {
	stats, err := orchestrator.RunSandwiches(ctx, csvPath)
	if err != nil {
		logger.CtxError(ctx, "Pipeline failed: %v", err)
	}
	return stats
}

func report(name string, stats *ingest.Stats) {
	if stats == nil {
		return
	}
	logger.GetDefault().WithFields(logger.Fields{
		"pipeline":  name,
		"processed": stats.Processed,
		"stored":    stats.Stored,
		"skipped":   stats.Skipped,
		"failed":    stats.Failed,
		"duration":  stats.Duration().String(),
	}).Info("Pipeline completed")
}

// runWikidata queries the sandwich-ingredient pairs and writes them as CSV,
// the file the sandwiches pipeline later folds into MongoDB.
func runWikidata(ctx context.Context, cfg *config.Config, csvPath string) {
	appLogger := logger.GetDefault()

	client := wikidata.NewClient(&wikidata.Config{
		Endpoint:  cfg.Wikidata.Endpoint,
		UserAgent: cfg.Wikidata.UserAgent,
		Timeout:   cfg.Wikidata.Timeout,
	})

	pairs, err := client.FetchSandwichIngredients(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to query Wikidata")
	}

	if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
		appLogger.WithError(err).Fatal("Failed to create output directory")
	}
	f, err := os.Create(csvPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create CSV file")
	}
	defer f.Close()

	if err := wikidata.WriteCSV(f, pairs); err != nil {
		appLogger.WithError(err).Fatal("Failed to write CSV file")
	}

	appLogger.WithFields(logger.Fields{
		"pairs": len(pairs),
		"path":  csvPath,
	}).Info("Wikidata export completed")
}
