package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/config"
	"alfredoptarigan/career-pilot/internal/repositories"
	"alfredoptarigan/career-pilot/internal/services"
)

// Seeds the built-in job catalog and, when Qdrant is configured, embeds every
// stored job description for recommendations.
func main() {
	cfg := config.Load()

	log, err := config.NewLogger(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	var (
		jobIndex services.JobIndex
		embedder services.Embedder
	)
	if cfg.Qdrant.URL != "" {
		gemini, err := services.NewGeminiClient(ctx, cfg.Gemini, log)
		if err != nil {
			log.Fatal("failed to initialize Gemini", zap.Error(err))
		}

		jobIndex, err = services.NewJobIndex(cfg.Qdrant, log)
		if err != nil {
			log.Fatal("failed to initialize Qdrant", zap.Error(err))
		}
		defer jobIndex.Close()

		if err := jobIndex.InitCollection(ctx); err != nil {
			log.Fatal("failed to initialize collection", zap.Error(err))
		}
		embedder = gemini
	}

	jobService := services.NewJobService(repositories.NewJobRepository(db), jobIndex, embedder, log)

	created, err := jobService.SeedBuiltIns(ctx)
	if err != nil {
		log.Fatal("failed to seed built-in jobs", zap.Error(err))
	}

	indexed, err := jobService.IndexAll(ctx)
	if err != nil {
		log.Error("indexing stopped early", zap.Int("indexed", indexed), zap.Error(err))
		os.Exit(1)
	}

	log.Info("seeding completed",
		zap.Int("created", created),
		zap.Int("indexed", indexed),
		zap.Bool("recommendations", jobService.RecommendationsEnabled()),
	)
}
