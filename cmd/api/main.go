package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/config"
	"alfredoptarigan/career-pilot/internal/handlers"
	"alfredoptarigan/career-pilot/internal/repositories"
	"alfredoptarigan/career-pilot/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := config.NewLogger(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	if cfg.Auth.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			log.Fatal("JWT_SECRET is required outside development")
		}
		cfg.Auth.JWTSecret = uuid.NewString()
		log.Warn("JWT_SECRET not set, using an ephemeral secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)

	rubric, err := services.DefaultRubric()
	if err != nil {
		log.Fatal("failed to load rubric", zap.Error(err))
	}
	log.Info("rubric loaded", zap.Int("version", rubric.Version))

	gemini, err := services.NewGeminiClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Fatal("failed to initialize Gemini", zap.Error(err))
	}

	var (
		jobIndex services.JobIndex
		embedder services.Embedder
	)
	if cfg.Qdrant.URL != "" {
		jobIndex, err = services.NewJobIndex(cfg.Qdrant, log)
		if err != nil {
			log.Fatal("failed to initialize Qdrant", zap.Error(err))
		}
		defer jobIndex.Close()

		if err := jobIndex.InitCollection(ctx); err != nil {
			log.Fatal("failed to initialize Qdrant collection", zap.Error(err))
		}
		embedder = gemini
	} else {
		log.Info("qdrant not configured, job recommendations disabled")
	}

	publisher, err := services.NewEventPublisher(cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal("failed to initialize event publisher", zap.Error(err))
	}
	defer publisher.Close()

	extractor := services.NewResumeExtractor(cfg.Analysis.MaxResumeBytes, cfg.Analysis.MaxResumePages)
	prompts := services.NewPromptBuilder(rubric)
	analysisService := services.NewAnalysisService(extractor, prompts, gemini, log)
	interviewService := services.NewInterviewService(prompts, gemini, log)
	agent := services.NewCareerAgent(analysisService, interviewService, gemini, log)
	jobService := services.NewJobService(jobRepo, jobIndex, embedder, log)
	authService := services.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.ExpirationHours)*time.Hour,
		cfg.Auth.BcryptCost,
		log,
	)

	if _, err := jobService.SeedBuiltIns(ctx); err != nil {
		log.Fatal("failed to seed built-in jobs", zap.Error(err))
	}
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal("failed to bootstrap admin user", zap.Error(err))
	}

	recorder := services.NewHistoryRecorder(analysisRepo, publisher, cfg.History.QueueSize, cfg.History.Workers, log)
	recorder.Start(context.WithoutCancel(ctx))

	app := fiber.New(fiber.Config{
		AppName:      "CareerPilot AI API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout*2 + 30*time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Analyze:   handlers.NewAnalyzeHandler(analysisService, jobService, recorder, cfg.Analysis.MaxResumeBytes, log),
		Agent:     handlers.NewAgentHandler(agent, jobService, log),
		Jobs:      handlers.NewJobHandler(jobService),
		Interview: handlers.NewInterviewHandler(interviewService, jobService),
		History:   handlers.NewHistoryHandler(analysisRepo),
		Admin:     handlers.NewAdminHandler(userRepo, analysisRepo, log),
	}, authService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CareerPilot AI API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/analyze",
				"POST /api/agent",
				"GET /api/jobs",
				"POST /api/interview/questions",
				"POST /api/interview/evaluate",
			},
		})
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Error("server stopped", zap.Error(err))
	}

	recorder.Stop()
}
