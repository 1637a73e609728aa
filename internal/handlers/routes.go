package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pilot/internal/models"
)

type Handlers struct {
	Auth      *AuthHandler
	Analyze   *AnalyzeHandler
	Agent     *AgentHandler
	Jobs      *JobHandler
	Interview *InterviewHandler
	History   *HistoryHandler
	Admin     *AdminHandler
}

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(app *fiber.App, h Handlers, auth TokenAuthenticator) {
	api := app.Group("/api", Authenticate(auth))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/auth/register", h.Auth.HandleRegister)
	api.Post("/auth/login", h.Auth.HandleLogin)

	api.Post("/analyze", h.Analyze.HandleAnalyze)
	api.Post("/agent", h.Agent.HandleAgent)

	api.Get("/jobs", h.Jobs.HandleList)
	api.Post("/jobs/recommend", h.Jobs.HandleRecommend)
	api.Get("/jobs/:id", h.Jobs.HandleGet)

	interview := api.Group("/interview")
	interview.Post("/questions", h.Interview.HandleQuestions)
	interview.Post("/evaluate", h.Interview.HandleEvaluate)
	interview.Post("/transcribe", h.Interview.HandleTranscribe)

	api.Get("/history", RequireAuth(), h.History.HandleMine)

	admin := api.Group("/admin", RequireRole(models.RoleAdmin))
	admin.Get("/users", h.Admin.HandleListUsers)
	admin.Post("/jobs", h.Jobs.HandleCreate)
	admin.Get("/analyses/export", h.Admin.HandleExportAnalyses)
}
