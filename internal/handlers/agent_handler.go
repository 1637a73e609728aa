package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
	"alfredoptarigan/career-pilot/internal/services"
)

type ChatAgent interface {
	Respond(ctx context.Context, history []models.ConversationTurn, prompt string) (string, error)
}

type AgentHandler struct {
	agent ChatAgent
	jobs  JobResolver
	log   *zap.Logger
}

func NewAgentHandler(agent ChatAgent, jobs JobResolver, log *zap.Logger) *AgentHandler {
	return &AgentHandler{
		agent: agent,
		jobs:  jobs,
		log:   log.Named("agent"),
	}
}

// HandleAgent handles POST /agent. The client round-trips the history.
func (h *AgentHandler) HandleAgent(c *fiber.Ctx) error {
	var req models.AgentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	prompt := req.Prompt
	if req.JobID != "" {
		jobDescription, _, err := h.jobs.ResolveDescription(c.UserContext(), "", req.JobID)
		if err != nil {
			return err
		}
		prompt = services.LabelledPrompt(jobDescription, req.ResumeText)
	}

	response, err := h.agent.Respond(c.UserContext(), req.History, prompt)
	if err != nil {
		return err
	}

	return c.JSON(models.AgentResponse{Response: response})
}
