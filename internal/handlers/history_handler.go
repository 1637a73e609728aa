package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pilot/internal/repositories"
	"alfredoptarigan/career-pilot/internal/services"
)

const historyPageSize = 50

type HistoryHandler struct {
	analyses repositories.AnalysisRepository
}

func NewHistoryHandler(analyses repositories.AnalysisRepository) *HistoryHandler {
	return &HistoryHandler{analyses: analyses}
}

// HandleMine handles GET /history, newest first.
func (h *HistoryHandler) HandleMine(c *fiber.Ctx) error {
	principal := PrincipalFrom(c)
	if principal == nil {
		return services.ErrUnauthorized
	}

	records, err := h.analyses.FindByUser(c.UserContext(), principal.UserID, historyPageSize)
	if err != nil {
		return err
	}
	return c.JSON(records)
}
