package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/repositories"
	"alfredoptarigan/career-pilot/internal/services"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	users    repositories.UserRepository
	analyses repositories.AnalysisRepository
	log      *zap.Logger
}

func NewAdminHandler(users repositories.UserRepository, analyses repositories.AnalysisRepository, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		users:    users,
		analyses: analyses,
		log:      log.Named("admin"),
	}
}

// HandleListUsers handles GET /admin/users
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListSummaries(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// HandleExportAnalyses handles GET /admin/analyses/export
func (h *AdminHandler) HandleExportAnalyses(c *fiber.Ctx) error {
	records, err := h.analyses.FindAll(c.UserContext(), 0)
	if err != nil {
		return err
	}

	data, err := services.ExportAnalyses(records)
	if err != nil {
		return err
	}

	h.log.Info("analysis history exported", zap.Int("rows", len(records)))

	c.Set(fiber.HeaderContentType, mimeXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="analyses-%s.xlsx"`, time.Now().UTC().Format("20060102")))
	return c.Send(data)
}
