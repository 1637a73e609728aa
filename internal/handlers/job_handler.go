package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pilot/internal/models"
)

type JobCatalog interface {
	List(ctx context.Context) ([]models.JobDescription, error)
	Get(ctx context.Context, id string) (*models.JobDescription, error)
	Create(ctx context.Context, req models.CreateJobRequest) (*models.JobDescription, error)
	Recommend(ctx context.Context, resume string, limit int) ([]models.JobRecommendation, error)
}

type JobHandler struct {
	jobs JobCatalog
}

func NewJobHandler(jobs JobCatalog) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobs.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	job, err := h.jobs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(job)
}

// HandleCreate handles POST /admin/jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleRecommend handles POST /jobs/recommend
func (h *JobHandler) HandleRecommend(c *fiber.Ctx) error {
	var req models.RecommendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	recommendations, err := h.jobs.Recommend(c.UserContext(), req.Resume, req.Limit)
	if err != nil {
		return err
	}
	return c.JSON(recommendations)
}
