package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
	"alfredoptarigan/career-pilot/internal/services"
)

type ResumeAnalyzer interface {
	Analyze(ctx context.Context, jobDescription string, file services.ResumeFile) (*models.AnalysisResult, error)
	AnalyzeText(ctx context.Context, jobDescription, resume string) (*models.AnalysisResult, error)
}

// JobResolver turns literal text or a job id into job description text.
type JobResolver interface {
	ResolveDescription(ctx context.Context, text, jobID string) (string, *models.JobDescription, error)
}

type AnalyzeHandler struct {
	analyzer    ResumeAnalyzer
	jobs        JobResolver
	recorder    services.HistoryRecorder
	maxFileSize int64
	log         *zap.Logger
}

func NewAnalyzeHandler(
	analyzer ResumeAnalyzer,
	jobs JobResolver,
	recorder services.HistoryRecorder,
	maxFileSize int64,
	log *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		jobs:        jobs,
		recorder:    recorder,
		maxFileSize: maxFileSize,
		log:         log.Named("analyze"),
	}
}

// HandleAnalyze handles POST /analyze with either a JSON body carrying résumé
// text or a multipart upload in resumeFile.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return h.handleUpload(c)
	}

	var req models.AnalyzeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	jobDescription, job, err := h.jobs.ResolveDescription(c.UserContext(), req.JobDescription, req.JobID)
	if err != nil {
		return err
	}

	result, err := h.analyzer.AnalyzeText(c.UserContext(), jobDescription, req.Resume)
	if err != nil {
		return err
	}

	// text analyses have no file name; only signed-in callers get a record
	if principal := PrincipalFrom(c); principal != nil {
		h.recorder.Record(historyRecord(principal, "", job, result))
	}

	return c.JSON(result)
}

func (h *AnalyzeHandler) handleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resumeFile")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "resumeFile is required")
	}

	if fileHeader.Size > h.maxFileSize {
		return fmt.Errorf("%w: file too large, max size is %d bytes", services.ErrResumeUnreadable, h.maxFileSize)
	}

	req := models.AnalyzeRequest{
		JobDescription: c.FormValue("jobDescription"),
		JobID:          c.FormValue("jobId"),
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	jobDescription, job, err := h.jobs.ResolveDescription(c.UserContext(), req.JobDescription, req.JobID)
	if err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("%w: failed to open upload: %v", services.ErrResumeUnreadable, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return fmt.Errorf("%w: failed to read upload: %v", services.ErrResumeUnreadable, err)
	}

	result, err := h.analyzer.Analyze(c.UserContext(), jobDescription, services.ResumeFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(historyRecord(PrincipalFrom(c), fileHeader.Filename, job, result))

	return c.JSON(result)
}

func historyRecord(principal *models.Principal, fileName string, job *models.JobDescription, result *models.AnalysisResult) *models.AnalysisHistory {
	record := &models.AnalysisHistory{
		ResumeFileName: fileName,
		JobTitle:       "Custom job description",
		MatchScore:     result.MatchScore,
		Status:         result.Status,
		MatchingSkills: result.MatchingSkills,
		MissingSkills:  result.MissingSkills,
	}
	if principal != nil {
		userID := principal.UserID
		record.UserID = &userID
	}
	if job != nil {
		jobID := job.ID
		record.JobDescriptionID = &jobID
		record.JobTitle = job.Title
	}
	return record
}
