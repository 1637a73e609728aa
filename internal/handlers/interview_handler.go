package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pilot/internal/models"
)

type Interviewer interface {
	GenerateQuestions(ctx context.Context, jobDescription string) (*models.InterviewQuestionSet, error)
	EvaluateAnswer(ctx context.Context, jobDescription, question, userAnswer string) (*models.AnswerEvaluation, error)
	Transcribe(ctx context.Context, spokenAnswer string) (string, error)
}

type InterviewHandler struct {
	interviewer Interviewer
	jobs        JobResolver
}

func NewInterviewHandler(interviewer Interviewer, jobs JobResolver) *InterviewHandler {
	return &InterviewHandler{
		interviewer: interviewer,
		jobs:        jobs,
	}
}

// HandleQuestions handles POST /interview/questions
func (h *InterviewHandler) HandleQuestions(c *fiber.Ctx) error {
	var req models.QuestionsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	jobDescription, _, err := h.jobs.ResolveDescription(c.UserContext(), req.JobDescription, req.JobID)
	if err != nil {
		return err
	}

	set, err := h.interviewer.GenerateQuestions(c.UserContext(), jobDescription)
	if err != nil {
		return err
	}
	return c.JSON(set)
}

// HandleEvaluate handles POST /interview/evaluate
func (h *InterviewHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateAnswerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	jobDescription, _, err := h.jobs.ResolveDescription(c.UserContext(), req.JobDescription, req.JobID)
	if err != nil {
		return err
	}

	eval, err := h.interviewer.EvaluateAnswer(c.UserContext(), jobDescription, req.Question, req.UserAnswer)
	if err != nil {
		return err
	}
	return c.JSON(eval)
}

// HandleTranscribe handles POST /interview/transcribe
func (h *InterviewHandler) HandleTranscribe(c *fiber.Ctx) error {
	var req models.TranscribeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	transcription, err := h.interviewer.Transcribe(c.UserContext(), req.SpokenAnswer)
	if err != nil {
		return err
	}
	return c.JSON(models.TranscribeResponse{Transcription: transcription})
}
