package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
)

// QuestionGenerator produces the practice interview for a job description.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, jobDescription string) (*models.InterviewQuestionSet, error)
}

type InterviewService struct {
	prompts *PromptBuilder
	llm     LLMClient
	log     *zap.Logger
}

func NewInterviewService(prompts *PromptBuilder, llm LLMClient, log *zap.Logger) *InterviewService {
	return &InterviewService{
		prompts: prompts,
		llm:     llm,
		log:     log.Named("interview"),
	}
}

// GenerateQuestions returns exactly five questions, easiest first.
func (s *InterviewService) GenerateQuestions(ctx context.Context, jobDescription string) (*models.InterviewQuestionSet, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}

	resp, err := s.llm.Generate(ctx, GenerateRequest{
		Prompt:      s.prompts.BuildQuestionsPrompt(jobDescription),
		Contract:    QuestionsContract,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, wrapModelErr(err)
	}

	var set models.InterviewQuestionSet
	if err := QuestionsContract.Decode(resp.Text, &set); err != nil {
		s.log.Warn("question set rejected", zap.Error(err))
		return nil, err
	}

	for i, q := range set.Questions {
		set.Questions[i] = strings.TrimSpace(q)
		if set.Questions[i] == "" {
			return nil, &ValidationError{
				Contract: QuestionsContract.Name,
				Errors:   []FieldError{{Field: fmt.Sprintf("questions.%d", i), Message: "question is blank"}},
			}
		}
	}

	return &set, nil
}

// EvaluateAnswer scores a single answer. The score always comes from the
// model; any failure surfaces as ErrEvaluationFailed.
func (s *InterviewService) EvaluateAnswer(ctx context.Context, jobDescription, question, userAnswer string) (*models.AnswerEvaluation, error) {
	resp, err := s.llm.Generate(ctx, GenerateRequest{
		Prompt:      s.prompts.BuildEvaluationPrompt(jobDescription, question, userAnswer),
		Contract:    EvaluationContract,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvaluationFailed, err)
	}

	var eval models.AnswerEvaluation
	if err := EvaluationContract.Decode(resp.Text, &eval); err != nil {
		s.log.Warn("answer evaluation rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrEvaluationFailed, err)
	}

	eval.Feedback = strings.TrimSpace(eval.Feedback)
	return &eval, nil
}

// Transcribe produces a mock transcription of a spoken answer.
func (s *InterviewService) Transcribe(ctx context.Context, spokenAnswer string) (string, error) {
	resp, err := s.llm.Generate(ctx, GenerateRequest{
		Prompt:      s.prompts.BuildTranscriptionPrompt(spokenAnswer),
		Contract:    TranscriptionContract,
		Temperature: 0.9,
	})
	if err != nil {
		return "", wrapModelErr(err)
	}

	var out models.TranscribeResponse
	if err := TranscriptionContract.Decode(resp.Text, &out); err != nil {
		return "", err
	}
	return out.Transcription, nil
}

