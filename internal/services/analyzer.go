package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
)

// Analyzer scores résumé text against a job description.
type Analyzer interface {
	AnalyzeText(ctx context.Context, jobDescription, resume string) (*models.AnalysisResult, error)
}

type AnalysisService struct {
	extractor ResumeExtractor
	prompts   *PromptBuilder
	llm       LLMClient
	log       *zap.Logger
}

func NewAnalysisService(extractor ResumeExtractor, prompts *PromptBuilder, llm LLMClient, log *zap.Logger) *AnalysisService {
	return &AnalysisService{
		extractor: extractor,
		prompts:   prompts,
		llm:       llm,
		log:       log.Named("analysis"),
	}
}

// Analyze extracts the uploaded résumé and scores it. No model call is made
// when the file cannot be read.
func (s *AnalysisService) Analyze(ctx context.Context, jobDescription string, file ResumeFile) (*models.AnalysisResult, error) {
	resume, err := s.extractor.Extract(file)
	if err != nil {
		s.log.Info("résumé extraction failed", zap.String("file", file.Name), zap.Error(err))
		return nil, err
	}
	if resume == "" {
		s.log.Info("résumé has no extractable text", zap.String("file", file.Name))
	}

	return s.AnalyzeText(ctx, jobDescription, resume)
}

func (s *AnalysisService) AnalyzeText(ctx context.Context, jobDescription, resume string) (*models.AnalysisResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}

	prompt := s.prompts.BuildAnalysisPrompt(jobDescription, resume)

	resp, err := s.llm.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		Contract:    AnalysisContract,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, wrapModelErr(err)
	}

	var result models.AnalysisResult
	if err := AnalysisContract.Decode(resp.Text, &result); err != nil {
		s.log.Warn("model output rejected", zap.Error(err))
		return nil, err
	}

	finalizeResult(&result)

	s.log.Info("analysis completed",
		zap.Int("match_score", result.MatchScore),
		zap.String("status", string(result.Status)),
	)
	return &result, nil
}

// finalizeResult enforces skill uniqueness and disjointness and derives the
// status locally, discarding whatever the model reported.
func finalizeResult(result *models.AnalysisResult) {
	result.MatchingSkills = uniqueSkills(result.MatchingSkills, nil)

	matched := make(map[string]struct{}, len(result.MatchingSkills))
	for _, skill := range result.MatchingSkills {
		matched[skillKey(skill)] = struct{}{}
	}
	result.MissingSkills = uniqueSkills(result.MissingSkills, matched)

	result.ImpliedSkills = strings.TrimSpace(result.ImpliedSkills)
	result.Status = models.StatusFor(result.MatchScore)
}

func uniqueSkills(skills []string, exclude map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := skillKey(skill)
		if _, dup := seen[key]; dup {
			continue
		}
		if _, excluded := exclude[key]; excluded {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

func skillKey(skill string) string {
	return strings.ToLower(strings.Join(strings.Fields(skill), " "))
}
