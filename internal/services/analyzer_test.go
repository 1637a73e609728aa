package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
)

const sampleJD = "Backend Developer. Core: Go, PostgreSQL, REST APIs. Preferred: Kafka."

func newTestAnalysisService(t *testing.T, llm LLMClient) *AnalysisService {
	t.Helper()
	return NewAnalysisService(
		NewResumeExtractor(1<<20, 10),
		NewPromptBuilder(testRubric(t)),
		llm,
		zap.NewNop(),
	)
}

func TestAnalyze_LocalStatusOverridesModel(t *testing.T) {
	llm := newStubLLM(textReply(`{
		"matchScore": 82,
		"scoreRationale": "Strong Go and PostgreSQL coverage.",
		"matchingSkills": ["Go", "PostgreSQL"],
		"missingSkills": ["Kafka"],
		"impliedSkills": "Built REST APIs -> implies API design.",
		"status": "Needs Improvement"
	}`))
	svc := newTestAnalysisService(t, llm)

	result, err := svc.Analyze(context.Background(), sampleJD, ResumeFile{
		Name:        "jane.pdf",
		ContentType: "application/pdf",
		Data:        buildPDF("Jane Doe", "Go PostgreSQL REST"),
	})
	require.NoError(t, err)

	assert.Equal(t, 82, result.MatchScore)
	assert.Equal(t, models.StatusApproved, result.Status)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, result.MatchingSkills)
	assert.Equal(t, []string{"Kafka"}, result.MissingSkills)
	assert.Equal(t, 1, llm.CallCount())

	call := llm.LastCall()
	assert.Same(t, AnalysisContract, call.Contract)
	assert.Contains(t, call.Prompt, "Jane Doe Go PostgreSQL REST")
	assert.Contains(t, call.Prompt, sampleJD)
}

func TestAnalyze_UnreadableResumeSkipsModel(t *testing.T) {
	llm := newStubLLM(textReply(`{}`))
	svc := newTestAnalysisService(t, llm)

	_, err := svc.Analyze(context.Background(), sampleJD, ResumeFile{
		Name:        "broken.pdf",
		ContentType: "application/pdf",
		Data:        []byte("definitely not a pdf, just some bytes pretending to be one"),
	})

	assert.ErrorIs(t, err, ErrResumeUnreadable)
	assert.Equal(t, 0, llm.CallCount())
}

func TestAnalyze_EmptyResumeStillScored(t *testing.T) {
	llm := newStubLLM(textReply(`{"matchScore": 3, "scoreRationale": "No content.", "matchingSkills": [], "missingSkills": ["Go"], "impliedSkills": ""}`))
	svc := newTestAnalysisService(t, llm)

	result, err := svc.Analyze(context.Background(), sampleJD, ResumeFile{Name: "scan.pdf", Data: buildPDF("")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotAMatch, result.Status)
	assert.Equal(t, 1, llm.CallCount())
}

func TestAnalyzeText_MissingScoreIsMalformed(t *testing.T) {
	llm := newStubLLM(textReply(`{"scoreRationale": "ok", "matchingSkills": [], "missingSkills": [], "impliedSkills": "", "status": "Approved"}`))
	svc := newTestAnalysisService(t, llm)

	_, err := svc.AnalyzeText(context.Background(), sampleJD, "Go developer")

	assert.ErrorIs(t, err, ErrMalformedModelOutput)
	// schema failures are not retried
	assert.Equal(t, 1, llm.CallCount())
}

func TestAnalyzeText_ModelFailure(t *testing.T) {
	llm := newStubLLM(errReply(errors.New("connection reset by peer")))
	svc := newTestAnalysisService(t, llm)

	_, err := svc.AnalyzeText(context.Background(), sampleJD, "Go developer")

	assert.ErrorIs(t, err, ErrModelCallFailed)
	assert.NotErrorIs(t, err, ErrMalformedModelOutput)
}

func TestAnalyzeText_RequiresJobDescription(t *testing.T) {
	llm := newStubLLM(textReply(`{}`))
	svc := newTestAnalysisService(t, llm)

	_, err := svc.AnalyzeText(context.Background(), "   ", "Go developer")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, llm.CallCount())
}

func TestFinalizeResult_SkillsUniqueAndDisjoint(t *testing.T) {
	result := &models.AnalysisResult{
		MatchScore:     74,
		MatchingSkills: []string{"Go", " go ", "PostgreSQL", "", "REST  APIs"},
		MissingSkills:  []string{"Kafka", "postgresql", "kafka", "rest apis", "Docker"},
		Status:         models.StatusApproved,
	}

	finalizeResult(result)

	assert.Equal(t, []string{"Go", "PostgreSQL", "REST  APIs"}, result.MatchingSkills)
	assert.Equal(t, []string{"Kafka", "Docker"}, result.MissingSkills)
	assert.Equal(t, models.StatusNeedsImprovement, result.Status)

	matched := map[string]bool{}
	for _, s := range result.MatchingSkills {
		matched[skillKey(s)] = true
	}
	for _, s := range result.MissingSkills {
		assert.False(t, matched[skillKey(s)], "%q is both matching and missing", s)
	}
}
