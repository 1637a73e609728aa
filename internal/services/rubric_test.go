package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/career-pilot/internal/models"
)

func TestDefaultRubric_Structure(t *testing.T) {
	rubric := testRubric(t)

	keys := make([]string, 0, len(rubric.Steps))
	for _, step := range rubric.Steps {
		keys = append(keys, step.Key)
	}
	assert.Equal(t, RubricStepKeys, keys)

	assert.Equal(t, models.ApprovedThreshold, rubric.Thresholds.Approved)
	assert.Equal(t, models.NeedsImprovementThreshold, rubric.Thresholds.NeedsImprovement)
	assert.Greater(t, rubric.Weights.Core, rubric.Weights.Preferred)
	assert.NotEmpty(t, rubric.Equivalencies)
	assert.Equal(t, 5, rubric.Interview.QuestionCount)
	assert.Equal(t, 1, rubric.Interview.ScoreMin)
	assert.Equal(t, 10, rubric.Interview.ScoreMax)
}

func TestParseRubric_RejectsDrift(t *testing.T) {
	base := string(defaultRubric)

	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "threshold disagrees with status mapper",
			mutate:  func(s string) string { return strings.Replace(s, "approved: 75", "approved: 80", 1) },
			wantErr: "disagree with status mapper",
		},
		{
			name:    "weights do not sum to one",
			mutate:  func(s string) string { return strings.Replace(s, "core: 0.65", "core: 0.9", 1) },
			wantErr: "sum to 1",
		},
		{
			name:    "steps out of order",
			mutate:  func(s string) string { return strings.Replace(s, "key: resume_skills", "key: equivalency_first", 1) },
			wantErr: "step 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRubric([]byte(tt.mutate(base)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	pb := NewPromptBuilder(testRubric(t))
	jd := "Backend Developer\n  - Go, PostgreSQL (must)\n  - Kafka (nice to have)"
	resume := "Jane Doe. Built payment APIs in Go with PostgreSQL."

	prompt := pb.BuildAnalysisPrompt(jd, resume)

	// inputs are embedded verbatim
	assert.Contains(t, prompt, "Job Description:\n"+jd+"\n")
	assert.Contains(t, prompt, "Resume:\n"+resume+"\n")

	// steps appear in order
	last := -1
	for _, step := range pb.Rubric().Steps {
		idx := strings.Index(prompt, step.Title)
		require.GreaterOrEqual(t, idx, 0, step.Title)
		assert.Greater(t, idx, last, "step %q out of order", step.Title)
		last = idx
	}

	assert.Contains(t, prompt, "75-100 -> Approved")
	assert.Contains(t, prompt, "50-74 -> Needs Improvement")
	assert.Contains(t, prompt, "0-49 -> Not a Match")
	assert.Contains(t, prompt, "MongoDB counts toward NoSQL databases")
	assert.Contains(t, prompt, `"matchScore": <integer 0-100>`)

	assert.Equal(t, prompt, pb.BuildAnalysisPrompt(jd, resume), "prompt must be deterministic")
}

func TestBuildInterviewPrompts(t *testing.T) {
	pb := NewPromptBuilder(testRubric(t))

	questions := pb.BuildQuestionsPrompt("Data Analyst role")
	assert.Contains(t, questions, "exactly 5 interview questions")
	assert.Contains(t, questions, "- Question 1: A basic introductory or screening question.")
	assert.Contains(t, questions, "- Question 5:")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(questions), "Data Analyst role"))

	eval := pb.BuildEvaluationPrompt("Data Analyst role", "What is a JOIN?", "It combines tables")
	assert.Contains(t, eval, "Avoid being overly harsh for minor omissions")
	assert.Contains(t, eval, `"What is a JOIN?"`)
	assert.Contains(t, eval, `"It combines tables"`)
	assert.Contains(t, eval, "from 1 to 10")
}
