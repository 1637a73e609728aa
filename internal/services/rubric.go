package services

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/career-pilot/internal/models"
)

//go:embed rubric.yaml
var defaultRubric []byte

// RubricStepKeys is the required order of the scoring steps.
var RubricStepKeys = []string{
	"requirements",
	"resume_skills",
	"equivalency",
	"project_quality",
	"weighted_score",
	"multipliers",
	"status",
}

type Rubric struct {
	Version       int             `yaml:"version"`
	Persona       string          `yaml:"persona"`
	Harshness     string          `yaml:"harshness"`
	Steps         []RubricStep    `yaml:"steps"`
	Weights       RubricWeights   `yaml:"weights"`
	Equivalencies []Equivalency   `yaml:"equivalencies"`
	Thresholds    Thresholds      `yaml:"thresholds"`
	Interview     InterviewRubric `yaml:"interview"`
	Transcription string          `yaml:"transcription"`
}

type RubricStep struct {
	Key          string   `yaml:"key"`
	Title        string   `yaml:"title"`
	Instructions []string `yaml:"instructions"`
}

type RubricWeights struct {
	Core           float64 `yaml:"core"`
	Preferred      float64 `yaml:"preferred"`
	ProjectQuality float64 `yaml:"projectQuality"`
}

type Equivalency struct {
	Specific string `yaml:"specific"`
	General  string `yaml:"general"`
}

type Thresholds struct {
	Approved         int `yaml:"approved"`
	NeedsImprovement int `yaml:"needsImprovement"`
}

type InterviewRubric struct {
	QuestionCount int      `yaml:"questionCount"`
	Persona       string   `yaml:"persona"`
	Difficulty    []string `yaml:"difficulty"`
	Evaluator     string   `yaml:"evaluator"`
	ScoreMin      int      `yaml:"scoreMin"`
	ScoreMax      int      `yaml:"scoreMax"`
}

// DefaultRubric returns the rubric compiled into the binary.
func DefaultRubric() (*Rubric, error) {
	return ParseRubric(defaultRubric)
}

func ParseRubric(data []byte) (*Rubric, error) {
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse rubric: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that the rubric agrees with the local status mapper and
// keeps the scoring steps in order.
func (r *Rubric) Validate() error {
	if r.Persona == "" {
		return fmt.Errorf("rubric v%d: persona is required", r.Version)
	}

	if len(r.Steps) != len(RubricStepKeys) {
		return fmt.Errorf("rubric v%d: expected %d steps, got %d", r.Version, len(RubricStepKeys), len(r.Steps))
	}
	for i, step := range r.Steps {
		if step.Key != RubricStepKeys[i] {
			return fmt.Errorf("rubric v%d: step %d must be %q, got %q", r.Version, i+1, RubricStepKeys[i], step.Key)
		}
	}

	sum := r.Weights.Core + r.Weights.Preferred + r.Weights.ProjectQuality
	if math.Abs(sum-1) > 0.001 {
		return fmt.Errorf("rubric v%d: weights must sum to 1, got %.3f", r.Version, sum)
	}
	if r.Weights.Core <= r.Weights.Preferred || r.Weights.Core <= r.Weights.ProjectQuality {
		return fmt.Errorf("rubric v%d: core requirements must carry the largest weight", r.Version)
	}

	if r.Thresholds.Approved != models.ApprovedThreshold || r.Thresholds.NeedsImprovement != models.NeedsImprovementThreshold {
		return fmt.Errorf("rubric v%d: thresholds %d/%d disagree with status mapper %d/%d",
			r.Version, r.Thresholds.Approved, r.Thresholds.NeedsImprovement,
			models.ApprovedThreshold, models.NeedsImprovementThreshold)
	}

	if r.Interview.QuestionCount != len(r.Interview.Difficulty) {
		return fmt.Errorf("rubric v%d: %d questions but %d difficulty levels", r.Version, r.Interview.QuestionCount, len(r.Interview.Difficulty))
	}
	if r.Interview.ScoreMin < 1 || r.Interview.ScoreMax <= r.Interview.ScoreMin {
		return fmt.Errorf("rubric v%d: invalid interview score range %d..%d", r.Version, r.Interview.ScoreMin, r.Interview.ScoreMax)
	}

	return nil
}
