package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every place a model response broke its contract.
type ValidationError struct {
	Contract string
	Errors   []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s:", ErrMalformedModelOutput, ve.Contract))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

func (ve *ValidationError) Is(target error) bool {
	return target == ErrMalformedModelOutput
}

// OutputContract is a JSON schema shared by the model request and the local
// validation of its answer.
type OutputContract struct {
	Name   string
	Schema map[string]any
	loader gojsonschema.JSONLoader
}

func NewOutputContract(name string, schema map[string]any) *OutputContract {
	return &OutputContract{
		Name:   name,
		Schema: schema,
		loader: gojsonschema.NewGoLoader(schema),
	}
}

// Validate checks raw model text against the schema.
func (c *OutputContract) Validate(text string) error {
	body := extractJSON(text)
	if !json.Valid([]byte(body)) {
		return &ValidationError{
			Contract: c.Name,
			Errors:   []FieldError{{Field: "(root)", Message: "response is not valid JSON"}},
		}
	}

	result, err := gojsonschema.Validate(c.loader, gojsonschema.NewStringLoader(body))
	if err != nil {
		return &ValidationError{
			Contract: c.Name,
			Errors:   []FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Contract: c.Name,
		Errors:   make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// Decode validates text and unmarshals it into v.
func (c *OutputContract) Decode(text string, v any) error {
	if err := c.Validate(text); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), v); err != nil {
		return &ValidationError{
			Contract: c.Name,
			Errors:   []FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}
	return nil
}

var (
	AnalysisContract = NewOutputContract("analysis", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"matchScore": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Match score (0-100) between the resume and job description.",
			},
			"scoreRationale": map[string]any{
				"type":        "string",
				"description": "Explanation of the score, referencing core vs. preferred skills and project quality.",
			},
			"matchingSkills": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"missingSkills": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"impliedSkills": map[string]any{
				"type":        "string",
				"description": "Brief narrative of inferred skills with examples.",
			},
			"status": map[string]any{"type": "string"},
		},
		"required": []any{"matchScore", "scoreRationale", "matchingSkills", "missingSkills", "impliedSkills"},
	})

	QuestionsContract = NewOutputContract("interview_questions", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": 5,
				"maxItems": 5,
			},
		},
		"required": []any{"questions"},
	})

	EvaluationContract = NewOutputContract("answer_evaluation", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": 10,
			},
			"feedback": map[string]any{"type": "string"},
		},
		"required": []any{"score", "feedback"},
	})

	TranscriptionContract = NewOutputContract("transcription", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"transcription": map[string]any{"type": "string"},
		},
		"required": []any{"transcription"},
	})
)

// extractJSON strips markdown fences and any prose around the outermost object.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
