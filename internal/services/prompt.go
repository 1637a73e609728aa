package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct {
	rubric *Rubric
}

func NewPromptBuilder(rubric *Rubric) *PromptBuilder {
	return &PromptBuilder{rubric: rubric}
}

func (pb *PromptBuilder) Rubric() *Rubric {
	return pb.rubric
}

// BuildAnalysisPrompt renders the skill-matching instructions. The job
// description and résumé are embedded verbatim.
func (pb *PromptBuilder) BuildAnalysisPrompt(jobDescription, resume string) string {
	r := pb.rubric
	var sb strings.Builder

	sb.WriteString(r.Persona)
	sb.WriteString(fmt.Sprintf("\nHarshness: %s.\n\nFollow these steps:\n", r.Harshness))

	for i, step := range r.Steps {
		sb.WriteString(fmt.Sprintf("\n%d. **%s**\n", i+1, step.Title))
		for _, line := range step.Instructions {
			sb.WriteString("   - " + line + "\n")
		}

		switch step.Key {
		case "equivalency":
			for _, eq := range r.Equivalencies {
				sb.WriteString(fmt.Sprintf("   - Example: %s counts toward %s.\n", eq.Specific, eq.General))
			}
		case "weighted_score":
			sb.WriteString(fmt.Sprintf("   - Weights: core requirements %.0f%%, preferred skills %.0f%%, project quality %.0f%%.\n",
				r.Weights.Core*100, r.Weights.Preferred*100, r.Weights.ProjectQuality*100))
			sb.WriteString("   - Return matchScore as an integer from 0 to 100. Never return a fraction.\n")
		case "status":
			sb.WriteString(fmt.Sprintf("   - %d-100 -> Approved\n", r.Thresholds.Approved))
			sb.WriteString(fmt.Sprintf("   - %d-%d -> Needs Improvement\n", r.Thresholds.NeedsImprovement, r.Thresholds.Approved-1))
			sb.WriteString(fmt.Sprintf("   - 0-%d -> Not a Match\n", r.Thresholds.NeedsImprovement-1))
		}
	}

	sb.WriteString(`
Return a single JSON object, with no surrounding text, in this format:
{
  "matchScore": <integer 0-100>,
  "scoreRationale": "<explanation referencing core vs. preferred skills and project quality>",
  "matchingSkills": ["<skill>", ...],
  "missingSkills": ["<skill>", ...],
  "impliedSkills": "<short narrative, e.g. Built REST API with Express.js -> implies Node.js and API Development>",
  "status": "<Approved | Needs Improvement | Not a Match>"
}
`)

	sb.WriteString("\nJob Description:\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\nResume:\n")
	sb.WriteString(resume)
	sb.WriteString("\n")

	return sb.String()
}

// BuildQuestionsPrompt asks for the interview question set, easiest first.
func (pb *PromptBuilder) BuildQuestionsPrompt(jobDescription string) string {
	iv := pb.rubric.Interview

	var levels strings.Builder
	for i, level := range iv.Difficulty {
		levels.WriteString(fmt.Sprintf("- Question %d: %s\n", i+1, level))
	}

	return fmt.Sprintf(`%s Based on the provided Job Description, generate a list of exactly %d interview questions. The questions should cover the key skills and responsibilities mentioned. They MUST progressively increase in difficulty:
%s
Return a single JSON object: {"questions": ["<question 1>", ..., "<question %d>"]}

Job Description:
%s
`, iv.Persona, iv.QuestionCount, levels.String(), iv.QuestionCount, jobDescription)
}

func (pb *PromptBuilder) BuildEvaluationPrompt(jobDescription, question, userAnswer string) string {
	iv := pb.rubric.Interview

	return fmt.Sprintf(`%s Analyze the user's answer in the context of the Job Description and the specific Question asked.

Job Description:
%s

Question Asked:
"%s"

User's Answer:
"%s"

Provide an integer score from %d to %d based on the quality of the answer (clarity, relevance, accuracy), and concise, constructive feedback explaining the score. Be specific about what was good and what could be improved.
Return a single JSON object: {"score": <integer>, "feedback": "<feedback>"}
`, iv.Evaluator, jobDescription, question, userAnswer, iv.ScoreMin, iv.ScoreMax)
}

func (pb *PromptBuilder) BuildTranscriptionPrompt(spokenAnswer string) string {
	return fmt.Sprintf(`%s

Spoken Answer: %s

Return a single JSON object: {"transcription": "<transcription>"}
`, pb.rubric.Transcription, spokenAnswer)
}
