package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
)

const (
	toolAnalyzeResume      = "analyzeResume"
	toolInterviewQuestions = "generateInterviewQuestions"
)

const agentSystemInstruction = `You are a friendly and helpful AI Career Agent. Your goal is to help the user analyze their resume against a job description and, after a strong match, practice interview questions.

- If you are missing information, ask for it. You need both a job description and a resume before you can act. Suggest that the user labels them "Job Description:" and "Resume:".
- You MUST NOT call the 'analyzeResume' tool until both the job description and the resume text are present in the user's messages. Pass them verbatim.
- Only call 'generateInterviewQuestions' when the user asks to practice for a job description they have provided.
- Never make up analysis results or questions. Only the tools produce them.
- Keep replies short and use markdown.`

var agentTools = []ToolDefinition{
	{
		Name:        toolAnalyzeResume,
		Description: "Analyzes a resume against a job description to provide a match score and skill gap analysis. This is the primary tool when a user wants to evaluate their resume for a job.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"jobDescription": map[string]any{"type": "string", "description": "The job description for the role, verbatim."},
				"resume":         map[string]any{"type": "string", "description": "The text content of the resume, verbatim."},
			},
			"required": []any{"jobDescription", "resume"},
		},
	},
	{
		Name:        toolInterviewQuestions,
		Description: "Generates exactly 5 interview questions of increasing difficulty for a job description.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"jobDescription": map[string]any{"type": "string", "description": "The job description for the role, verbatim."},
			},
			"required": []any{"jobDescription"},
		},
	},
}

// CareerAgent runs one turn of the career chat. The caller owns the history;
// the agent keeps no state between calls.
type CareerAgent struct {
	analyzer  Analyzer
	questions QuestionGenerator
	llm       LLMClient
	log       *zap.Logger
}

func NewCareerAgent(analyzer Analyzer, questions QuestionGenerator, llm LLMClient, log *zap.Logger) *CareerAgent {
	return &CareerAgent{
		analyzer:  analyzer,
		questions: questions,
		llm:       llm,
		log:       log.Named("agent"),
	}
}

// LabelledPrompt builds a user message the session parser recognises.
func LabelledPrompt(jobDescription, resume string) string {
	return fmt.Sprintf("Job Description:\n%s\n\nResume:\n%s", strings.TrimSpace(jobDescription), strings.TrimSpace(resume))
}

func (a *CareerAgent) Respond(ctx context.Context, history []models.ConversationTurn, prompt string) (string, error) {
	session := reconstructSession(history, prompt)

	if session.state == StateInterviewOffered {
		if !labelledPrompt(prompt) {
			switch {
			case isAssent(prompt) && session.lastAnalyzedJD != "":
				return a.presentQuestions(ctx, session.lastAnalyzedJD)
			case isAssent(prompt):
				// unlabelled pair: the model names the job description from the history
				return a.converse(ctx, session, history, prompt)
			case isDecline(prompt):
				return "No problem. Whenever you're ready, share another job description and résumé and I'll analyze them.", nil
			}
		}
		// anything else starts a new request
		session.state = StateGathering
		if session.jobDescription != "" && session.resume != "" {
			session.state = StateReadyToAnalyze
		}
	}

	a.log.Debug("agent turn", zap.Stringer("state", session.state), zap.Int("history", len(history)))

	switch session.state {
	case StateReadyToAnalyze:
		return a.analyzeAndPresent(ctx, session.jobDescription, session.resume)
	default:
		// a labelled partial pair gets a direct request for the rest; unlabelled
		// text may be the missing piece, so the model judges it
		if session.hasAnyPiece() && labelledPrompt(prompt) {
			return askForMissing(session), nil
		}
		return a.converse(ctx, session, history, prompt)
	}
}

// converse lets the model reply to free-form input. Tool calls only run when
// every argument appears in what the user actually wrote.
func (a *CareerAgent) converse(ctx context.Context, session *agentSession, history []models.ConversationTurn, prompt string) (string, error) {
	resp, err := a.llm.Generate(ctx, GenerateRequest{
		SystemInstruction: agentSystemInstruction,
		History:           history,
		Prompt:            prompt,
		Tools:             agentTools,
		Temperature:       0.4,
	})
	if err != nil {
		a.log.Warn("agent model call failed", zap.Error(err))
		return "", wrapModelErr(err)
	}

	for _, call := range resp.ToolCalls {
		switch call.Name {
		case toolAnalyzeResume:
			jd, cv := stringArg(call.Args, "jobDescription"), stringArg(call.Args, "resume")
			if session.grounded(jd) && session.grounded(cv) && !strings.EqualFold(jd, cv) {
				return a.analyzeAndPresent(ctx, jd, cv)
			}
			a.log.Info("ignoring ungrounded tool call", zap.String("tool", call.Name))
		case toolInterviewQuestions:
			jd := stringArg(call.Args, "jobDescription")
			if session.groundedForQuestions(jd) {
				return a.presentQuestions(ctx, jd)
			}
			a.log.Info("ignoring ungrounded tool call", zap.String("tool", call.Name))
		default:
			a.log.Info("ignoring unknown tool call", zap.String("tool", call.Name))
		}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return askForMissing(session), nil
	}
	if session.state != StateInterviewOffered && !mentionsAll(text, session.missing()) {
		text += "\n\n" + askForMissing(session)
	}
	return text, nil
}

func (a *CareerAgent) analyzeAndPresent(ctx context.Context, jobDescription, resume string) (string, error) {
	result, err := a.analyzer.AnalyzeText(ctx, jobDescription, resume)
	if err != nil {
		return "", err
	}
	return FormatAnalysis(result), nil
}

func (a *CareerAgent) presentQuestions(ctx context.Context, jobDescription string) (string, error) {
	set, err := a.questions.GenerateQuestions(ctx, jobDescription)
	if err != nil {
		return "", err
	}
	return FormatQuestions(set), nil
}

// FormatAnalysis renders a result as markdown. Strong matches end with an
// offer to practice interview questions.
func FormatAnalysis(result *models.AnalysisResult) string {
	var sb strings.Builder

	sb.WriteString(analysisHeading + "\n\n")
	sb.WriteString("Here's how your résumé stacks up against the job description:\n\n")
	sb.WriteString(fmt.Sprintf("**Match Score:** **%d%%** (%s)\n", result.MatchScore, result.Status))
	sb.WriteString(fmt.Sprintf("*%s*\n\n---\n\n", result.ScoreRationale))

	sb.WriteString("#### ✅ Matching Skills\n")
	writeBullets(&sb, result.MatchingSkills, "None found.")
	sb.WriteString("\n---\n\n#### ❌ Missing Skills\n")
	writeBullets(&sb, result.MissingSkills, "None. Great job!")
	sb.WriteString("\n---\n\n#### ✨ Implied Skills\n")
	sb.WriteString(fmt.Sprintf("*%s*\n\n", result.ImpliedSkills))

	if result.MatchScore >= models.ApprovedThreshold {
		sb.WriteString("This is a strong match. " + interviewOffer)
	} else {
		sb.WriteString("I am ready for your next request. You can ask me to analyze another résumé.")
	}
	return sb.String()
}

func FormatQuestions(set *models.InterviewQuestionSet) string {
	var sb strings.Builder
	sb.WriteString("### Interview Practice\n\n")
	sb.WriteString("Here are your questions, starting with the basics and getting harder:\n\n")
	for i, q := range set.Questions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, q))
	}
	sb.WriteString("\nTake them one at a time. You can paste an answer in the Interview view to get it scored.")
	return sb.String()
}

func askForMissing(session *agentSession) string {
	missing := session.missing()
	switch len(missing) {
	case 0:
		return "I have everything I need."
	case 1:
		have := "job description"
		label := "Resume:"
		if missing[0] == "job description" {
			have = "résumé"
			label = "Job Description:"
		}
		return fmt.Sprintf("Thanks, I have the %s. Please paste the %s text too, starting with \"%s\".", have, missing[0], label)
	default:
		return "To analyze your fit I need both a job description and your résumé. Please paste them, starting each with \"Job Description:\" and \"Resume:\"."
	}
}

func writeBullets(sb *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		sb.WriteString(empty + "\n")
		return
	}
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
}

func mentionsAll(text string, pieces []string) bool {
	lower := strings.ToLower(text)
	for _, piece := range pieces {
		if piece == "résumé" {
			if !strings.Contains(lower, "résumé") && !strings.Contains(lower, "resume") {
				return false
			}
			continue
		}
		if !strings.Contains(lower, piece) {
			return false
		}
	}
	return true
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
