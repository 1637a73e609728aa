package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/career-pilot/internal/models"
)

type AgentState int

const (
	StateGathering AgentState = iota
	StateReadyToAnalyze
	StatePresentingResult
	StateInterviewOffered
)

func (s AgentState) String() string {
	switch s {
	case StateGathering:
		return "gathering"
	case StateReadyToAnalyze:
		return "ready_to_analyze"
	case StatePresentingResult:
		return "presenting_result"
	case StateInterviewOffered:
		return "interview_offered"
	default:
		return "unknown"
	}
}

const (
	analysisHeading = "### Analysis Complete!"
	interviewOffer  = "Would you like to practice interview questions for this role?"
)

// A section label on its own line, e.g. "Job Description:", "**Resume:**" or "Résumé text:".
var sectionLabel = regexp.MustCompile(`(?im)^[ \t#>*_]*(job[ \t]+description|r[eé]sum[eé](?:[ \t]+text)?|cv)[ \t*_]*:[ \t*_]*`)

var (
	assentPattern  = regexp.MustCompile(`(?i)^\W*(y(es|eah|ep|up)|sure|ok(ay)?|absolutely|of course|definitely|please|go ahead|let'?s|i'?m ready|ready|sounds good)\b`)
	declinePattern = regexp.MustCompile(`(?i)^\W*(no|nope|nah|not now|maybe later|skip)\b`)
)

// agentSession is the conversation state rebuilt from the client's history.
// Nothing survives between requests.
type agentSession struct {
	state AgentState

	jobDescription string
	resume         string

	// job description behind the most recent presented result, when it was labelled
	lastAnalyzedJD string

	// user text behind a result that ended with the interview offer
	offeredText string

	// user text since the last presented result, used to ground tool arguments
	userText string
}

func reconstructSession(history []models.ConversationTurn, prompt string) *agentSession {
	s := &agentSession{state: StateGathering}

	// user turns are grouped into windows closed by a presented result
	var window []string
	var previousWindow []string
	var lastModel string

	for _, turn := range history {
		switch turn.Role {
		case models.ConversationRoleUser:
			window = append(window, turn.Content)
		case models.ConversationRoleModel:
			lastModel = turn.Content
			if strings.Contains(turn.Content, analysisHeading) {
				previousWindow = window
				window = nil
			}
		}
	}

	if len(previousWindow) > 0 {
		s.lastAnalyzedJD, _ = collectSections(previousWindow)
	}
	offered := strings.Contains(lastModel, interviewOffer) && len(previousWindow) > 0
	if offered {
		s.offeredText = strings.Join(previousWindow, "\n")
	}

	window = append(window, prompt)
	s.jobDescription, s.resume = collectSections(window)
	s.userText = strings.Join(window, "\n")

	switch {
	case offered:
		s.state = StateInterviewOffered
	case s.jobDescription != "" && s.resume != "":
		s.state = StateReadyToAnalyze
	}
	return s
}

// missing names the pieces still needed before an analysis can run.
func (s *agentSession) missing() []string {
	var out []string
	if s.jobDescription == "" {
		out = append(out, "job description")
	}
	if s.resume == "" {
		out = append(out, "résumé")
	}
	return out
}

func (s *agentSession) hasAnyPiece() bool {
	return s.jobDescription != "" || s.resume != ""
}

// grounded reports whether value was supplied by the user in this window.
func (s *agentSession) grounded(value string) bool {
	return containsNormalized(s.userText, value)
}

// groundedForQuestions also accepts the job description behind an offered
// interview, which was written before the result closed the window.
func (s *agentSession) groundedForQuestions(value string) bool {
	return s.grounded(value) || (s.offeredText != "" && containsNormalized(s.offeredText, value))
}

// labelledPrompt reports whether the current message carries a section label.
func labelledPrompt(prompt string) bool {
	jd, cv := parseSections(prompt)
	return jd != "" || cv != ""
}

func containsNormalized(haystack, value string) bool {
	needle := strings.ToLower(normalizeWhitespace(value))
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(normalizeWhitespace(haystack)), needle)
}

// collectSections returns the latest labelled job description and résumé
// found across the given messages.
func collectSections(messages []string) (jobDescription, resume string) {
	for _, msg := range messages {
		jd, cv := parseSections(msg)
		if jd != "" {
			jobDescription = jd
		}
		if cv != "" {
			resume = cv
		}
	}
	return jobDescription, resume
}

func parseSections(text string) (jobDescription, resume string) {
	matches := sectionLabel.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[m[1]:end])
		if body == "" {
			continue
		}

		label := strings.ToLower(text[m[2]:m[3]])
		if strings.HasPrefix(label, "job") {
			jobDescription = body
		} else {
			resume = body
		}
	}
	return jobDescription, resume
}

func isAssent(prompt string) bool {
	return assentPattern.MatchString(strings.TrimSpace(prompt))
}

func isDecline(prompt string) bool {
	return declinePattern.MatchString(strings.TrimSpace(prompt))
}
