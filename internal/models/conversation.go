package models

type ConversationRole string

const (
	ConversationRoleUser  ConversationRole = "user"
	ConversationRoleModel ConversationRole = "model"
)

// ConversationTurn is one entry of a chat history round-tripped by the client.
type ConversationTurn struct {
	Role    ConversationRole `json:"role" validate:"required,oneof=user model"`
	Content string           `json:"content"`
}

// InterviewQuestionSet is always exactly five questions of increasing difficulty.
type InterviewQuestionSet struct {
	Questions []string `json:"questions"`
}

type AnswerEvaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}
