package models

import "github.com/google/uuid"

type AnalyzeRequest struct {
	JobDescription string `json:"jobDescription" validate:"required_without=JobID"`
	JobID          string `json:"jobId" validate:"omitempty,uuid"`
	Resume         string `json:"resume"`
}

type AgentRequest struct {
	History    []ConversationTurn `json:"history" validate:"dive"`
	Prompt     string             `json:"prompt" validate:"required_without=JobID"`
	JobID      string             `json:"jobId" validate:"omitempty,uuid"`
	ResumeText string             `json:"resumeText" validate:"required_with=JobID"`
}

type AgentResponse struct {
	Response string `json:"response"`
}

type QuestionsRequest struct {
	JobDescription string `json:"jobDescription" validate:"required_without=JobID"`
	JobID          string `json:"jobId" validate:"omitempty,uuid"`
}

type EvaluateAnswerRequest struct {
	JobDescription string `json:"jobDescription" validate:"required_without=JobID"`
	JobID          string `json:"jobId" validate:"omitempty,uuid"`
	Question       string `json:"question" validate:"required"`
	UserAnswer     string `json:"userAnswer" validate:"required"`
}

type TranscribeRequest struct {
	SpokenAnswer string `json:"spokenAnswer" validate:"required"`
}

type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

type RecommendRequest struct {
	Resume string `json:"resume" validate:"required"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=20"`
}

type JobRecommendation struct {
	JobID uuid.UUID `json:"jobId"`
	Title string    `json:"title"`
	Score float32   `json:"score"`
}

type CreateJobRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Description string `json:"description" validate:"required,min=20"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
