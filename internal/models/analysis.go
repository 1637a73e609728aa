package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Status is the approval bucket derived from a match score.
type Status string

const (
	StatusApproved         Status = "Approved"
	StatusNeedsImprovement Status = "Needs Improvement"
	StatusNotAMatch        Status = "Not a Match"
)

const (
	ApprovedThreshold         = 75
	NeedsImprovementThreshold = 50
)

// StatusFor maps a score to its bucket. It is the only authority for Status;
// whatever status the model reports is discarded.
func StatusFor(score int) Status {
	switch {
	case score >= ApprovedThreshold:
		return StatusApproved
	case score >= NeedsImprovementThreshold:
		return StatusNeedsImprovement
	default:
		return StatusNotAMatch
	}
}

// AnalysisResult is the finalized outcome of one résumé/job comparison.
type AnalysisResult struct {
	MatchScore     int      `json:"matchScore"`
	ScoreRationale string   `json:"scoreRationale"`
	MatchingSkills []string `json:"matchingSkills"`
	MissingSkills  []string `json:"missingSkills"`
	ImpliedSkills  string   `json:"impliedSkills"`
	Status         Status   `json:"status"`
}

// AnalysisHistory is the append-only audit record written after a successful analysis.
type AnalysisHistory struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	UserID           *uuid.UUID                  `gorm:"type:uuid;index" json:"userId,omitempty"`
	ResumeFileName   string                      `gorm:"type:text" json:"resumeFileName"`
	JobDescriptionID *uuid.UUID                  `gorm:"type:uuid;index" json:"jobDescriptionId,omitempty"`
	JobTitle         string                      `gorm:"type:text" json:"jobTitle"`
	MatchScore       int                         `gorm:"not null" json:"matchScore"`
	Status           Status                      `gorm:"type:text;not null" json:"status"`
	MatchingSkills   datatypes.JSONSlice[string] `json:"matchingSkills"`
	MissingSkills    datatypes.JSONSlice[string] `json:"missingSkills"`
	CreatedAt        time.Time                   `gorm:"index" json:"createdAt"`
}

func (AnalysisHistory) TableName() string {
	return "analyses"
}
