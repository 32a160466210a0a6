package models

import "time"

const (
	// AssessmentStatusPendingReview indicates scores are recorded but the
	// assessment has not been finalized.
	AssessmentStatusPendingReview = "pending_review"
	// AssessmentStatusFinal indicates the assessment closed its project.
	AssessmentStatusFinal = "final"
)

// Assessment is an assessor's scored evaluation of a project's final report.
// At most one exists per (project, assessor), enforced by a unique index.
type Assessment struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	ProjectID       uint              `gorm:"not null;uniqueIndex:idx_project_assessor" json:"project_id"`
	AssessorID      uint              `gorm:"not null;uniqueIndex:idx_project_assessor" json:"assessor_id"`
	Status          string            `gorm:"size:32;not null;default:pending_review" json:"status"`
	OverallFeedback string            `gorm:"type:text" json:"overall_feedback"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Scores          []AssessmentScore `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"scores"`
}

// IsFinal reports whether the assessment has been finalized.
func (a Assessment) IsFinal() bool {
	return a.Status == AssessmentStatusFinal
}

// AssessmentScore is one criterion's score within an assessment. Every score
// satisfies 1 <= Score <= criterion max regardless of origin; AIGenerated is
// provenance only.
type AssessmentScore struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AssessmentID  uint      `gorm:"not null;uniqueIndex:idx_assessment_criterion" json:"assessment_id"`
	CriterionID   uint      `gorm:"not null;uniqueIndex:idx_assessment_criterion" json:"criterion_id"`
	Score         int       `gorm:"not null" json:"score"`
	Justification string    `gorm:"type:text;not null" json:"justification"`
	AIGenerated   bool      `gorm:"not null;default:false" json:"ai_generated"`
	CreatedAt     time.Time `json:"created_at"`
}
