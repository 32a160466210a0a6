package dto

import (
	"time"

	"github.com/praxislab/praxis-go-api/internal/models"
)

// ScoreInput is one criterion's score in an assessment create request.
type ScoreInput struct {
	CriterionID   uint   `json:"criterion_id" validate:"required"`
	Score         int    `json:"score" validate:"required,min=1"`
	Justification string `json:"justification" validate:"required,min=1,max=8000"`
	AIGenerated   bool   `json:"ai_generated"`
}

// AssessmentCreateRequest is the payload for creating an assessment.
type AssessmentCreateRequest struct {
	Scores          []ScoreInput `json:"scores" validate:"required,min=1,dive"`
	OverallFeedback string       `json:"overall_feedback" validate:"omitempty,max=20000"`
}

// ScoreResponse is the serialized representation of a persisted score.
type ScoreResponse struct {
	CriterionID   uint   `json:"criterion_id"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
	AIGenerated   bool   `json:"ai_generated"`
}

// AssessmentResponse is the serialized representation of an assessment.
type AssessmentResponse struct {
	ID              uint            `json:"id"`
	ProjectID       uint            `json:"project_id"`
	AssessorID      uint            `json:"assessor_id"`
	Status          string          `json:"status"`
	OverallFeedback string          `json:"overall_feedback,omitempty"`
	Scores          []ScoreResponse `json:"scores,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewAssessmentResponse converts a model into a DTO.
func NewAssessmentResponse(assessment models.Assessment) AssessmentResponse {
	scores := make([]ScoreResponse, 0, len(assessment.Scores))
	for _, score := range assessment.Scores {
		scores = append(scores, ScoreResponse{
			CriterionID:   score.CriterionID,
			Score:         score.Score,
			Justification: score.Justification,
			AIGenerated:   score.AIGenerated,
		})
	}

	return AssessmentResponse{
		ID:              assessment.ID,
		ProjectID:       assessment.ProjectID,
		AssessorID:      assessment.AssessorID,
		Status:          assessment.Status,
		OverallFeedback: assessment.OverallFeedback,
		Scores:          scores,
		CreatedAt:       assessment.CreatedAt,
	}
}

// CriterionResponse describes one rubric criterion.
type CriterionResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	MaxScore  int    `json:"max_score"`
	SortOrder int    `json:"sort_order"`
}

// NewCriterionResponseSlice converts rubric criteria into DTOs.
func NewCriterionResponseSlice(criteria []models.RubricCriterion) []CriterionResponse {
	out := make([]CriterionResponse, 0, len(criteria))
	for _, criterion := range criteria {
		out = append(out, CriterionResponse{
			ID:        criterion.ID,
			Title:     criterion.Title,
			MaxScore:  criterion.MaxScore,
			SortOrder: criterion.SortOrder,
		})
	}
	return out
}

// AssessmentContextResponse is the read path for the assessment surface:
// everything an assessor needs to decide whether they can assess.
type AssessmentContextResponse struct {
	ProjectID          uint                `json:"project_id"`
	Phase              models.Phase        `json:"phase"`
	Criteria           []CriterionResponse `json:"criteria"`
	ExistingAssessment *AssessmentResponse `json:"existing_assessment,omitempty"`
	CanAssess          bool                `json:"can_assess"`
	Reason             string              `json:"reason,omitempty"`
}

// CriterionResult joins a rubric criterion to its final score.
type CriterionResult struct {
	Criterion CriterionResponse `json:"criterion"`
	Score     ScoreResponse     `json:"score"`
}

// AssessmentResultsResponse is the results surface for a closed project.
type AssessmentResultsResponse struct {
	ProjectID       uint              `json:"project_id"`
	AssessmentID    uint              `json:"assessment_id"`
	OverallFeedback string            `json:"overall_feedback,omitempty"`
	Results         []CriterionResult `json:"results"`
	TotalScore      int               `json:"total_score"`
	MaxTotalScore   int               `json:"max_total_score"`
}

// ScoreSuggestion is an AI-drafted, non-persisted scoring suggestion.
type ScoreSuggestion struct {
	CriterionID   uint   `json:"criterion_id"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
	AIGenerated   bool   `json:"ai_generated"`
}

// AssessmentDraftResponse carries AI suggestions back to the assessor.
type AssessmentDraftResponse struct {
	ProjectID   uint              `json:"project_id"`
	Suggestions []ScoreSuggestion `json:"suggestions"`
}
