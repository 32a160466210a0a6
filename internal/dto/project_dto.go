package dto

import (
	"time"

	"github.com/praxislab/praxis-go-api/internal/models"
)

// LearningGoalsRequest confirms a team's learning goals, advancing the
// project out of phase pre.
type LearningGoalsRequest struct {
	Goals string `json:"goals" validate:"required,min=1,max=8000"`
}

// FinalReportRequest is the external intake payload for a final report.
type FinalReportRequest struct {
	URL     string `json:"url" validate:"required,url,max=512"`
	Content string `json:"content" validate:"omitempty,max=100000"`
}

// ProjectResponse is the serialized representation of a project.
type ProjectResponse struct {
	ID             uint         `json:"id"`
	ProblemID      uint         `json:"problem_id"`
	TeamID         uint         `json:"team_id"`
	Phase          models.Phase `json:"phase"`
	LearningGoals  string       `json:"learning_goals,omitempty"`
	FinalReportURL string       `json:"final_report_url,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewProjectResponse converts a model into a DTO.
func NewProjectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:             project.ID,
		ProblemID:      project.ProblemID,
		TeamID:         project.TeamID,
		Phase:          project.Phase,
		LearningGoals:  project.LearningGoals,
		FinalReportURL: project.FinalReportURL,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}
