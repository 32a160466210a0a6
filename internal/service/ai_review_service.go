package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/dto"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/internal/repository"
	"github.com/praxislab/praxis-go-api/pkg/ai"
)

// AIReviewService produces AI-drafted score suggestions for a project's
// rubric. Drafts are advisory only: nothing is persisted, and anything an
// assessor submits later passes the same validation as manual scores.
type AIReviewService interface {
	Draft(ctx context.Context, projectID uint, actor Principal) (dto.AssessmentDraftResponse, error)
}

type aiReviewService struct {
	reviewer    ai.Reviewer
	projects    repository.ProjectRepository
	assessments repository.AssessmentRepository
	policy      AccessPolicy
	logger      zerolog.Logger
}

// NewAIReviewService constructs the draft scoring service. A nil reviewer
// disables drafting.
func NewAIReviewService(reviewer ai.Reviewer, projects repository.ProjectRepository, assessments repository.AssessmentRepository, policy AccessPolicy, logger zerolog.Logger) AIReviewService {
	return &aiReviewService{
		reviewer:    reviewer,
		projects:    projects,
		assessments: assessments,
		policy:      policy,
		logger:      logger.With().Str("component", "ai_review_service").Logger(),
	}
}

func (s *aiReviewService) Draft(ctx context.Context, projectID uint, actor Principal) (dto.AssessmentDraftResponse, error) {
	if s.reviewer == nil {
		return dto.AssessmentDraftResponse{}, apperr.ExternalService("ai_unavailable", errors.New("no reviewer configured"))
	}

	project, err := s.policy.VerifyProjectAccess(ctx, projectID, actor.ID, actor.Role)
	if err != nil {
		return dto.AssessmentDraftResponse{}, err
	}

	if !s.policy.HasEducatorPermissions(actor.Role) {
		return dto.AssessmentDraftResponse{}, apperr.Authorization("educator_required", "access denied")
	}
	if err := s.policy.VerifyCourseOwnership(ctx, project.Problem.CourseID, actor.ID, actor.Role); err != nil {
		return dto.AssessmentDraftResponse{}, err
	}
	if project.Phase != models.PhasePost {
		return dto.AssessmentDraftResponse{}, apperr.BusinessLogic("invalid_project_phase", "the project is not awaiting assessment")
	}
	if _, err := s.assessments.FindByProjectAndAssessor(ctx, projectID, actor.ID); err == nil {
		return dto.AssessmentDraftResponse{}, apperr.BusinessLogic("assessment_already_exists", "an assessment by this assessor already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AssessmentDraftResponse{}, apperr.Database(err)
	}

	criteria, err := s.projects.CriteriaForProject(ctx, projectID)
	if err != nil {
		return dto.AssessmentDraftResponse{}, apperr.Database(err)
	}

	input := ai.ReviewInput{
		ProblemTitle:  project.Problem.Title,
		ReportURL:     project.FinalReportURL,
		ReportContent: project.FinalReportContent,
		Criteria:      make([]ai.ReviewCriterion, 0, len(criteria)),
	}
	for _, criterion := range criteria {
		input.Criteria = append(input.Criteria, ai.ReviewCriterion{
			ID:       criterion.ID,
			Title:    criterion.Title,
			MaxScore: criterion.MaxScore,
		})
	}

	suggestions, err := s.reviewer.Review(ctx, input)
	if err != nil {
		s.logger.Warn().Err(err).Uint("project_id", projectID).Msg("ai review failed")
		return dto.AssessmentDraftResponse{}, apperr.ExternalService("ai_review_failed", err)
	}

	return dto.AssessmentDraftResponse{
		ProjectID:   projectID,
		Suggestions: clampSuggestions(suggestions, criteria),
	}, nil
}

// clampSuggestions drops suggestions for unknown criteria and forces every
// score into [1, max]; persisted scores obey one bound regardless of origin.
func clampSuggestions(suggestions []ai.ReviewSuggestion, criteria []models.RubricCriterion) []dto.ScoreSuggestion {
	byID := make(map[uint]models.RubricCriterion, len(criteria))
	for _, criterion := range criteria {
		byID[criterion.ID] = criterion
	}

	out := make([]dto.ScoreSuggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		criterion, ok := byID[suggestion.CriterionID]
		if !ok {
			continue
		}

		score := suggestion.Score
		if score < 1 {
			score = 1
		}
		if score > criterion.MaxScore {
			score = criterion.MaxScore
		}

		out = append(out, dto.ScoreSuggestion{
			CriterionID:   suggestion.CriterionID,
			Score:         score,
			Justification: strings.TrimSpace(suggestion.Justification),
			AIGenerated:   true,
		})
	}
	return out
}
