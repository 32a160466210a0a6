package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/dto"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/internal/observability"
	"github.com/praxislab/praxis-go-api/internal/repository"
)

// AssessmentService owns the transactional rubric-assessment workflow: the
// validated create with a compensating delete, the canAssess read context,
// finalization to the closed phase, and the results join.
type AssessmentService interface {
	Create(ctx context.Context, projectID uint, actor Principal, payload dto.AssessmentCreateRequest) (dto.AssessmentResponse, error)
	GetContext(ctx context.Context, projectID uint, actor Principal) (dto.AssessmentContextResponse, error)
	Finalize(ctx context.Context, projectID uint, actor Principal) (dto.AssessmentResponse, error)
	Results(ctx context.Context, projectID uint, actor Principal) (dto.AssessmentResultsResponse, error)
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	projects    repository.ProjectRepository
	policy      AccessPolicy
	validator   *validator.Validate
	activity    ActivityRecorder
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewAssessmentService constructs the assessment workflow service.
func NewAssessmentService(assessments repository.AssessmentRepository, projects repository.ProjectRepository, policy AccessPolicy, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AssessmentService {
	return &assessmentService{
		assessments: assessments,
		projects:    projects,
		policy:      policy,
		validator:   validate,
		activity:    activity,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "assessment_service").Logger(),
		tracer:      otel.Tracer("github.com/praxislab/praxis-go-api/internal/service/assessment"),
	}
}

// assessGate runs the four preconditions shared by Create and GetContext, in
// order, fail-fast: role, course ownership, phase, not already assessed. Both
// paths must stay consistent: a true canAssess means a subsequent Create
// cannot fail on any of these grounds.
func (s *assessmentService) assessGate(ctx context.Context, project models.Project, actor Principal) *apperr.Error {
	if !s.policy.HasEducatorPermissions(actor.Role) {
		return apperr.Authorization("educator_required", "access denied")
	}

	if err := s.policy.VerifyCourseOwnership(ctx, project.Problem.CourseID, actor.ID, actor.Role); err != nil {
		return apperr.From(err)
	}

	if project.Phase != models.PhasePost {
		return apperr.BusinessLogic("invalid_project_phase", "the project is not awaiting assessment")
	}

	_, err := s.assessments.FindByProjectAndAssessor(ctx, project.ID, actor.ID)
	if err == nil {
		return apperr.BusinessLogic("assessment_already_exists", "an assessment by this assessor already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Database(err)
	}

	return nil
}

// Create validates and persists an assessment with its scores. The assessment
// row is inserted first; if any score insert fails, the assessment is deleted
// as a compensating action and the triggering error propagates, so the visible
// end state is "no assessment" rather than one with missing scores.
func (s *assessmentService) Create(ctx context.Context, projectID uint, actor Principal, payload dto.AssessmentCreateRequest) (dto.AssessmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "assessment.create", trace.WithAttributes(
		attribute.Int64("project.id", int64(projectID)),
		attribute.Int64("assessor.id", int64(actor.ID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.SetStatus(codes.Error, "validation_failed")
		return dto.AssessmentResponse{}, apperr.Wrap(apperr.KindValidation, "invalid_payload", "invalid assessment payload", err)
	}

	project, err := s.policy.VerifyProjectAccess(ctx, projectID, actor.ID, actor.Role)
	if err != nil {
		span.RecordError(err)
		return dto.AssessmentResponse{}, err
	}

	if gateErr := s.assessGate(ctx, project, actor); gateErr != nil {
		span.SetStatus(codes.Error, gateErr.Code)
		return dto.AssessmentResponse{}, gateErr
	}

	criteria, err := s.projects.CriteriaForProject(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		return dto.AssessmentResponse{}, apperr.Database(err)
	}

	scores, valErr := s.buildScores(payload.Scores, criteria)
	if valErr != nil {
		span.SetStatus(codes.Error, valErr.Code)
		return dto.AssessmentResponse{}, valErr
	}

	assessment := models.Assessment{
		ProjectID:       projectID,
		AssessorID:      actor.ID,
		Status:          models.AssessmentStatusPendingReview,
		OverallFeedback: strings.TrimSpace(s.sanitizer.Sanitize(payload.OverallFeedback)),
	}

	if err := s.assessments.Create(ctx, &assessment); err != nil {
		if errors.Is(err, repository.ErrDuplicateAssessment) {
			// the unique index is authoritative over the earlier read
			return dto.AssessmentResponse{}, apperr.BusinessLogic("assessment_already_exists", "an assessment by this assessor already exists")
		}
		span.RecordError(err)
		return dto.AssessmentResponse{}, apperr.Database(err)
	}

	for i := range scores {
		scores[i].AssessmentID = assessment.ID
	}

	if err := s.assessments.CreateScores(ctx, scores); err != nil {
		span.RecordError(err)
		s.compensate(ctx, assessment.ID)
		return dto.AssessmentResponse{}, apperr.Wrap(apperr.KindDatabase, "score_insert_failed", "a storage error occurred", err)
	}

	assessment.Scores = scores
	observability.AssessmentsCreatedTotal().Inc()
	s.recordActivity(ctx, actor, "assessment.created", assessment.ID, projectID)

	span.SetAttributes(attribute.Int("assessment.score_count", len(scores)))
	return dto.NewAssessmentResponse(assessment), nil
}

// compensate removes the assessment row created before score insertion failed.
// A failed rollback leaves orphaned state, so it is logged as fatal for
// operator escalation and counted, but the caller still receives the original
// triggering error.
func (s *assessmentService) compensate(ctx context.Context, assessmentID uint) {
	if err := s.assessments.DeleteByID(ctx, assessmentID); err != nil {
		observability.AssessmentRollbackFailuresTotal().Inc()
		s.logger.Error().
			Err(apperr.Database(err)).
			Uint("assessment_id", assessmentID).
			Bool("requires_operator", true).
			Msg("compensating delete failed, orphaned assessment row remains")
	}
}

func (s *assessmentService) buildScores(inputs []dto.ScoreInput, criteria []models.RubricCriterion) ([]models.AssessmentScore, *apperr.Error) {
	byID := make(map[uint]models.RubricCriterion, len(criteria))
	for _, criterion := range criteria {
		byID[criterion.ID] = criterion
	}

	seen := make(map[uint]struct{}, len(inputs))
	scores := make([]models.AssessmentScore, 0, len(inputs))
	for _, input := range inputs {
		criterion, ok := byID[input.CriterionID]
		if !ok {
			return nil, apperr.Validation("unknown_criterion", fmt.Sprintf("criterion %d does not belong to the project rubric", input.CriterionID))
		}
		if _, dup := seen[input.CriterionID]; dup {
			return nil, apperr.Validation("duplicate_criterion", fmt.Sprintf("criterion %d is scored more than once", input.CriterionID))
		}
		seen[input.CriterionID] = struct{}{}

		if input.Score < 1 || input.Score > criterion.MaxScore {
			return nil, apperr.Validation("score_out_of_range", fmt.Sprintf("score for criterion %d must be between 1 and %d", input.CriterionID, criterion.MaxScore))
		}

		justification := strings.TrimSpace(s.sanitizer.Sanitize(input.Justification))
		if justification == "" {
			return nil, apperr.Validation("empty_justification", fmt.Sprintf("criterion %d requires a justification", input.CriterionID))
		}

		scores = append(scores, models.AssessmentScore{
			CriterionID:   input.CriterionID,
			Score:         input.Score,
			Justification: justification,
			AIGenerated:   input.AIGenerated,
		})
	}

	return scores, nil
}

// GetContext is the read path of the assessment surface. canAssess derives
// from the same gates as Create; reason carries the first failing gate's code.
func (s *assessmentService) GetContext(ctx context.Context, projectID uint, actor Principal) (dto.AssessmentContextResponse, error) {
	project, err := s.policy.VerifyProjectAccess(ctx, projectID, actor.ID, actor.Role)
	if err != nil {
		return dto.AssessmentContextResponse{}, err
	}

	criteria, err := s.projects.CriteriaForProject(ctx, projectID)
	if err != nil {
		return dto.AssessmentContextResponse{}, apperr.Database(err)
	}

	response := dto.AssessmentContextResponse{
		ProjectID: projectID,
		Phase:     project.Phase,
		Criteria:  dto.NewCriterionResponseSlice(criteria),
	}

	if existing, err := s.assessments.FindByProjectAndAssessor(ctx, projectID, actor.ID); err == nil {
		assessment := dto.NewAssessmentResponse(existing)
		response.ExistingAssessment = &assessment
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AssessmentContextResponse{}, apperr.Database(err)
	}

	if gateErr := s.assessGate(ctx, project, actor); gateErr != nil {
		response.CanAssess = false
		response.Reason = gateErr.Code
	} else {
		response.CanAssess = true
	}

	return response, nil
}

// Finalize closes the project from its assessor's completed assessment. The
// completeness check and the conditional status/phase updates commit in one
// storage transaction, so a finalized assessment and the closed phase appear
// together or not at all.
func (s *assessmentService) Finalize(ctx context.Context, projectID uint, actor Principal) (dto.AssessmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "assessment.finalize", trace.WithAttributes(
		attribute.Int64("project.id", int64(projectID)),
	))
	defer span.End()

	project, err := s.policy.VerifyProjectAccess(ctx, projectID, actor.ID, actor.Role)
	if err != nil {
		span.RecordError(err)
		return dto.AssessmentResponse{}, err
	}

	if !s.policy.HasEducatorPermissions(actor.Role) {
		return dto.AssessmentResponse{}, apperr.Authorization("educator_required", "access denied")
	}
	if err := s.policy.VerifyCourseOwnership(ctx, project.Problem.CourseID, actor.ID, actor.Role); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.assessments.FindByProjectAndAssessor(ctx, projectID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssessmentResponse{}, apperr.NotFound("assessment")
		}
		return dto.AssessmentResponse{}, apperr.Database(err)
	}

	criteria, err := s.projects.CriteriaForProject(ctx, projectID)
	if err != nil {
		return dto.AssessmentResponse{}, apperr.Database(err)
	}
	if missing := missingCriteria(criteria, assessment.Scores); len(missing) > 0 {
		span.SetStatus(codes.Error, "missing_score")
		return dto.AssessmentResponse{}, apperr.BusinessLogic("missing_score", fmt.Sprintf("%d rubric criteria are not yet scored", len(missing)))
	}

	if err := s.assessments.Finalize(ctx, assessment.ID, projectID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAssessmentConflict):
			return dto.AssessmentResponse{}, apperr.BusinessLogic("assessment_already_final", "the assessment is already final")
		case errors.Is(err, repository.ErrPhaseConflict):
			return dto.AssessmentResponse{}, apperr.BusinessLogic("invalid_project_phase", "the project is not in a phase that allows finalization")
		default:
			span.RecordError(err)
			return dto.AssessmentResponse{}, apperr.Database(err)
		}
	}

	assessment.Status = models.AssessmentStatusFinal
	observability.AssessmentsFinalizedTotal().Inc()
	observability.PhaseTransitionsTotal().WithLabelValues(string(models.PhasePost), string(models.PhaseClosed)).Inc()
	s.recordActivity(ctx, actor, "assessment.finalized", assessment.ID, projectID)

	return dto.NewAssessmentResponse(assessment), nil
}

// Results joins every rubric criterion to its score, a read-time integrity
// check independent of the write-time one.
func (s *assessmentService) Results(ctx context.Context, projectID uint, actor Principal) (dto.AssessmentResultsResponse, error) {
	project, err := s.policy.VerifyProjectAccess(ctx, projectID, actor.ID, actor.Role)
	if err != nil {
		return dto.AssessmentResultsResponse{}, err
	}

	if !project.IsClosed() {
		return dto.AssessmentResultsResponse{}, apperr.BusinessLogic("invalid_project_phase", "results are available once the project is closed")
	}

	assessment, err := s.assessments.FindByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssessmentResultsResponse{}, apperr.NotFound("assessment")
		}
		return dto.AssessmentResultsResponse{}, apperr.Database(err)
	}

	criteria, err := s.projects.CriteriaForProject(ctx, projectID)
	if err != nil {
		return dto.AssessmentResultsResponse{}, apperr.Database(err)
	}

	scoresByCriterion := make(map[uint]models.AssessmentScore, len(assessment.Scores))
	for _, score := range assessment.Scores {
		scoresByCriterion[score.CriterionID] = score
	}

	response := dto.AssessmentResultsResponse{
		ProjectID:       projectID,
		AssessmentID:    assessment.ID,
		OverallFeedback: assessment.OverallFeedback,
		Results:         make([]dto.CriterionResult, 0, len(criteria)),
	}

	for _, criterion := range criteria {
		score, ok := scoresByCriterion[criterion.ID]
		if !ok {
			return dto.AssessmentResultsResponse{}, apperr.BusinessLogic("missing_score", fmt.Sprintf("criterion %d has no score", criterion.ID))
		}
		response.Results = append(response.Results, dto.CriterionResult{
			Criterion: dto.CriterionResponse{
				ID:        criterion.ID,
				Title:     criterion.Title,
				MaxScore:  criterion.MaxScore,
				SortOrder: criterion.SortOrder,
			},
			Score: dto.ScoreResponse{
				CriterionID:   score.CriterionID,
				Score:         score.Score,
				Justification: score.Justification,
				AIGenerated:   score.AIGenerated,
			},
		})
		response.TotalScore += score.Score
		response.MaxTotalScore += criterion.MaxScore
	}

	return response, nil
}

func missingCriteria(criteria []models.RubricCriterion, scores []models.AssessmentScore) []uint {
	scored := make(map[uint]struct{}, len(scores))
	for _, score := range scores {
		scored[score.CriterionID] = struct{}{}
	}

	var missing []uint
	for _, criterion := range criteria {
		if _, ok := scored[criterion.ID]; !ok {
			missing = append(missing, criterion.ID)
		}
	}
	return missing
}

func (s *assessmentService) recordActivity(ctx context.Context, actor Principal, action string, assessmentID, projectID uint) {
	if s.activity == nil {
		return
	}
	id := assessmentID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "assessment",
		EntityID:   &id,
		Metadata: map[string]interface{}{
			"project_id": projectID,
		},
	})
}
