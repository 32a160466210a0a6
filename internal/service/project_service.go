package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
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

// ProjectService drives the project phase state machine. Transitions are
// forward only; requesting any other transition, including one whose target
// equals the current phase, is a hard business error.
type ProjectService interface {
	Get(ctx context.Context, projectID uint, actor Principal) (dto.ProjectResponse, error)
	ConfirmLearningGoals(ctx context.Context, projectID uint, actor Principal, payload dto.LearningGoalsRequest) (dto.ProjectResponse, error)
	SubmitFinalReport(ctx context.Context, projectID uint, actor Principal, payload dto.FinalReportRequest) (dto.ProjectResponse, error)
}

type projectService struct {
	projects  repository.ProjectRepository
	policy    AccessPolicy
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewProjectService constructs the lifecycle service.
func NewProjectService(projects repository.ProjectRepository, policy AccessPolicy, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ProjectService {
	return &projectService{
		projects:  projects,
		policy:    policy,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "project_service").Logger(),
		tracer:    otel.Tracer("github.com/praxislab/praxis-go-api/internal/service/project"),
	}
}

func (s *projectService) Get(ctx context.Context, projectID uint, actor Principal) (dto.ProjectResponse, error) {
	project, err := s.policy.VerifyProjectAccess(ctx, projectID, actor.ID, actor.Role)
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	return dto.NewProjectResponse(project), nil
}

// ConfirmLearningGoals advances pre -> research. Only a team member may
// confirm, and the goals must be non-empty.
func (s *projectService) ConfirmLearningGoals(ctx context.Context, projectID uint, actor Principal, payload dto.LearningGoalsRequest) (dto.ProjectResponse, error) {
	ctx, span := s.tracer.Start(ctx, "project.confirm_goals", trace.WithAttributes(
		attribute.Int64("project.id", int64(projectID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, apperr.Wrap(apperr.KindValidation, "invalid_payload", "learning goals are required", err)
	}
	goals := strings.TrimSpace(payload.Goals)
	if goals == "" {
		return dto.ProjectResponse{}, apperr.Validation("empty_goals", "learning goals are required")
	}

	project, err := s.policy.VerifyProjectAccess(ctx, projectID, actor.ID, actor.Role)
	if err != nil {
		span.RecordError(err)
		return dto.ProjectResponse{}, err
	}
	if err := s.policy.VerifyTeamMembership(ctx, project.TeamID, actor.ID); err != nil {
		span.RecordError(err)
		return dto.ProjectResponse{}, err
	}
	if project.IsClosed() {
		return dto.ProjectResponse{}, apperr.BusinessLogic("project_closed", "project is closed")
	}

	if err := s.projects.ConfirmLearningGoals(ctx, projectID, goals); err != nil {
		return dto.ProjectResponse{}, s.transitionError(span, err)
	}

	s.recordTransition(ctx, actor, projectID, models.PhasePre, models.PhaseResearch)
	return s.reload(ctx, projectID)
}

// SubmitFinalReport is the external intake entry advancing research -> post.
// Team members submit their own reports; the owning educator or an admin may
// submit on a team's behalf.
func (s *projectService) SubmitFinalReport(ctx context.Context, projectID uint, actor Principal, payload dto.FinalReportRequest) (dto.ProjectResponse, error) {
	ctx, span := s.tracer.Start(ctx, "project.submit_report", trace.WithAttributes(
		attribute.Int64("project.id", int64(projectID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, apperr.Wrap(apperr.KindValidation, "invalid_payload", "a report url is required", err)
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, apperr.NotFound("project")
		}
		return dto.ProjectResponse{}, apperr.Database(err)
	}
	// the report is a team artifact with no individual owner
	if err := s.policy.VerifyArtifactPermissions(ctx, actor.ID, actor.Role, 0, project.TeamID, false); err != nil {
		span.RecordError(err)
		return dto.ProjectResponse{}, err
	}
	if s.policy.HasEducatorPermissions(actor.Role) && !s.policy.HasAdminPermissions(actor.Role) {
		if err := s.policy.VerifyCourseOwnership(ctx, project.Problem.CourseID, actor.ID, actor.Role); err != nil {
			span.RecordError(err)
			return dto.ProjectResponse{}, err
		}
	}
	if project.IsClosed() {
		return dto.ProjectResponse{}, apperr.BusinessLogic("project_closed", "project is closed")
	}

	if err := s.projects.AttachFinalReport(ctx, projectID, payload.URL, payload.Content); err != nil {
		return dto.ProjectResponse{}, s.transitionError(span, err)
	}

	s.recordTransition(ctx, actor, projectID, models.PhaseResearch, models.PhasePost)
	return s.reload(ctx, projectID)
}

func (s *projectService) transitionError(span trace.Span, err error) error {
	if errors.Is(err, repository.ErrPhaseConflict) {
		span.SetStatus(codes.Error, "invalid_project_phase")
		return apperr.BusinessLogic("invalid_project_phase", "the project is not in a phase that allows this transition")
	}
	span.RecordError(err)
	return apperr.Database(err)
}

func (s *projectService) recordTransition(ctx context.Context, actor Principal, projectID uint, from, to models.Phase) {
	observability.PhaseTransitionsTotal().WithLabelValues(string(from), string(to)).Inc()
	if s.activity == nil {
		return
	}
	id := projectID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "project.phase_advanced",
		EntityType: "project",
		EntityID:   &id,
		Metadata: map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		},
	})
}

func (s *projectService) reload(ctx context.Context, projectID uint) (dto.ProjectResponse, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return dto.ProjectResponse{}, apperr.Database(err)
	}
	return dto.NewProjectResponse(project), nil
}
