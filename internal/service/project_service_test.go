package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/dto"
	"github.com/praxislab/praxis-go-api/internal/models"
)

func newProjectService(fx *policyFixture, activity ActivityRecorder) ProjectService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewProjectService(fx.projects, fx.policy, validate, activity, testLogger())
}

func TestConfirmLearningGoalsAdvancesPreToResearch(t *testing.T) {
	fx := newPolicyFixture()
	fx.projects.projects[100].Phase = models.PhasePre
	activity := &recordedActivity{}
	svc := newProjectService(fx, activity)

	actor := Principal{ID: 2, Role: models.RoleStudent}
	project, err := svc.ConfirmLearningGoals(context.Background(), 100, actor, dto.LearningGoalsRequest{Goals: "learn distributed caching"})
	require.NoError(t, err)
	require.Equal(t, models.PhaseResearch, project.Phase)
	require.Equal(t, "learn distributed caching", project.LearningGoals)
	require.Len(t, activity.entries, 1)
	require.Equal(t, "project.phase_advanced", activity.entries[0].Action)
}

func TestConfirmLearningGoalsRejectsWrongPhase(t *testing.T) {
	fx := newPolicyFixture()
	fx.projects.projects[100].Phase = models.PhaseResearch
	svc := newProjectService(fx, nil)

	actor := Principal{ID: 2, Role: models.RoleStudent}
	_, err := svc.ConfirmLearningGoals(context.Background(), 100, actor, dto.LearningGoalsRequest{Goals: "goals"})
	require.True(t, apperr.IsKind(err, apperr.KindBusinessLogic))
	require.Equal(t, "invalid_project_phase", apperr.CodeOf(err))
}

func TestConfirmLearningGoalsRequiresMembership(t *testing.T) {
	fx := newPolicyFixture()
	fx.projects.projects[100].Phase = models.PhasePre
	fx.users.users[5] = models.User{ID: 5, Role: models.RoleStudent}
	svc := newProjectService(fx, nil)

	actor := Principal{ID: 5, Role: models.RoleStudent}
	_, err := svc.ConfirmLearningGoals(context.Background(), 100, actor, dto.LearningGoalsRequest{Goals: "goals"})
	require.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestConfirmLearningGoalsRejectsEmptyGoals(t *testing.T) {
	fx := newPolicyFixture()
	fx.projects.projects[100].Phase = models.PhasePre
	svc := newProjectService(fx, nil)

	actor := Principal{ID: 2, Role: models.RoleStudent}
	_, err := svc.ConfirmLearningGoals(context.Background(), 100, actor, dto.LearningGoalsRequest{Goals: "   "})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSubmitFinalReportAdvancesResearchToPost(t *testing.T) {
	fx := newPolicyFixture()
	fx.projects.projects[100].Phase = models.PhaseResearch
	svc := newProjectService(fx, nil)

	actor := Principal{ID: 2, Role: models.RoleStudent}
	project, err := svc.SubmitFinalReport(context.Background(), 100, actor, dto.FinalReportRequest{URL: "https://reports.praxis.dev/final"})
	require.NoError(t, err)
	require.Equal(t, models.PhasePost, project.Phase)
	require.Equal(t, "https://reports.praxis.dev/final", project.FinalReportURL)
}

func TestSubmitFinalReportStudentMustBeTeamMember(t *testing.T) {
	fx := newPolicyFixture()
	fx.projects.projects[100].Phase = models.PhaseResearch
	fx.users.users[5] = models.User{ID: 5, Role: models.RoleStudent}
	svc := newProjectService(fx, nil)

	// the report is a team artifact: a student outside the team may not
	// submit it
	outsider := Principal{ID: 5, Role: models.RoleStudent}
	_, err := svc.SubmitFinalReport(context.Background(), 100, outsider, dto.FinalReportRequest{URL: "https://reports.praxis.dev/final"})
	require.Equal(t, "not_team_member", apperr.CodeOf(err))
}

func TestSubmitFinalReportEducatorMustOwnCourse(t *testing.T) {
	fx := newPolicyFixture()
	fx.projects.projects[100].Phase = models.PhaseResearch
	svc := newProjectService(fx, nil)

	outsider := Principal{ID: 4, Role: models.RoleEducator}
	_, err := svc.SubmitFinalReport(context.Background(), 100, outsider, dto.FinalReportRequest{URL: "https://reports.praxis.dev/final"})
	require.Equal(t, "not_course_owner", apperr.CodeOf(err))

	admin := Principal{ID: 3, Role: models.RoleAdmin}
	project, err := svc.SubmitFinalReport(context.Background(), 100, admin, dto.FinalReportRequest{URL: "https://reports.praxis.dev/final"})
	require.NoError(t, err)
	require.Equal(t, models.PhasePost, project.Phase)
}

func TestSubmitFinalReportRejectsClosedProject(t *testing.T) {
	fx := newPolicyFixture()
	fx.projects.projects[100].Phase = models.PhaseClosed
	svc := newProjectService(fx, nil)

	actor := Principal{ID: 2, Role: models.RoleStudent}
	_, err := svc.SubmitFinalReport(context.Background(), 100, actor, dto.FinalReportRequest{URL: "https://reports.praxis.dev/final"})
	require.Equal(t, "project_closed", apperr.CodeOf(err))
}
