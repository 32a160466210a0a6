package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/pkg/ai"
)

type stubReviewer struct {
	suggestions []ai.ReviewSuggestion
	err         error
	lastInput   ai.ReviewInput
}

func (r *stubReviewer) Review(ctx context.Context, input ai.ReviewInput) ([]ai.ReviewSuggestion, error) {
	r.lastInput = input
	return r.suggestions, r.err
}

func newDraftService(fx *policyFixture, reviewer ai.Reviewer) AIReviewService {
	assessments := &stubAssessmentRepo{projects: fx.projects}
	return NewAIReviewService(reviewer, fx.projects, assessments, fx.policy, testLogger())
}

func TestDraftUnavailableWithoutReviewer(t *testing.T) {
	fx := newPolicyFixture()
	svc := newDraftService(fx, nil)

	owner := Principal{ID: 1, Role: models.RoleEducator}
	_, err := svc.Draft(context.Background(), 100, owner)
	require.True(t, apperr.IsKind(err, apperr.KindExternalService))
	require.Equal(t, "ai_unavailable", apperr.CodeOf(err))
}

func TestDraftClampsSuggestionsIntoRubricBounds(t *testing.T) {
	fx := newPolicyFixture()
	reviewer := &stubReviewer{suggestions: []ai.ReviewSuggestion{
		{CriterionID: 41, Score: 9, Justification: "excellent"},
		{CriterionID: 42, Score: 0, Justification: "weak"},
		{CriterionID: 99, Score: 3, Justification: "not in rubric"},
	}}
	svc := newDraftService(fx, reviewer)

	owner := Principal{ID: 1, Role: models.RoleEducator}
	draft, err := svc.Draft(context.Background(), 100, owner)
	require.NoError(t, err)
	require.Len(t, draft.Suggestions, 2)

	require.Equal(t, uint(41), draft.Suggestions[0].CriterionID)
	require.Equal(t, 5, draft.Suggestions[0].Score)
	require.True(t, draft.Suggestions[0].AIGenerated)
	require.Equal(t, uint(42), draft.Suggestions[1].CriterionID)
	require.Equal(t, 1, draft.Suggestions[1].Score)

	require.Equal(t, "Design a cache", reviewer.lastInput.ProblemTitle)
	require.Len(t, reviewer.lastInput.Criteria, 2)
}

func TestDraftEnforcesAssessmentGates(t *testing.T) {
	fx := newPolicyFixture()
	reviewer := &stubReviewer{}
	svc := newDraftService(fx, reviewer)

	student := Principal{ID: 2, Role: models.RoleStudent}
	_, err := svc.Draft(context.Background(), 100, student)
	require.Equal(t, "educator_required", apperr.CodeOf(err))

	fx.projects.projects[100].Phase = models.PhaseResearch
	owner := Principal{ID: 1, Role: models.RoleEducator}
	_, err = svc.Draft(context.Background(), 100, owner)
	require.Equal(t, "invalid_project_phase", apperr.CodeOf(err))
}

func TestDraftWrapsReviewerFailure(t *testing.T) {
	fx := newPolicyFixture()
	reviewer := &stubReviewer{err: errors.New("model timeout")}
	svc := newDraftService(fx, reviewer)

	owner := Principal{ID: 1, Role: models.RoleEducator}
	_, err := svc.Draft(context.Background(), 100, owner)
	require.Equal(t, "ai_review_failed", apperr.CodeOf(err))
}
