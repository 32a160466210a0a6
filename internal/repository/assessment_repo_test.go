package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/models"
)

func allAssessmentModels() []interface{} {
	return append(allProjectModels(), &models.Assessment{}, &models.AssessmentScore{})
}

func TestAssessmentRepositoryCreateRejectsDuplicateAssessor(t *testing.T) {
	db := setupCoreTestDB(t, allAssessmentModels()...)
	repo := NewAssessmentRepository(db)
	project := projectFixtures(t, db)

	first := models.Assessment{ProjectID: project.ID, AssessorID: 9, Status: models.AssessmentStatusPendingReview}
	require.NoError(t, repo.Create(context.Background(), &first))

	second := models.Assessment{ProjectID: project.ID, AssessorID: 9, Status: models.AssessmentStatusPendingReview}
	err := repo.Create(context.Background(), &second)
	require.ErrorIs(t, err, ErrDuplicateAssessment)
}

func TestAssessmentRepositoryDeleteRemovesScores(t *testing.T) {
	db := setupCoreTestDB(t, allAssessmentModels()...)
	repo := NewAssessmentRepository(db)
	project := projectFixtures(t, db)

	assessment := models.Assessment{ProjectID: project.ID, AssessorID: 9, Status: models.AssessmentStatusPendingReview}
	require.NoError(t, repo.Create(context.Background(), &assessment))
	require.NoError(t, repo.CreateScores(context.Background(), []models.AssessmentScore{
		{AssessmentID: assessment.ID, CriterionID: 1, Score: 4, Justification: "solid"},
	}))

	require.NoError(t, repo.DeleteByID(context.Background(), assessment.ID))

	_, err := repo.FindByProjectAndAssessor(context.Background(), project.ID, 9)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var scoreCount int64
	require.NoError(t, db.Model(&models.AssessmentScore{}).Where("assessment_id = ?", assessment.ID).Count(&scoreCount).Error)
	require.Zero(t, scoreCount)
}

func TestAssessmentRepositoryFinalizeClosesProjectOnce(t *testing.T) {
	db := setupCoreTestDB(t, allAssessmentModels()...)
	repo := NewAssessmentRepository(db)
	projects := NewProjectRepository(db)
	project := projectFixtures(t, db)

	require.NoError(t, projects.ConfirmLearningGoals(context.Background(), project.ID, "goals"))
	require.NoError(t, projects.AttachFinalReport(context.Background(), project.ID, "https://cdn.example.com/r.pdf", ""))

	assessment := models.Assessment{ProjectID: project.ID, AssessorID: 9, Status: models.AssessmentStatusPendingReview}
	require.NoError(t, repo.Create(context.Background(), &assessment))

	require.NoError(t, repo.Finalize(context.Background(), assessment.ID, project.ID))

	stored, err := projects.FindByID(context.Background(), project.ID)
	require.NoError(t, err)
	require.Equal(t, models.PhaseClosed, stored.Phase)

	final, err := repo.FindByProjectAndAssessor(context.Background(), project.ID, 9)
	require.NoError(t, err)
	require.Equal(t, models.AssessmentStatusFinal, final.Status)

	// a second finalize cannot double close
	err = repo.Finalize(context.Background(), assessment.ID, project.ID)
	require.ErrorIs(t, err, ErrAssessmentConflict)
}

func TestAssessmentRepositoryFinalizeRollsBackWhenPhaseMoved(t *testing.T) {
	db := setupCoreTestDB(t, allAssessmentModels()...)
	repo := NewAssessmentRepository(db)
	project := projectFixtures(t, db)

	// project still in phase pre: the phase CAS must fail and the status
	// update must roll back with it
	assessment := models.Assessment{ProjectID: project.ID, AssessorID: 9, Status: models.AssessmentStatusPendingReview}
	require.NoError(t, repo.Create(context.Background(), &assessment))

	err := repo.Finalize(context.Background(), assessment.ID, project.ID)
	require.ErrorIs(t, err, ErrPhaseConflict)

	stored, err := repo.FindByProjectAndAssessor(context.Background(), project.ID, 9)
	require.NoError(t, err)
	require.Equal(t, models.AssessmentStatusPendingReview, stored.Status, "status change must not survive the rollback")
}
