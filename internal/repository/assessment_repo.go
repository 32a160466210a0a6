package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/models"
)

// AssessmentRepository persists assessments and their per-criterion scores.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	CreateScores(ctx context.Context, scores []models.AssessmentScore) error
	DeleteByID(ctx context.Context, id uint) error
	FindByProjectAndAssessor(ctx context.Context, projectID, assessorID uint) (models.Assessment, error)
	FindByProject(ctx context.Context, projectID uint) (models.Assessment, error)
	Finalize(ctx context.Context, assessmentID, projectID uint) error
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository constructs a repository backed by GORM.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

// Create inserts the assessment row. The unique index on
// (project_id, assessor_id) is the authoritative duplicate check.
func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if err := r.db.WithContext(ctx).Omit("Scores").Create(assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAssessment
		}
		return err
	}
	return nil
}

func (r *assessmentRepository) CreateScores(ctx context.Context, scores []models.AssessmentScore) error {
	if len(scores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&scores).Error
}

// DeleteByID removes an assessment and any score rows already attached. Used
// as the compensating action when score insertion fails partway; both deletes
// run in one transaction so a partial failure cannot strand either side.
func (r *assessmentRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("assessment_id = ?", id).
			Delete(&models.AssessmentScore{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Assessment{}, id).Error
	})
}

func (r *assessmentRepository) FindByProjectAndAssessor(ctx context.Context, projectID, assessorID uint) (models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("project_id = ? AND assessor_id = ?", projectID, assessorID).
		First(&assessment).Error; err != nil {
		return models.Assessment{}, err
	}
	return assessment, nil
}

func (r *assessmentRepository) FindByProject(ctx context.Context, projectID uint) (models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		First(&assessment).Error; err != nil {
		return models.Assessment{}, err
	}
	return assessment, nil
}

// Finalize marks the assessment final and closes the project in a single
// transaction. Both updates are conditional, so a concurrent finalize loses
// cleanly: zero affected rows rolls the whole transaction back.
func (r *assessmentRepository) Finalize(ctx context.Context, assessmentID, projectID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Assessment{}).
			Where("id = ? AND status = ?", assessmentID, models.AssessmentStatusPendingReview).
			Update("status", models.AssessmentStatusFinal)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAssessmentConflict
		}

		result = tx.Model(&models.Project{}).
			Where("id = ? AND phase = ?", projectID, models.PhasePost).
			Update("phase", models.PhaseClosed)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPhaseConflict
		}

		return nil
	})
}
