package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/models"
)

// ProjectRepository reads projects and performs phase transitions. Every
// transition is a conditional update on the expected current phase so that two
// concurrent callers cannot both succeed.
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (models.Project, error)
	CriteriaForProject(ctx context.Context, projectID uint) ([]models.RubricCriterion, error)
	ConfirmLearningGoals(ctx context.Context, projectID uint, goals string) error
	AttachFinalReport(ctx context.Context, projectID uint, url, content string) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository constructs a repository backed by GORM.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("Team").
		Preload("Problem").
		First(&project, id).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (r *projectRepository) CriteriaForProject(ctx context.Context, projectID uint) ([]models.RubricCriterion, error) {
	var criteria []models.RubricCriterion
	err := r.db.WithContext(ctx).
		Joins("JOIN rubrics ON rubrics.id = rubric_criteria.rubric_id").
		Joins("JOIN problems ON problems.id = rubrics.problem_id").
		Joins("JOIN projects ON projects.problem_id = problems.id").
		Where("projects.id = ?", projectID).
		Order("rubric_criteria.sort_order ASC").
		Find(&criteria).Error
	if err != nil {
		return nil, err
	}
	return criteria, nil
}

// ConfirmLearningGoals stores the goals and advances pre -> research in one
// conditional update. Zero affected rows means the project is missing or not
// in phase pre; both surface as ErrPhaseConflict.
func (r *projectRepository) ConfirmLearningGoals(ctx context.Context, projectID uint, goals string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND phase = ?", projectID, models.PhasePre).
		Updates(map[string]interface{}{
			"learning_goals": goals,
			"phase":          models.PhaseResearch,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhaseConflict
	}
	return nil
}

// AttachFinalReport stores the report and advances research -> post in one
// conditional update.
func (r *projectRepository) AttachFinalReport(ctx context.Context, projectID uint, url, content string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND phase = ?", projectID, models.PhaseResearch).
		Updates(map[string]interface{}{
			"final_report_url":     url,
			"final_report_content": content,
			"phase":                models.PhasePost,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhaseConflict
	}
	return nil
}
