package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/models"
)

// TeamRepository handles teams and their membership rows.
type TeamRepository interface {
	FindByID(ctx context.Context, id uint) (models.Team, error)
	IsMember(ctx context.Context, teamID, userID uint) (bool, error)
	AddMember(ctx context.Context, membership *models.TeamMembership) error
	CountMembers(ctx context.Context, teamID uint) (int64, error)
	ListMembers(ctx context.Context, teamID uint) ([]models.TeamMembership, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository constructs a repository backed by GORM.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) FindByID(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return models.Team{}, err
	}
	return team, nil
}

func (r *teamRepository) IsMember(ctx context.Context, teamID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TeamMembership{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember inserts the membership row. The unique index on (team_id, user_id)
// closes the check-then-insert race; a conflict is reported as
// ErrDuplicateMembership and is authoritative.
func (r *teamRepository) AddMember(ctx context.Context, membership *models.TeamMembership) error {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

func (r *teamRepository) CountMembers(ctx context.Context, teamID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TeamMembership{}).
		Where("team_id = ?", teamID).
		Count(&count).Error
	return count, err
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID uint) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
