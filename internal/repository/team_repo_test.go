package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/praxislab/praxis-go-api/internal/models"
)

func TestTeamRepositoryAddMemberRejectsDuplicate(t *testing.T) {
	db := setupCoreTestDB(t, &models.Course{}, &models.Team{}, &models.TeamMembership{})
	repo := NewTeamRepository(db)

	team := models.Team{CourseID: 1, Name: "Alpha"}
	require.NoError(t, db.Create(&team).Error)

	first := models.TeamMembership{TeamID: team.ID, UserID: 7}
	require.NoError(t, repo.AddMember(context.Background(), &first))

	second := models.TeamMembership{TeamID: team.ID, UserID: 7}
	err := repo.AddMember(context.Background(), &second)
	require.ErrorIs(t, err, ErrDuplicateMembership)

	count, err := repo.CountMembers(context.Background(), team.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count, "exactly one membership row must remain")
}

func TestTeamRepositoryIsMember(t *testing.T) {
	db := setupCoreTestDB(t, &models.Course{}, &models.Team{}, &models.TeamMembership{})
	repo := NewTeamRepository(db)

	team := models.Team{CourseID: 1, Name: "Beta"}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, repo.AddMember(context.Background(), &models.TeamMembership{TeamID: team.ID, UserID: 3}))

	member, err := repo.IsMember(context.Background(), team.ID, 3)
	require.NoError(t, err)
	require.True(t, member)

	stranger, err := repo.IsMember(context.Background(), team.ID, 4)
	require.NoError(t, err)
	require.False(t, stranger)
}
