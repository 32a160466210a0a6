package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/models"
)

func newInviteService(fx *policyFixture, now func() time.Time) *inviteService {
	svc := NewInviteService(fx.teams, fx.policy, &recordedActivity{}, InviteConfig{
		Secret: "test-secret",
		TTL:    24 * time.Hour,
	}, testLogger()).(*inviteService)
	if now != nil {
		svc.now = now
	}
	return svc
}

func TestGenerateInviteRequiresEducator(t *testing.T) {
	fx := newPolicyFixture()
	svc := newInviteService(fx, nil)

	student := Principal{ID: 2, Role: models.RoleStudent}
	_, err := svc.Generate(context.Background(), 20, student)
	require.Equal(t, "educator_required", apperr.CodeOf(err))

	outsider := Principal{ID: 4, Role: models.RoleEducator}
	_, err = svc.Generate(context.Background(), 20, outsider)
	require.Equal(t, "not_course_owner", apperr.CodeOf(err))
}

func TestGenerateAndAcceptInvite(t *testing.T) {
	fx := newPolicyFixture()
	svc := newInviteService(fx, nil)

	owner := Principal{ID: 1, Role: models.RoleEducator}
	invite, err := svc.Generate(context.Background(), 20, owner)
	require.NoError(t, err)
	require.NotEmpty(t, invite.Token)
	require.Equal(t, uint(20), invite.TeamID)

	joiner := Principal{ID: 4, Role: models.RoleStudent}
	joined, err := svc.Accept(context.Background(), invite.Token, joiner)
	require.NoError(t, err)
	require.Equal(t, uint(20), joined.TeamID)
	require.Equal(t, uint(4), joined.UserID)

	member, err := fx.teams.IsMember(context.Background(), 20, 4)
	require.NoError(t, err)
	require.True(t, member)
}

func TestAcceptInviteRejectsDuplicateMembership(t *testing.T) {
	fx := newPolicyFixture()
	svc := newInviteService(fx, nil)

	owner := Principal{ID: 1, Role: models.RoleEducator}
	invite, err := svc.Generate(context.Background(), 20, owner)
	require.NoError(t, err)

	// user 2 is already enrolled
	member := Principal{ID: 2, Role: models.RoleStudent}
	_, err = svc.Accept(context.Background(), invite.Token, member)
	require.Equal(t, "already_member", apperr.CodeOf(err))

	count, err := fx.teams.CountMembers(context.Background(), 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestAcceptInviteClassifiesExpiredToken(t *testing.T) {
	fx := newPolicyFixture()

	issued := time.Now().Add(-25 * time.Hour)
	issuer := newInviteService(fx, func() time.Time { return issued })

	owner := Principal{ID: 1, Role: models.RoleEducator}
	invite, err := issuer.Generate(context.Background(), 20, owner)
	require.NoError(t, err)

	redeemer := newInviteService(fx, nil)
	joiner := Principal{ID: 4, Role: models.RoleStudent}
	_, err = redeemer.Accept(context.Background(), invite.Token, joiner)
	require.True(t, apperr.IsKind(err, apperr.KindAuthentication))
	require.Equal(t, "invite_expired", apperr.CodeOf(err))

	// no membership was created
	member, err := fx.teams.IsMember(context.Background(), 20, 4)
	require.NoError(t, err)
	require.False(t, member)
}

func TestAcceptInviteRejectsTamperedToken(t *testing.T) {
	fx := newPolicyFixture()
	svc := newInviteService(fx, nil)
	joiner := Principal{ID: 4, Role: models.RoleStudent}

	_, err := svc.Accept(context.Background(), "not-a-token", joiner)
	require.Equal(t, "invite_malformed", apperr.CodeOf(err))

	// signed with a different secret
	claims := inviteClaims{
		TeamID: 20,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "praxis-api",
			Audience:  jwt.ClaimStrings{"praxis.team-invite"},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), forged, joiner)
	require.Equal(t, "invite_malformed", apperr.CodeOf(err))
}

func TestAcceptInviteRejectsDeletedTeam(t *testing.T) {
	fx := newPolicyFixture()
	svc := newInviteService(fx, nil)

	owner := Principal{ID: 1, Role: models.RoleEducator}
	invite, err := svc.Generate(context.Background(), 20, owner)
	require.NoError(t, err)

	delete(fx.teams.teams, 20)

	joiner := Principal{ID: 4, Role: models.RoleStudent}
	_, err = svc.Accept(context.Background(), invite.Token, joiner)
	require.True(t, apperr.IsKind(err, apperr.KindBusinessLogic))
	require.Equal(t, "team_no_longer_exists", apperr.CodeOf(err))
}
