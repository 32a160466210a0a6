package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/dto"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/internal/observability"
	"github.com/praxislab/praxis-go-api/internal/repository"
)

// InviteConfig carries the signing parameters for team-join tokens.
type InviteConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// InviteService issues and redeems stateless signed team-join capability
// tokens. No token is stored server side; verification is cryptographic plus
// one existence check against the team row.
type InviteService interface {
	Generate(ctx context.Context, teamID uint, issuer Principal) (dto.InviteTokenResponse, error)
	Accept(ctx context.Context, token string, actor Principal) (dto.TeamJoinResponse, error)
}

type inviteClaims struct {
	TeamID uint `json:"team_id"`
	jwt.RegisteredClaims
}

type inviteService struct {
	teams    repository.TeamRepository
	policy   AccessPolicy
	activity ActivityRecorder
	cfg      InviteConfig
	logger   zerolog.Logger
	now      func() time.Time
}

// NewInviteService constructs the invite token service.
func NewInviteService(teams repository.TeamRepository, policy AccessPolicy, activity ActivityRecorder, cfg InviteConfig, logger zerolog.Logger) InviteService {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "praxis-api"
	}
	if cfg.Audience == "" {
		cfg.Audience = "praxis.team-invite"
	}

	return &inviteService{
		teams:    teams,
		policy:   policy,
		activity: activity,
		cfg:      cfg,
		logger:   logger.With().Str("component", "invite_service").Logger(),
		now:      time.Now,
	}
}

// Generate signs a team-join token. The issuer must hold educator or admin
// permissions and own the team's course.
func (s *inviteService) Generate(ctx context.Context, teamID uint, issuer Principal) (dto.InviteTokenResponse, error) {
	if !s.policy.HasEducatorPermissions(issuer.Role) {
		return dto.InviteTokenResponse{}, apperr.Authorization("educator_required", "access denied")
	}

	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InviteTokenResponse{}, apperr.NotFound("team")
		}
		return dto.InviteTokenResponse{}, apperr.Database(err)
	}

	if err := s.policy.VerifyCourseOwnership(ctx, team.CourseID, issuer.ID, issuer.Role); err != nil {
		return dto.InviteTokenResponse{}, err
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.cfg.TTL)

	claims := inviteClaims{
		TeamID: teamID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return dto.InviteTokenResponse{}, apperr.Wrap(apperr.KindDatabase, "token_signing_failed", "could not issue invite", err)
	}

	observability.InvitesIssuedTotal().Inc()

	return dto.InviteTokenResponse{
		Token:     signed,
		TeamID:    teamID,
		ExpiresAt: expiresAt,
	}, nil
}

// verify validates the token statelessly, then checks that the referenced
// team still exists so tokens cannot resurrect deleted teams. Failures are
// classified distinctly: expired, malformed or tampered, not yet valid, team
// no longer exists.
func (s *inviteService) verify(ctx context.Context, token string) (inviteClaims, error) {
	var claims inviteClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			observability.InviteVerifyTotal().WithLabelValues("expired").Inc()
			return inviteClaims{}, apperr.Authentication("invite_expired", "the invite has expired")
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			observability.InviteVerifyTotal().WithLabelValues("not_yet_valid").Inc()
			return inviteClaims{}, apperr.Authentication("invite_not_yet_valid", "the invite is not valid yet")
		default:
			observability.InviteVerifyTotal().WithLabelValues("malformed").Inc()
			return inviteClaims{}, apperr.Authentication("invite_malformed", "the invite is invalid")
		}
	}

	if claims.TeamID == 0 {
		observability.InviteVerifyTotal().WithLabelValues("malformed").Inc()
		return inviteClaims{}, apperr.Authentication("invite_malformed", "the invite is invalid")
	}

	if _, err := s.teams.FindByID(ctx, claims.TeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.InviteVerifyTotal().WithLabelValues("team_gone").Inc()
			return inviteClaims{}, apperr.BusinessLogic("team_no_longer_exists", "the invited team no longer exists")
		}
		return inviteClaims{}, apperr.Database(err)
	}

	observability.InviteVerifyTotal().WithLabelValues("ok").Inc()
	return claims, nil
}

// Accept redeems a token for the authenticated user. A pre-existing
// membership rejects the call; the unique index is the idempotency guard.
func (s *inviteService) Accept(ctx context.Context, token string, actor Principal) (dto.TeamJoinResponse, error) {
	if actor.ID == 0 {
		return dto.TeamJoinResponse{}, apperr.Authentication("not_authenticated", "authentication required")
	}

	claims, err := s.verify(ctx, token)
	if err != nil {
		return dto.TeamJoinResponse{}, err
	}

	membership := models.TeamMembership{TeamID: claims.TeamID, UserID: actor.ID}
	if err := s.teams.AddMember(ctx, &membership); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return dto.TeamJoinResponse{}, apperr.BusinessLogic("already_member", "the user already belongs to the team")
		}
		return dto.TeamJoinResponse{}, apperr.Database(err)
	}

	if s.activity != nil {
		teamID := claims.TeamID
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "team.joined",
			EntityType: "team",
			EntityID:   &teamID,
		})
	}

	return dto.TeamJoinResponse{
		TeamID:   claims.TeamID,
		UserID:   actor.ID,
		MemberID: membership.ID,
	}, nil
}
