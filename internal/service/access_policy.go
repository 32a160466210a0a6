package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/internal/repository"
)

// AccessPolicy hosts the pure and read-backed authorization predicates. It
// never mutates state; every method returns validated context or a typed
// error.
type AccessPolicy interface {
	HasEducatorPermissions(role models.Role) bool
	HasAdminPermissions(role models.Role) bool
	ResolvePrincipal(ctx context.Context, userID uint) (Principal, error)
	VerifyTeamMembership(ctx context.Context, teamID, userID uint) error
	VerifyProjectAccess(ctx context.Context, projectID, userID uint, role models.Role) (models.Project, error)
	VerifyCourseOwnership(ctx context.Context, courseID, userID uint, role models.Role) error
	VerifyArtifactPermissions(ctx context.Context, userID uint, role models.Role, ownerID, teamID uint, requireOwnership bool) error
}

type accessPolicy struct {
	users    repository.UserRepository
	teams    repository.TeamRepository
	courses  repository.CourseRepository
	projects repository.ProjectRepository
	logger   zerolog.Logger
}

// NewAccessPolicy constructs the policy over its read-side repositories.
func NewAccessPolicy(users repository.UserRepository, teams repository.TeamRepository, courses repository.CourseRepository, projects repository.ProjectRepository, logger zerolog.Logger) AccessPolicy {
	return &accessPolicy{
		users:    users,
		teams:    teams,
		courses:  courses,
		projects: projects,
		logger:   logger.With().Str("component", "access_policy").Logger(),
	}
}

// HasEducatorPermissions reports whether the role carries educator-level
// rights. Admins always do.
func (p *accessPolicy) HasEducatorPermissions(role models.Role) bool {
	return role == models.RoleEducator || role == models.RoleAdmin
}

// HasAdminPermissions reports whether the role carries admin rights.
func (p *accessPolicy) HasAdminPermissions(role models.Role) bool {
	return role == models.RoleAdmin
}

// ResolvePrincipal loads the authoritative role record for the identity
// provider's subject.
func (p *accessPolicy) ResolvePrincipal(ctx context.Context, userID uint) (Principal, error) {
	if userID == 0 {
		return Principal{}, apperr.Authentication("not_authenticated", "authentication required")
	}

	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, apperr.Authentication("unknown_principal", "authentication required")
		}
		return Principal{}, apperr.Database(err)
	}

	if !user.Role.Valid() {
		return Principal{}, apperr.Authentication("invalid_role", "authentication required")
	}

	return Principal{ID: user.ID, Role: user.Role}, nil
}

// VerifyTeamMembership fails with an authorization error when no membership
// row exists for the pair.
func (p *accessPolicy) VerifyTeamMembership(ctx context.Context, teamID, userID uint) error {
	member, err := p.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return apperr.Database(err)
	}
	if !member {
		return apperr.Authorization("not_team_member", "access denied")
	}
	return nil
}

// VerifyProjectAccess loads the project and enforces team membership for
// students. Educators and admins resolve visibility through their own
// row-filtered reads.
func (p *accessPolicy) VerifyProjectAccess(ctx context.Context, projectID, userID uint, role models.Role) (models.Project, error) {
	project, err := p.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, apperr.NotFound("project")
		}
		return models.Project{}, apperr.Database(err)
	}

	if role == models.RoleStudent {
		if err := p.VerifyTeamMembership(ctx, project.TeamID, userID); err != nil {
			return models.Project{}, err
		}
	}

	return project, nil
}

// VerifyCourseOwnership allows admins unconditionally; educators must own the
// course; students never pass.
func (p *accessPolicy) VerifyCourseOwnership(ctx context.Context, courseID, userID uint, role models.Role) error {
	if p.HasAdminPermissions(role) {
		return nil
	}
	if role != models.RoleEducator {
		return apperr.Authorization("educator_required", "access denied")
	}

	course, err := p.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("course")
		}
		return apperr.Database(err)
	}

	if !course.OwnedBy(userID) {
		return apperr.Authorization("not_course_owner", "access denied")
	}
	return nil
}

// VerifyArtifactPermissions gates artifact mutations: admins and educators are
// always allowed; students must be team members and, when ownership is
// required, the artifact's owner.
func (p *accessPolicy) VerifyArtifactPermissions(ctx context.Context, userID uint, role models.Role, ownerID, teamID uint, requireOwnership bool) error {
	if p.HasEducatorPermissions(role) {
		return nil
	}
	if role != models.RoleStudent {
		return apperr.Authorization("unknown_role", "access denied")
	}

	if requireOwnership && ownerID != userID {
		return apperr.Authorization("not_artifact_owner", "access denied")
	}

	return p.VerifyTeamMembership(ctx, teamID, userID)
}
