package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/praxislab/praxis-go-api/internal/service"
	"github.com/praxislab/praxis-go-api/internal/utils"
)

// PrincipalResolver loads the stored role record for a subject id.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uint) (service.Principal, error)
}

// ResolvePrincipal replaces the token's role claim with the role stored on the
// user row. Roles change through provisioning, never through token renewal, so
// the claim is only a hint; the row decides authorization. Must run after
// JWTProtected.
func ResolvePrincipal(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok || userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		ctx := c.UserContext()
		if ctx == nil {
			ctx = context.Background()
		}
		principal, err := resolver.ResolvePrincipal(ContextWithCorrelation(ctx, GetCorrelationID(c)), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}

		c.Locals("user_id", principal.ID)
		c.Locals("user_role", string(principal.Role))
		return c.Next()
	}
}
