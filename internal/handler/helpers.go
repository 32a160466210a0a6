package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/middleware"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/internal/service"
	"github.com/praxislab/praxis-go-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseIDParam(c *fiber.Ctx, key string) (uint, error) {
	raw := c.Params(key)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, apperr.Validation("invalid_id", "invalid "+key)
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func principalFromContext(c *fiber.Ctx) (service.Principal, bool) {
	id := userIDFromContext(c)
	if id == 0 {
		return service.Principal{}, false
	}

	role, ok := models.ParseRole(userRoleFromContext(c))
	if !ok {
		return service.Principal{}, false
	}

	return service.Principal{ID: id, Role: role}, true
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// sendResourceError renders domain errors for resource-scoped routes. Denied
// access and missing rows share one 404 so callers cannot tell which
// resources exist.
func sendResourceError(c *fiber.Ctx, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindAuthorization, apperr.KindNotFound:
		return utils.SendErrorWithCode(c, fiber.StatusNotFound, "resource_not_found", "resource not found")
	default:
		return utils.SendAppError(c, err)
	}
}
