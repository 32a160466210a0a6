package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/praxislab/praxis-go-api/internal/apperr"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/internal/service"
)

type staticResolver struct {
	principal service.Principal
	err       error
}

func (r staticResolver) ResolvePrincipal(_ context.Context, _ uint) (service.Principal, error) {
	return r.principal, r.err
}

func TestResolvePrincipalStoredRoleReplacesClaim(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_role", "educator")
		return c.Next()
	})
	app.Use(ResolvePrincipal(staticResolver{principal: service.Principal{ID: 7, Role: models.RoleStudent}}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_role").(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "student", string(body))
}

func TestResolvePrincipalRejectsMissingSubject(t *testing.T) {
	app := fiber.New()
	app.Use(ResolvePrincipal(staticResolver{principal: service.Principal{ID: 7, Role: models.RoleStudent}}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestResolvePrincipalRejectsUnknownSubject(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		return c.Next()
	})
	app.Use(ResolvePrincipal(staticResolver{err: apperr.Authentication("unknown_principal", "authentication required")}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
