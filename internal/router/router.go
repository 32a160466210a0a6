package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/praxislab/praxis-go-api/internal/config"
	"github.com/praxislab/praxis-go-api/internal/handler"
	"github.com/praxislab/praxis-go-api/internal/middleware"
	"github.com/praxislab/praxis-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProjectHandler      *handler.ProjectHandler
	AssessmentHandler   *handler.AssessmentHandler
	InviteHandler       *handler.InviteHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
	PrincipalMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	passthrough := func(c *fiber.Ctx) error { return c.Next() }
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = passthrough
	}
	// resolves the stored role after token validation
	principalMiddleware := deps.PrincipalMiddleware
	if principalMiddleware == nil {
		principalMiddleware = passthrough
	}

	if deps.ProjectHandler != nil {
		projects := api.Group("/projects", jwtMiddleware, principalMiddleware)
		deps.ProjectHandler.Register(projects)

		if deps.AssessmentHandler != nil {
			deps.AssessmentHandler.Register(projects)
		}
	}

	if deps.InviteHandler != nil {
		teams := api.Group("/teams", jwtMiddleware, principalMiddleware)
		deps.InviteHandler.RegisterTeamRoutes(teams)

		invites := api.Group("/invites", jwtMiddleware, principalMiddleware, middleware.RateLimit("invite-accept", 10, time.Minute))
		deps.InviteHandler.RegisterInviteRoutes(invites)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware, principalMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}
