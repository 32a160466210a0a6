package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/praxislab/praxis-go-api/internal/service"
	"github.com/praxislab/praxis-go-api/internal/utils"
)

// InviteHandler exposes team invite issuing and acceptance.
type InviteHandler struct {
	service service.InviteService
	logger  zerolog.Logger
}

// NewInviteHandler constructs a handler instance.
func NewInviteHandler(service service.InviteService, logger zerolog.Logger) *InviteHandler {
	return &InviteHandler{
		service: service,
		logger:  logger.With().Str("component", "invite_handler").Logger(),
	}
}

// RegisterTeamRoutes binds invite generation under the teams group.
func (h *InviteHandler) RegisterTeamRoutes(router fiber.Router) {
	router.Post("/:id/invites", h.generate)
}

// RegisterInviteRoutes binds invite acceptance under the invites group.
func (h *InviteHandler) RegisterInviteRoutes(router fiber.Router) {
	router.Post("/accept", h.accept)
}

func (h *InviteHandler) generate(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	invite, err := h.service.Generate(requestContext(c), teamID, actor)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("team_id", teamID).Msg("invite generation rejected")
		return sendResourceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "invite issued", invite)
}

func (h *InviteHandler) accept(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invite token required")
	}

	membership, err := h.service.Accept(requestContext(c), token, actor)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("invite acceptance rejected")
		return utils.SendAppError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "joined team", membership)
}
