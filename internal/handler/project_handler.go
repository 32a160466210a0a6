package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/praxislab/praxis-go-api/internal/dto"
	"github.com/praxislab/praxis-go-api/internal/service"
	"github.com/praxislab/praxis-go-api/internal/utils"
)

// ProjectHandler exposes project lifecycle operations.
type ProjectHandler struct {
	service service.ProjectService
	logger  zerolog.Logger
}

// NewProjectHandler constructs a handler instance.
func NewProjectHandler(service service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger.With().Str("component", "project_handler").Logger(),
	}
}

// Register binds the project lifecycle routes.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Post("/:id/goals", h.confirmGoals)
	router.Post("/:id/report", h.submitReport)
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	project, err := h.service.Get(requestContext(c), projectID, actor)
	if err != nil {
		return sendResourceError(c, err)
	}

	return utils.SendSuccess(c, "project", project)
}

func (h *ProjectHandler) confirmGoals(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	var payload dto.LearningGoalsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request payload")
	}

	project, err := h.service.ConfirmLearningGoals(requestContext(c), projectID, actor, payload)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("project_id", projectID).Msg("learning goals confirmation rejected")
		return sendResourceError(c, err)
	}

	return utils.SendSuccess(c, "learning goals confirmed", project)
}

func (h *ProjectHandler) submitReport(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	var payload dto.FinalReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request payload")
	}

	project, err := h.service.SubmitFinalReport(requestContext(c), projectID, actor, payload)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("project_id", projectID).Msg("final report submission rejected")
		return sendResourceError(c, err)
	}

	return utils.SendSuccess(c, "final report attached", project)
}
