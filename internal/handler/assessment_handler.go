package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/praxislab/praxis-go-api/internal/dto"
	"github.com/praxislab/praxis-go-api/internal/service"
	"github.com/praxislab/praxis-go-api/internal/utils"
)

// AssessmentHandler exposes the rubric assessment workflow.
type AssessmentHandler struct {
	service service.AssessmentService
	drafts  service.AIReviewService
	logger  zerolog.Logger
}

// NewAssessmentHandler constructs a handler instance.
func NewAssessmentHandler(service service.AssessmentService, drafts service.AIReviewService, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service: service,
		drafts:  drafts,
		logger:  logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register binds the assessment routes under the project group.
func (h *AssessmentHandler) Register(router fiber.Router) {
	router.Get("/:id/assessment", h.getContext)
	router.Post("/:id/assessment", h.create)
	router.Post("/:id/assessment/finalize", h.finalize)
	router.Post("/:id/assessment/draft", h.draft)
	router.Get("/:id/results", h.results)
}

func (h *AssessmentHandler) getContext(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	context, err := h.service.GetContext(requestContext(c), projectID, actor)
	if err != nil {
		return sendResourceError(c, err)
	}

	return utils.SendSuccess(c, "assessment context", context)
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	var payload dto.AssessmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request payload")
	}

	assessment, err := h.service.Create(requestContext(c), projectID, actor, payload)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("project_id", projectID).Msg("assessment rejected")
		return sendResourceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assessment recorded", assessment)
}

func (h *AssessmentHandler) finalize(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	assessment, err := h.service.Finalize(requestContext(c), projectID, actor)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("project_id", projectID).Msg("assessment finalization rejected")
		return sendResourceError(c, err)
	}

	return utils.SendSuccess(c, "assessment finalized", assessment)
}

func (h *AssessmentHandler) draft(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	draft, err := h.drafts.Draft(requestContext(c), projectID, actor)
	if err != nil {
		return sendResourceError(c, err)
	}

	return utils.SendSuccess(c, "assessment draft", draft)
}

func (h *AssessmentHandler) results(c *fiber.Ctx) error {
	actor, ok := principalFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendAppError(c, err)
	}

	results, err := h.service.Results(requestContext(c), projectID, actor)
	if err != nil {
		return sendResourceError(c, err)
	}

	return utils.SendSuccess(c, "assessment results", results)
}
