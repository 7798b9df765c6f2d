package controller

import (
	"errors"

	"ai-travelplanner-be/internal/dto"
	"ai-travelplanner-be/internal/pkg/serverutils"
	"ai-travelplanner-be/internal/service"
	"ai-travelplanner-be/pkg/agent"
	"ai-travelplanner-be/pkg/llm"
	"ai-travelplanner-be/pkg/planner"

	"github.com/gofiber/fiber/v2"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type planController struct {
	service service.IPlanService
}

func NewPlanController(service service.IPlanService) IPlanController {
	return &planController{service: service}
}

func (c *planController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/plan")
	// Anonymous planning is allowed; a valid token attaches memory and
	// history.
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Post("/generate", c.Generate)
}

func (c *planController) Generate(ctx *fiber.Ctx) error {
	var req dto.GeneratePlanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	userId, _ := ctx.Locals("user_id").(string)

	res, err := c.service.GeneratePlan(ctx.Context(), userId, &req)
	if err != nil {
		status := planErrorStatus(err)
		return ctx.Status(status).JSON(serverutils.ErrorResponse(status, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Plan generated", res))
}

func planErrorStatus(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, agent.ErrPipelineExhausted):
		return fiber.StatusBadGateway
	case errors.Is(err, llm.ErrProvider):
		return fiber.StatusBadGateway
	case errors.Is(err, llm.ErrConfiguration):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
