package controller

import (
	"docuchat-be/internal/dto"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEvaluationController interface {
	RegisterRoutes(r fiber.Router)
	Record(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type evaluationController struct {
	evaluationService service.IEvaluationService
}

func NewEvaluationController(evaluationService service.IEvaluationService) IEvaluationController {
	return &evaluationController{
		evaluationService: evaluationService,
	}
}

func (c *evaluationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/evaluation/v1")
	h.Post("", c.Record)
	h.Get("stats", c.Stats)
}

func (c *evaluationController) Record(ctx *fiber.Ctx) error {
	var req dto.RecordEvaluationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.evaluationService.Record(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record evaluation", res))
}

func (c *evaluationController) Stats(ctx *fiber.Ctx) error {
	res, err := c.evaluationService.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get evaluation stats", res))
}
