package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kevinvandever/secureask/internal/dto"
	"github.com/kevinvandever/secureask/internal/pkg/serverutils"
	"github.com/kevinvandever/secureask/internal/service"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type queryController struct {
	queryService service.IQueryService
	auth         fiber.Handler
}

func NewQueryController(queryService service.IQueryService, auth fiber.Handler) IQueryController {
	return &queryController{
		queryService: queryService,
		auth:         auth,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/query")
	h.Use(c.auth)
	h.Post("", c.Submit)
	h.Get(":id", c.Show)
}

func (c *queryController) Submit(ctx *fiber.Ctx) error {
	userID := serverutils.UserID(ctx)

	var req dto.SubmitQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.queryService.Submit(ctx.Context(), userID, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Query processed", res))
}

func (c *queryController) Show(ctx *fiber.Ctx) error {
	queryID := ctx.Params("id")
	if queryID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing query id"))
	}

	res, err := c.queryService.GetByID(ctx.Context(), queryID)
	if err != nil {
		if errors.Is(err, service.ErrQueryNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Query not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Query found", res))
}
