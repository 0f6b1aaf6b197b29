package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kevinvandever/secureask/internal/dto"
	"github.com/kevinvandever/secureask/internal/pkg/serverutils"
	"github.com/kevinvandever/secureask/internal/service"
)

type IGraphController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
}

type graphController struct {
	graphService service.IGraphService
	auth         fiber.Handler
}

func NewGraphController(graphService service.IGraphService, auth fiber.Handler) IGraphController {
	return &graphController{
		graphService: graphService,
		auth:         auth,
	}
}

func (c *graphController) RegisterRoutes(r fiber.Router) {
	r.Post("/ingest", c.auth, c.Ingest)

	h := r.Group("/graph")
	h.Use(c.auth)
	h.Post("search", c.Search)
}

func (c *graphController) Search(ctx *fiber.Ctx) error {
	var req dto.GraphSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.graphService.Search(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Search complete", res))
}

func (c *graphController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.graphService.IngestDocument(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, err.Error()))
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document ingested", res))
}
