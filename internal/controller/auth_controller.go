package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kevinvandever/secureask/internal/dto"
	"github.com/kevinvandever/secureask/internal/pkg/serverutils"
	"github.com/kevinvandever/secureask/internal/service"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Demo(ctx *fiber.Ctx) error
}

type authController struct {
	authService service.IAuthService
}

func NewAuthController(authService service.IAuthService) IAuthController {
	return &authController{
		authService: authService,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("demo", c.Demo)
}

// Demo issues an evaluation token. Body is optional.
func (c *authController) Demo(ctx *fiber.Ctx) error {
	var req dto.DemoTokenRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.IssueDemoToken(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Token issued", res))
}
