package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kevinvandever/secureask/internal/service"
	"github.com/kevinvandever/secureask/pkg/cache"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	cache        *cache.Store
	queryService service.IQueryService
}

func NewHealthController(store *cache.Store, queryService service.IQueryService) IHealthController {
	return &healthController{
		cache:        store,
		queryService: queryService,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	redisUp := false
	if c.cache != nil {
		redisUp = c.cache.Ping(ctx.Context())
	}

	return ctx.JSON(fiber.Map{
		"status":         "healthy",
		"service":        "secureask-api",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"active_queries": c.queryService.ActiveCount(),
		"redis":          redisUp,
	})
}
