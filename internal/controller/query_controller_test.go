package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/kevinvandever/secureask/internal/config"
	"github.com/kevinvandever/secureask/internal/dto"
	"github.com/kevinvandever/secureask/internal/pkg/serverutils"
	"github.com/kevinvandever/secureask/internal/service"
)

type stubQueryService struct {
	lastUserID string
	response   *dto.QueryResponse
	err        error
}

func (s *stubQueryService) Submit(_ context.Context, userID string, _ *dto.SubmitQueryRequest) (*dto.QueryResponse, error) {
	s.lastUserID = userID
	return s.response, s.err
}

func (s *stubQueryService) GetByID(_ context.Context, queryID string) (*dto.QueryResponse, error) {
	if s.response != nil && s.response.QueryID == queryID {
		return s.response, nil
	}
	return nil, service.ErrQueryNotFound
}

func (s *stubQueryService) ActiveCount() int { return 0 }

func setupQueryAppWithSecret(t *testing.T, svc service.IQueryService, secret string) (*fiber.App, string) {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api/v1")
	NewQueryController(svc, serverutils.NewJwtMiddleware(secret)).RegisterRoutes(api)

	token, err := service.NewAuthService(secret).IssueDemoToken(context.Background(), &dto.DemoTokenRequest{UserID: "tester"})
	assert.NoError(t, err)

	return app, token.Token
}

func setupQueryApp(t *testing.T, svc service.IQueryService) (*fiber.App, string) {
	return setupQueryAppWithSecret(t, svc, "test-secret")
}

// Tokens issued under the default configuration must pass the guard on the
// protected routes, since both sides read the secret from config.
func TestSubmitQueryDefaultSecret(t *testing.T) {
	if prev, ok := os.LookupEnv("JWT_SECRET"); ok {
		os.Unsetenv("JWT_SECRET")
		t.Cleanup(func() { os.Setenv("JWT_SECRET", prev) })
	}
	cfg := config.Load()

	svc := &stubQueryService{
		response: &dto.QueryResponse{QueryID: "q-789", Status: "completed"},
	}
	app, token := setupQueryAppWithSecret(t, svc, cfg.Keys.JWTSecret)

	req := httptest.NewRequest("POST", "/api/v1/query", strings.NewReader(`{"question":"Apple climate risk"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSubmitQueryRequiresToken(t *testing.T) {
	app, _ := setupQueryApp(t, &stubQueryService{})

	req := httptest.NewRequest("POST", "/api/v1/query", strings.NewReader(`{"question":"Apple climate risk"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitQuerySuccess(t *testing.T) {
	now := time.Now().UTC()
	svc := &stubQueryService{
		response: &dto.QueryResponse{
			QueryID:   "q-123",
			Question:  "Apple climate risk",
			Status:    "completed",
			CreatedAt: now,
		},
	}
	app, token := setupQueryApp(t, svc)

	req := httptest.NewRequest("POST", "/api/v1/query", strings.NewReader(`{"question":"Apple climate risk","max_hops":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "tester", svc.lastUserID)

	var body struct {
		Success bool              `json:"success"`
		Data    dto.QueryResponse `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "q-123", body.Data.QueryID)
}

func TestSubmitQueryValidation(t *testing.T) {
	app, token := setupQueryApp(t, &stubQueryService{})

	tests := []struct {
		name string
		body string
	}{
		{"missing question", `{}`},
		{"max hops out of range", `{"question":"Apple climate risk","max_hops":9}`},
		{"unknown source", `{"question":"Apple climate risk","sources":["myspace"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/query", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestShowQueryNotFound(t *testing.T) {
	app, token := setupQueryApp(t, &stubQueryService{})

	req := httptest.NewRequest("GET", "/api/v1/query/nope", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestShowQueryFound(t *testing.T) {
	svc := &stubQueryService{
		response: &dto.QueryResponse{QueryID: "q-456", Status: "completed"},
	}
	app, token := setupQueryApp(t, svc)

	req := httptest.NewRequest("GET", "/api/v1/query/q-456", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
