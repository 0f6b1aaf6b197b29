package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kevinvandever/secureask/internal/dto"
)

const demoTokenTTL = 24 * time.Hour

type IAuthService interface {
	IssueDemoToken(ctx context.Context, req *dto.DemoTokenRequest) (*dto.DemoTokenResponse, error)
}

type authService struct {
	jwtSecret string
}

func NewAuthService(jwtSecret string) IAuthService {
	return &authService{jwtSecret: jwtSecret}
}

// IssueDemoToken mints a short-lived bearer token for evaluation use. There
// is no user store; the caller either names a user id or gets a random one.
func (s *authService) IssueDemoToken(_ context.Context, req *dto.DemoTokenRequest) (*dto.DemoTokenResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = fmt.Sprintf("demo-%s", uuid.NewString()[:8])
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(demoTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.DemoTokenResponse{
		Token:     signed,
		TokenType: "bearer",
		ExpiresIn: int(demoTokenTTL.Seconds()),
	}, nil
}
