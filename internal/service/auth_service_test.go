package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/kevinvandever/secureask/internal/dto"
)

func TestIssueDemoToken(t *testing.T) {
	svc := NewAuthService("test-secret")

	res, err := svc.IssueDemoToken(context.Background(), &dto.DemoTokenRequest{UserID: "analyst-1"})
	assert.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, 86400, res.ExpiresIn)

	token, err := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "analyst-1", claims["user_id"])
}

func TestIssueDemoTokenGeneratesUserID(t *testing.T) {
	svc := NewAuthService("test-secret")

	res, err := svc.IssueDemoToken(context.Background(), &dto.DemoTokenRequest{})
	assert.NoError(t, err)

	token, _ := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	claims := token.Claims.(jwt.MapClaims)
	assert.Contains(t, claims["user_id"], "demo-")
}
