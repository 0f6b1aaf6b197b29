package dto

type DemoTokenRequest struct {
	UserID string `json:"user_id" validate:"omitempty,max=100"`
}

type DemoTokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}
