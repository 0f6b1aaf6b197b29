package dto

import (
	"time"

	"github.com/kevinvandever/secureask/pkg/query"
)

type SubmitQueryRequest struct {
	Question      string   `json:"question" validate:"required,max=1000"`
	MaxHops       int      `json:"max_hops" validate:"omitempty,min=1,max=3"`
	Sources       []string `json:"sources" validate:"omitempty,dive,oneof=sec reddit tiktok"`
	IncludeAnswer *bool    `json:"include_answer"` // defaults to true when omitted
}

type QueryResponse struct {
	QueryID     string        `json:"query_id"`
	Question    string        `json:"question"`
	Status      string        `json:"status"`
	Result      *query.Result `json:"result,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Cached      bool          `json:"cached"`
}

func NewQueryResponse(resp query.Response) QueryResponse {
	return QueryResponse{
		QueryID:     resp.QueryID,
		Question:    resp.Question,
		Status:      string(resp.Status),
		Result:      resp.Result,
		CreatedAt:   resp.CreatedAt,
		CompletedAt: resp.CompletedAt,
		Cached:      resp.Cached,
	}
}
