package service

import (
	"context"
	"errors"

	"github.com/kevinvandever/secureask/internal/dto"
	"github.com/kevinvandever/secureask/pkg/query"
	"github.com/kevinvandever/secureask/pkg/source"
)

// ErrQueryNotFound is returned when no cached result exists for a query id.
var ErrQueryNotFound = errors.New("query not found")

const defaultMaxHops = 3

type IQueryService interface {
	Submit(ctx context.Context, userID string, req *dto.SubmitQueryRequest) (*dto.QueryResponse, error)
	GetByID(ctx context.Context, queryID string) (*dto.QueryResponse, error)
	ActiveCount() int
}

type queryService struct {
	engine *query.Engine
}

func NewQueryService(engine *query.Engine) IQueryService {
	return &queryService{engine: engine}
}

func (s *queryService) Submit(ctx context.Context, userID string, req *dto.SubmitQueryRequest) (*dto.QueryResponse, error) {
	maxHops := req.MaxHops
	if maxHops == 0 {
		maxHops = defaultMaxHops
	}
	includeAnswer := true
	if req.IncludeAnswer != nil {
		includeAnswer = *req.IncludeAnswer
	}

	sources := make([]source.Kind, 0, len(req.Sources))
	for _, raw := range req.Sources {
		kind := source.Kind(raw)
		if !kind.Valid() {
			return nil, errors.New("unknown source: " + raw)
		}
		sources = append(sources, kind)
	}

	resp := s.engine.ProcessQuery(ctx, query.Request{
		Question:      req.Question,
		MaxHops:       maxHops,
		Sources:       sources,
		UserID:        userID,
		IncludeAnswer: includeAnswer,
	})

	out := dto.NewQueryResponse(resp)
	return &out, nil
}

func (s *queryService) GetByID(ctx context.Context, queryID string) (*dto.QueryResponse, error) {
	resp, ok := s.engine.GetResult(ctx, queryID)
	if !ok {
		return nil, ErrQueryNotFound
	}
	out := dto.NewQueryResponse(*resp)
	return &out, nil
}

func (s *queryService) ActiveCount() int {
	return s.engine.ActiveQueries()
}
