package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/kevinvandever/secureask/internal/dto"
	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/pkg/events"
	"github.com/kevinvandever/secureask/pkg/graph"
	"github.com/kevinvandever/secureask/pkg/query"
	"github.com/kevinvandever/secureask/pkg/source"
)

const defaultSearchLimit = 20

type IGraphService interface {
	Search(ctx context.Context, req *dto.GraphSearchRequest) (*dto.GraphSearchResponse, error)
	IngestDocument(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
}

type graphService struct {
	client      graph.IClient
	publisher   message.Publisher
	ingestTopic string
	eventPub    events.Publisher
	logger      logger.ILogger
}

func NewGraphService(
	client graph.IClient,
	publisher message.Publisher,
	ingestTopic string,
	eventPub events.Publisher,
	log logger.ILogger,
) IGraphService {
	return &graphService{
		client:      client,
		publisher:   publisher,
		ingestTopic: ingestTopic,
		eventPub:    eventPub,
		logger:      log,
	}
}

func (s *graphService) Search(ctx context.Context, req *dto.GraphSearchRequest) (*dto.GraphSearchResponse, error) {
	if s.client == nil {
		return nil, fmt.Errorf("graph database is not available")
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	nodes, err := s.client.SearchNodes(ctx, req.Query, req.Label, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.GraphSearchResponse{
		Nodes: make([]dto.GraphNodeResponse, 0, len(nodes)),
		Total: len(nodes),
	}
	for _, n := range nodes {
		resp.Nodes = append(resp.Nodes, dto.GraphNodeResponse{
			ID:         n.ID,
			Type:       n.Type,
			Name:       n.Name,
			Properties: n.Properties,
		})
	}
	return resp, nil
}

// IngestDocument accepts a single externally supplied document and hands it
// to the graph-ingest worker over the bus, the same path fetched records
// take. The returned counts describe the triples the worker will write.
func (s *graphService) IngestDocument(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	if s.publisher == nil {
		return nil, fmt.Errorf("ingest pipeline is not available")
	}

	docID := documentID(req.Source, req.URL, req.Title)
	payload := query.IngestPayload{
		QueryID:  "ingest_" + docID,
		Question: req.Title,
		Ticker:   req.Ticker,
		Records: map[source.Kind][]source.Record{
			source.Kind(req.Source): {{
				Title:     req.Title,
				Content:   req.Content,
				URL:       req.URL,
				CreatedAt: time.Now().UTC(),
			}},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize ingest payload: %w", err)
	}
	if err := s.publisher.Publish(s.ingestTopic, message.NewMessage(watermill.NewUUID(), data)); err != nil {
		return nil, fmt.Errorf("failed to enqueue document: %w", err)
	}

	// One document-to-source triple, plus a company link when a ticker is
	// given. Each triple merges two nodes and one edge.
	triples := 1
	if req.Ticker != "" {
		triples = 2
	}

	s.logger.Info("graph_service", "Document queued for ingest", map[string]interface{}{
		"document_id": docID,
		"source":      req.Source,
	})

	if s.eventPub != nil {
		if err := s.eventPub.Publish(ctx, events.NewDocumentIngested(docID, req.Source, req.URL)); err != nil {
			s.logger.Warn("graph_service", "Failed to publish ingest event", map[string]interface{}{
				"document_id": docID,
				"error":       err.Error(),
			})
		}
	}

	return &dto.IngestDocumentResponse{
		DocumentID:       docID,
		TriplesExtracted: triples,
		NodesCreated:     triples + 1,
		EdgesCreated:     triples,
	}, nil
}

// documentID derives a stable node id so re-ingesting the same document
// merges instead of duplicating.
func documentID(source, url, title string) string {
	seed := url
	if seed == "" {
		seed = title
	}
	sum := md5.Sum([]byte(seed))
	return fmt.Sprintf("%s_%s", source, hex.EncodeToString(sum[:]))
}
