package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"

	"github.com/kevinvandever/secureask/internal/dto"
	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/pkg/graph"
	"github.com/kevinvandever/secureask/pkg/query"
	"github.com/kevinvandever/secureask/pkg/source"
)

type storedTriple struct {
	subject   string
	predicate string
	object    string
	props     map[string]interface{}
}

type stubGraphClient struct {
	mu      sync.Mutex
	nodes   []graph.Node
	triples []storedTriple
	err     error
}

func (s *stubGraphClient) SearchNodes(_ context.Context, _, _ string, _ int) ([]graph.Node, error) {
	return s.nodes, s.err
}

func (s *stubGraphClient) CreateTriple(_ context.Context, subjectID, predicate, objectID string, props map[string]interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triples = append(s.triples, storedTriple{subjectID, predicate, objectID, props})
	return nil
}

func (s *stubGraphClient) NodeCount(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.triples)), s.err
}

func (s *stubGraphClient) Close(context.Context) error { return nil }

func (s *stubGraphClient) tripleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triples)
}

type capturingPublisher struct {
	topics   []string
	payloads [][]byte
}

func (p *capturingPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		p.topics = append(p.topics, topic)
		p.payloads = append(p.payloads, msg.Payload)
	}
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func TestGraphSearchMapsNodes(t *testing.T) {
	client := &stubGraphClient{
		nodes: []graph.Node{
			{ID: "company_AAPL", Type: "Company", Name: "Apple Inc"},
		},
	}
	svc := NewGraphService(client, nil, "GRAPH_INGEST", nil, logger.NewNop())

	res, err := svc.Search(context.Background(), &dto.GraphSearchRequest{Query: "Apple"})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "company_AAPL", res.Nodes[0].ID)
	assert.Equal(t, "Company", res.Nodes[0].Type)
}

func TestGraphSearchWithoutClient(t *testing.T) {
	svc := NewGraphService(nil, nil, "GRAPH_INGEST", nil, logger.NewNop())

	_, err := svc.Search(context.Background(), &dto.GraphSearchRequest{Query: "Apple"})
	assert.Error(t, err)
}

func TestIngestDocumentPublishesPayload(t *testing.T) {
	pub := &capturingPublisher{}
	svc := NewGraphService(nil, pub, "GRAPH_INGEST", nil, logger.NewNop())

	res, err := svc.IngestDocument(context.Background(), &dto.IngestDocumentRequest{
		Source:  "sec",
		Title:   "10-K excerpt",
		Content: "Climate risk disclosure",
		URL:     "https://www.sec.gov/doc",
		Ticker:  "AAPL",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.DocumentID)
	assert.Equal(t, 2, res.TriplesExtracted)
	assert.Equal(t, 3, res.NodesCreated)

	assert.Equal(t, []string{"GRAPH_INGEST"}, pub.topics)
	var payload query.IngestPayload
	assert.NoError(t, json.Unmarshal(pub.payloads[0], &payload))
	assert.Equal(t, "AAPL", payload.Ticker)
	assert.Len(t, payload.Records[source.KindSEC], 1)
}

func TestIngestDocumentWithoutTicker(t *testing.T) {
	pub := &capturingPublisher{}
	svc := NewGraphService(nil, pub, "GRAPH_INGEST", nil, logger.NewNop())

	res, err := svc.IngestDocument(context.Background(), &dto.IngestDocumentRequest{
		Source:  "reddit",
		Title:   "DD thread",
		Content: "text",
		URL:     "https://reddit.com/p/1",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.TriplesExtracted)
	assert.Equal(t, 2, res.NodesCreated)
}

func TestIngestDocumentStableID(t *testing.T) {
	pub := &capturingPublisher{}
	svc := NewGraphService(nil, pub, "GRAPH_INGEST", nil, logger.NewNop())
	req := &dto.IngestDocumentRequest{
		Source:  "reddit",
		Title:   "DD thread",
		Content: "text",
		URL:     "https://reddit.com/p/1",
	}

	first, err := svc.IngestDocument(context.Background(), req)
	assert.NoError(t, err)
	second, err := svc.IngestDocument(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, first.DocumentID, second.DocumentID)
}
