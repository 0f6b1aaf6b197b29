package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/pkg/graph"
	"github.com/kevinvandever/secureask/pkg/query"
	"github.com/kevinvandever/secureask/pkg/source"
	"github.com/kevinvandever/secureask/pkg/synthesis"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	graph     graph.IClient
	logger    logger.ILogger
}

// NewConsumerService builds the graph-ingest worker. It drains fetched
// records off the bus and writes them into the knowledge graph so that
// query processing never waits on graph writes.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	graphClient graph.IClient,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		graph:     graphClient,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload query.IngestPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("graph_ingest", "Failed to unmarshal ingest message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // malformed payloads never become valid, do not retry
		return
	}

	if cs.graph == nil {
		msg.Ack()
		return
	}

	written := 0
	for kind, records := range payload.Records {
		for _, rec := range records {
			if err := cs.ingestRecord(ctx, payload, kind, rec); err != nil {
				cs.logger.Warn("graph_ingest", "Failed to write record to graph", map[string]interface{}{
					"query_id": payload.QueryID,
					"source":   string(kind),
					"error":    err.Error(),
				})
				continue
			}
			written++
		}
	}

	cs.logger.Info("graph_ingest", "Ingest message processed", map[string]interface{}{
		"query_id":        payload.QueryID,
		"records_written": written,
	})
	msg.Ack()
}

// ingestRecord links the record node to its source, and to the company node
// when the query named a ticker.
func (cs *consumerService) ingestRecord(ctx context.Context, payload query.IngestPayload, kind source.Kind, rec source.Record) error {
	recID := synthesis.NodeID(kind, rec)
	props := map[string]interface{}{
		"title":  rec.Title,
		"url":    rec.URL,
		"source": string(kind),
	}
	if rec.FilingType != "" {
		props["filing_type"] = rec.FilingType
	}
	if rec.Subreddit != "" {
		props["subreddit"] = rec.Subreddit
	}

	if err := cs.graph.CreateTriple(ctx, recID, "PUBLISHED_BY", "source_"+string(kind), props); err != nil {
		return err
	}

	if payload.Ticker != "" {
		if err := cs.graph.CreateTriple(ctx, recID, "MENTIONS", "company_"+payload.Ticker, nil); err != nil {
			return err
		}
	}
	return nil
}
