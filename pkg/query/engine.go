package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/internal/repository/memory"
	"github.com/kevinvandever/secureask/pkg/cache"
	"github.com/kevinvandever/secureask/pkg/events"
	"github.com/kevinvandever/secureask/pkg/source"
	"github.com/kevinvandever/secureask/pkg/synthesis"
)

// IngestPayload is the message published to the graph-ingest topic after a
// fan-in completes. The consumer turns it into graph triples.
type IngestPayload struct {
	QueryID  string                          `json:"query_id"`
	Question string                          `json:"question"`
	Ticker   string                          `json:"ticker,omitempty"`
	Records  map[source.Kind][]source.Record `json:"records"`
}

// Engine is the query orchestrator: fingerprint, cache check, intent
// extraction, concurrent source fan-out, fan-in, synthesis, write-through.
type Engine struct {
	connectors  map[source.Kind]source.Connector
	cache       *cache.Store
	registry    *memory.QueryRegistry
	synthesizer *synthesis.Synthesizer
	publisher   message.Publisher
	ingestTopic string
	eventPub    events.Publisher
	timeout     time.Duration
	logger      logger.ILogger
}

func NewEngine(
	connectors []source.Connector,
	store *cache.Store,
	registry *memory.QueryRegistry,
	synthesizer *synthesis.Synthesizer,
	publisher message.Publisher,
	ingestTopic string,
	eventPub events.Publisher,
	queryTimeout time.Duration,
	log logger.ILogger,
) *Engine {
	byKind := make(map[source.Kind]source.Connector, len(connectors))
	for _, c := range connectors {
		byKind[c.Kind()] = c
	}
	return &Engine{
		connectors:  byKind,
		cache:       store,
		registry:    registry,
		synthesizer: synthesizer,
		publisher:   publisher,
		ingestTopic: ingestTopic,
		eventPub:    eventPub,
		timeout:     queryTimeout,
		logger:      log,
	}
}

// ProcessQuery runs one question through the pipeline and always returns a
// well-formed response envelope. Per-source failures degrade to missing
// citations; only an orchestration bug produces StatusFailed.
func (e *Engine) ProcessQuery(ctx context.Context, req Request) Response {
	start := time.Now()
	queryID := uuid.NewString()
	createdAt := start.UTC()

	sources := req.Sources
	if len(sources) == 0 {
		sources = source.All()
	}

	e.registry.Register(&memory.ActiveQuery{
		QueryID:   queryID,
		UserID:    req.UserID,
		Question:  req.Question,
		MaxHops:   req.MaxHops,
		Sources:   sources,
		StartedAt: start,
	})
	// Cleanup must run on every exit path, including the recovery branch.
	defer e.registry.Deregister(queryID)

	e.logger.Info("orchestrator", "Processing new query", map[string]interface{}{
		"query_id":         queryID,
		"question_preview": preview(req.Question, 100),
		"sources":          kindStrings(sources),
	})

	fingerprint := cache.Fingerprint(req.Question, kindStrings(sources), req.MaxHops)
	if cached, ok := e.lookupCached(ctx, fingerprint); ok {
		e.logger.Info("orchestrator", "Query served from result cache", map[string]interface{}{
			"query_id":    queryID,
			"fingerprint": fingerprint,
		})
		return cached
	}

	return e.run(ctx, queryID, createdAt, fingerprint, req, sources, start)
}

// run executes steps 2-6 under a top-level recovery guard: any panic in
// extraction, fan-out, or synthesis becomes a terminal FAILED envelope.
func (e *Engine) run(
	ctx context.Context,
	queryID string,
	createdAt time.Time,
	fingerprint string,
	req Request,
	sources []source.Kind,
	start time.Time,
) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("orchestrator", "Query processing failed", map[string]interface{}{
				"query_id":           queryID,
				"processing_time_ms": time.Since(start).Milliseconds(),
				"error":              fmt.Sprint(r),
			})
			now := time.Now().UTC()
			resp = Response{
				QueryID:     queryID,
				Question:    req.Question,
				Status:      StatusFailed,
				CreatedAt:   createdAt,
				CompletedAt: &now,
			}
			e.publishEvent(events.NewQueryFailed(queryID, fmt.Sprint(r)))
		}
	}()

	intent := ExtractIntent(req.Question)
	e.logger.Info("orchestrator", "Extracted query components", map[string]interface{}{
		"query_id":     queryID,
		"ticker":       intent.Ticker,
		"search_terms": intent.SearchTerms,
	})

	bySource := e.fetchAll(ctx, queryID, intent, sources)
	e.publishIngest(queryID, req.Question, intent.Ticker, bySource)

	outcome := e.synthesizer.Synthesize(req.Question, bySource, req.IncludeAnswer)

	elapsed := time.Since(start).Milliseconds()
	now := time.Now().UTC()
	resp = Response{
		QueryID:  queryID,
		Question: req.Question,
		Status:   StatusCompleted,
		Result: &Result{
			Answer:           outcome.Answer,
			Citations:        outcome.Citations,
			GraphPath:        outcome.GraphPath,
			ProcessingTimeMs: elapsed,
		},
		CreatedAt:   createdAt,
		CompletedAt: &now,
	}

	e.storeResult(ctx, fingerprint, queryID, resp)
	e.publishEvent(events.NewQueryCompleted(queryID, string(StatusCompleted), elapsed, kindStrings(sources)))

	e.logger.Info("orchestrator", "Query completed", map[string]interface{}{
		"query_id":           queryID,
		"processing_time_ms": elapsed,
		"citations":          len(outcome.Citations),
	})
	return resp
}

type fetchOutcome struct {
	kind    source.Kind
	records []source.Record
	err     error
}

// fetchAll dispatches the selected fetches concurrently and collects every
// outcome. Failure domains are isolated: one source panicking or erroring
// never cancels the others, it just contributes zero records.
func (e *Engine) fetchAll(ctx context.Context, queryID string, intent Intent, sources []source.Kind) map[source.Kind][]source.Record {
	// The per-query deadline bounds the whole fan-out; an overrun shows up
	// as ctx errors on the slow sources and the query completes partially.
	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type dispatch struct {
		kind source.Kind
		term string
	}
	var dispatches []dispatch
	for _, kind := range sources {
		switch kind {
		case source.KindSEC:
			// Regulatory lookups need a company; no ticker, no fetch.
			if intent.Ticker != "" {
				dispatches = append(dispatches, dispatch{kind, intent.Ticker})
			}
		case source.KindReddit, source.KindTikTok:
			dispatches = append(dispatches, dispatch{kind, intent.SearchTerms})
		}
	}

	ch := make(chan fetchOutcome, len(dispatches))
	for _, d := range dispatches {
		go func(d dispatch) {
			defer func() {
				if r := recover(); r != nil {
					ch <- fetchOutcome{kind: d.kind, err: fmt.Errorf("fetch panicked: %v", r)}
				}
			}()
			records, err := e.fetchSource(fetchCtx, d.kind, d.term)
			ch <- fetchOutcome{kind: d.kind, records: records, err: err}
		}(d)
	}

	bySource := make(map[source.Kind][]source.Record, len(dispatches))
	for range dispatches {
		out := <-ch
		if out.err != nil {
			e.logger.Warn("orchestrator", "Source fetch failed", map[string]interface{}{
				"query_id": queryID,
				"source":   string(out.kind),
				"error":    out.err.Error(),
			})
			continue
		}
		if len(out.records) > 0 {
			bySource[out.kind] = out.records
		}
	}

	e.logger.Info("orchestrator", "External data collection complete", map[string]interface{}{
		"query_id":           queryID,
		"successful_sources": len(bySource),
	})
	return bySource
}

// fetchSource consults the raw-data cache before calling the connector and
// writes fresh results back with the source-specific TTL. Cache trouble
// degrades silently to "no cache"; it never aborts the fetch.
func (e *Engine) fetchSource(ctx context.Context, kind source.Kind, term string) ([]source.Record, error) {
	key := cache.SourceKey(string(kind), term)

	if raw, ok := e.cache.Get(ctx, key); ok {
		var records []source.Record
		if err := json.Unmarshal([]byte(raw), &records); err == nil {
			e.logger.Info("orchestrator", "Source data served from cache", map[string]interface{}{
				"source": string(kind),
				"term":   term,
			})
			return records, nil
		}
	}

	conn, ok := e.connectors[kind]
	if !ok {
		return nil, fmt.Errorf("no connector registered for source %s", kind)
	}

	records, err := conn.Fetch(ctx, term)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		e.cache.Set(ctx, key, string(data), ttlFor(kind))
	}
	return records, nil
}

// GetResult returns a previously cached query response by id.
func (e *Engine) GetResult(ctx context.Context, queryID string) (*Response, bool) {
	raw, ok := e.cache.Get(ctx, cache.QueryKey(queryID))
	if !ok {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		e.logger.Warn("orchestrator", "Cached result is unreadable", map[string]interface{}{
			"query_id": queryID,
			"error":    err.Error(),
		})
		return nil, false
	}
	return &resp, true
}

// ActiveQueries reports how many queries are currently in flight.
func (e *Engine) ActiveQueries() int {
	return e.registry.Count()
}

func (e *Engine) lookupCached(ctx context.Context, fingerprint string) (Response, bool) {
	raw, ok := e.cache.Get(ctx, cache.QueryKey(fingerprint))
	if !ok {
		return Response{}, false
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		// Corrupt entry: recompute rather than fail.
		return Response{}, false
	}
	resp.Cached = true
	return resp, true
}

// storeResult writes the response under both the fingerprint key (for
// idempotent resubmission) and the query-id key (for GET by id).
func (e *Engine) storeResult(ctx context.Context, fingerprint, queryID string, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		e.logger.Warn("orchestrator", "Failed to serialize result for cache", map[string]interface{}{
			"query_id": queryID,
			"error":    err.Error(),
		})
		return
	}
	e.cache.Set(ctx, cache.QueryKey(fingerprint), string(data), cache.TTLQueryResult)
	e.cache.Set(ctx, cache.QueryKey(queryID), string(data), cache.TTLQueryResult)
}

func (e *Engine) publishIngest(queryID, question, ticker string, bySource map[source.Kind][]source.Record) {
	if e.publisher == nil || len(bySource) == 0 {
		return
	}
	payload, err := json.Marshal(IngestPayload{
		QueryID:  queryID,
		Question: question,
		Ticker:   ticker,
		Records:  bySource,
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := e.publisher.Publish(e.ingestTopic, msg); err != nil {
		e.logger.Warn("orchestrator", "Failed to publish ingest payload", map[string]interface{}{
			"query_id": queryID,
			"error":    err.Error(),
		})
	}
}

func (e *Engine) publishEvent(event events.Event) {
	if e.eventPub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.eventPub.Publish(ctx, event); err != nil {
		e.logger.Warn("orchestrator", "Failed to publish lifecycle event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func ttlFor(kind source.Kind) time.Duration {
	if kind == source.KindSEC {
		return cache.TTLRegulatory
	}
	return cache.TTLSocial
}

func kindStrings(kinds []source.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
