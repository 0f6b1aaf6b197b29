package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/internal/repository/memory"
	"github.com/kevinvandever/secureask/pkg/cache"
	"github.com/kevinvandever/secureask/pkg/relevance"
	"github.com/kevinvandever/secureask/pkg/source"
	"github.com/kevinvandever/secureask/pkg/synthesis"
)

type fakeConnector struct {
	kind    source.Kind
	records []source.Record
	err     error
	panics  bool

	mu    sync.Mutex
	calls int
	terms []string
}

func (f *fakeConnector) Kind() source.Kind { return f.kind }

func (f *fakeConnector) Fetch(_ context.Context, term string) ([]source.Record, error) {
	f.mu.Lock()
	f.calls++
	f.terms = append(f.terms, term)
	f.mu.Unlock()
	if f.panics {
		panic("connector blew up")
	}
	return f.records, f.err
}

func (f *fakeConnector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memClient is a map-backed cache.Client safe for the concurrent writes the
// fan-out produces.
type memClient struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemClient() *memClient {
	return &memClient{data: map[string]string{}}
}

func (c *memClient) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (c *memClient) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (c *memClient) Ping(_ context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func newTestEngine(client cache.Client, connectors ...source.Connector) *Engine {
	log := logger.NewNop()
	policy := cache.RetryPolicy{MaxAttempts: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	return NewEngine(
		connectors,
		cache.NewStore(client, policy, log),
		memory.NewQueryRegistry(),
		synthesis.NewSynthesizer(relevance.NewExtractor(), synthesis.DefaultPolicy(), log),
		nil,
		"GRAPH_INGEST",
		nil,
		2*time.Second,
		log,
	)
}

func secFiling() source.Record {
	return source.Record{
		Title:      "10-K Filing",
		Content:    "Climate risk and supply chain exposure are disclosed",
		URL:        "https://www.sec.gov/filing/aapl",
		FilingType: "10-K",
		CIK:        "0000320193",
	}
}

func TestProcessQueryCompletesWithPartialFailures(t *testing.T) {
	secConn := &fakeConnector{kind: source.KindSEC, records: []source.Record{secFiling()}}
	redditConn := &fakeConnector{kind: source.KindReddit, err: errors.New("rate limited")}
	tiktokConn := &fakeConnector{kind: source.KindTikTok, panics: true}

	engine := newTestEngine(newMemClient(), secConn, redditConn, tiktokConn)
	resp := engine.ProcessQuery(context.Background(), Request{
		Question:      "What are Apple's climate risks?",
		MaxHops:       3,
		IncludeAnswer: true,
	})

	if resp.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", resp.Status)
	}
	if resp.Result == nil {
		t.Fatal("completed query has no result")
	}
	for _, c := range resp.Result.Citations {
		if c.Source != source.KindSEC {
			t.Errorf("citation from failed source %s", c.Source)
		}
	}
	if len(resp.Result.Citations) == 0 {
		t.Error("surviving source produced no citations")
	}
	if resp.CompletedAt == nil {
		t.Error("completed query missing completion timestamp")
	}
	if engine.ActiveQueries() != 0 {
		t.Errorf("registry still tracks %d queries after completion", engine.ActiveQueries())
	}
}

func TestProcessQueryIdempotentResubmission(t *testing.T) {
	secConn := &fakeConnector{kind: source.KindSEC, records: []source.Record{secFiling()}}
	engine := newTestEngine(newMemClient(), secConn)

	req := Request{
		Question:      "Apple climate risk",
		MaxHops:       3,
		Sources:       []source.Kind{source.KindSEC},
		IncludeAnswer: true,
	}

	first := engine.ProcessQuery(context.Background(), req)
	second := engine.ProcessQuery(context.Background(), req)

	if first.Cached {
		t.Error("first response marked cached")
	}
	if !second.Cached {
		t.Error("identical resubmission not served from cache")
	}
	if second.Result == nil || second.Result.Answer != first.Result.Answer {
		t.Error("cached result differs from original")
	}
	if second.QueryID != first.QueryID {
		t.Error("cached response carries a different query id")
	}
	if secConn.callCount() != 1 {
		t.Errorf("connector called %d times, want 1", secConn.callCount())
	}
}

func TestProcessQuerySkipsSECWithoutTicker(t *testing.T) {
	secConn := &fakeConnector{kind: source.KindSEC, records: []source.Record{secFiling()}}
	redditConn := &fakeConnector{kind: source.KindReddit, records: []source.Record{
		{Title: "DD thread", Content: "climate discussion", URL: "https://reddit.com/p/1", Score: 150},
	}}

	engine := newTestEngine(newMemClient(), secConn, redditConn)
	resp := engine.ProcessQuery(context.Background(), Request{
		Question:      "What are the biggest ESG investing trends?",
		MaxHops:       2,
		Sources:       []source.Kind{source.KindSEC, source.KindReddit},
		IncludeAnswer: true,
	})

	if secConn.callCount() != 0 {
		t.Error("regulatory source fetched without a company ticker")
	}
	if redditConn.callCount() != 1 {
		t.Errorf("reddit called %d times, want 1", redditConn.callCount())
	}
	if resp.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", resp.Status)
	}
}

func TestGetResultByQueryID(t *testing.T) {
	secConn := &fakeConnector{kind: source.KindSEC, records: []source.Record{secFiling()}}
	engine := newTestEngine(newMemClient(), secConn)

	resp := engine.ProcessQuery(context.Background(), Request{
		Question:      "Apple climate risk",
		MaxHops:       3,
		Sources:       []source.Kind{source.KindSEC},
		IncludeAnswer: true,
	})

	got, ok := engine.GetResult(context.Background(), resp.QueryID)
	if !ok {
		t.Fatal("result not found by query id")
	}
	if got.QueryID != resp.QueryID || got.Result == nil {
		t.Error("retrieved result does not match original")
	}

	if _, ok := engine.GetResult(context.Background(), "missing-id"); ok {
		t.Error("lookup of unknown id reported a result")
	}
}

func TestProcessQueryRawCacheReuse(t *testing.T) {
	client := newMemClient()
	secConn := &fakeConnector{kind: source.KindSEC, records: []source.Record{secFiling()}}
	engine := newTestEngine(client, secConn)

	engine.ProcessQuery(context.Background(), Request{
		Question: "Apple climate risk",
		MaxHops:  3,
		Sources:  []source.Kind{source.KindSEC},
	})

	// Different question, same ticker: result cache misses but the raw
	// source cache already holds the filings.
	engine.ProcessQuery(context.Background(), Request{
		Question: "How does Apple manage supply chain risk?",
		MaxHops:  3,
		Sources:  []source.Kind{source.KindSEC},
	})

	if secConn.callCount() != 1 {
		t.Errorf("connector called %d times, want raw cache to serve the second query", secConn.callCount())
	}
}

func TestPreviewKeepsRuneBoundary(t *testing.T) {
	got := preview(strings.Repeat("ü", 40), 25)

	if !utf8.ValidString(got) {
		t.Fatalf("preview is not valid UTF-8: %q", got)
	}
	if len(got) > 25 {
		t.Errorf("preview is %d bytes, want at most 25", len(got))
	}
}
