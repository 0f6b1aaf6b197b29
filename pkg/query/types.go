package query

import (
	"time"

	"github.com/kevinvandever/secureask/pkg/source"
	"github.com/kevinvandever/secureask/pkg/synthesis"
)

// Status is the terminal state of a query. Processing is synchronous, so a
// response only ever reports completed or failed.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Result is the payload of a completed query. It is produced once by the
// orchestrator and handed out as an immutable snapshot.
type Result struct {
	Answer           string               `json:"answer,omitempty"`
	Citations        []synthesis.Citation `json:"citations"`
	GraphPath        []string             `json:"graph_path"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
}

// Response is the envelope every caller receives. A failed query looks
// exactly like a completed one except Result is absent; callers must check
// Status before reading Result.
type Response struct {
	QueryID     string     `json:"query_id"`
	Question    string     `json:"question"`
	Status      Status     `json:"status"`
	Result      *Result    `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Cached marks a response served from the query-result cache. The
	// Result itself is the cached snapshot, untouched.
	Cached bool `json:"cached,omitempty"`
}

// Request carries one incoming question into the orchestrator.
type Request struct {
	Question      string
	MaxHops       int
	Sources       []source.Kind
	UserID        string
	IncludeAnswer bool
}
