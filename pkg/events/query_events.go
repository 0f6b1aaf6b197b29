package events

import "time"

// Event type codes for the query pipeline.
const (
	TypeQueryCompleted   = "QUERY_COMPLETED"
	TypeQueryFailed      = "QUERY_FAILED"
	TypeDocumentIngested = "DOCUMENT_INGESTED"
)

// NewQueryCompleted signals that a query finished processing, successfully
// or not, with its timing and source coverage.
func NewQueryCompleted(queryID, status string, processingTimeMs int64, sources []string) Event {
	return BaseEvent{
		Type: TypeQueryCompleted,
		Data: map[string]interface{}{
			"query_id":           queryID,
			"status":             status,
			"processing_time_ms": processingTimeMs,
			"sources":            sources,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewQueryFailed signals a terminal orchestration failure.
func NewQueryFailed(queryID, reason string) Event {
	return BaseEvent{
		Type: TypeQueryFailed,
		Data: map[string]interface{}{
			"query_id": queryID,
			"reason":   reason,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewDocumentIngested signals that a document was accepted for graph
// ingestion.
func NewDocumentIngested(documentID, sourceKind, url string) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id": documentID,
			"source":      sourceKind,
			"url":         url,
		},
		OccurredAt: time.Now().UTC(),
	}
}
