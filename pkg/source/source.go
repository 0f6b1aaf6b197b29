package source

import (
	"context"
	"time"
)

// Kind identifies an external data source.
type Kind string

const (
	KindSEC    Kind = "sec"
	KindReddit Kind = "reddit"
	KindTikTok Kind = "tiktok"
)

// All returns every available source kind in fetch-priority order.
func All() []Kind {
	return []Kind{KindSEC, KindReddit, KindTikTok}
}

// Valid reports whether k names a known source.
func (k Kind) Valid() bool {
	switch k {
	case KindSEC, KindReddit, KindTikTok:
		return true
	}
	return false
}

// Record is the normalized shape every connector returns.
// Engagement fields are kind-specific; the zero value means "not applicable".
type Record struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Author      string    `json:"author,omitempty"`
	Subreddit   string    `json:"subreddit,omitempty"`
	FilingType  string    `json:"filing_type,omitempty"`
	CIK         string    `json:"cik,omitempty"`
	Score       int       `json:"score,omitempty"`
	NumComments int       `json:"num_comments,omitempty"`
	Views       int       `json:"views,omitempty"`
	Likes       int       `json:"likes,omitempty"`
	Comments    int       `json:"comments,omitempty"`
	Hashtags    []string  `json:"hashtags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Fallback marks records served from the connector's static payload
	// instead of a live lookup. Live-empty and live-failed both end up
	// here; callers that care can tell them apart from the logs.
	Fallback bool `json:"fallback,omitempty"`
}

// Connector is the uniform fetch contract, one implementation per Kind.
// Implementations recover from transport failures internally: a broken
// or empty live path yields the kind's fallback records, not an error.
// The returned error is reserved for ctx cancellation.
type Connector interface {
	Kind() Kind
	Fetch(ctx context.Context, term string) ([]Record, error)
}
