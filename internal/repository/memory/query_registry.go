package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/kevinvandever/secureask/pkg/source"
)

// ActiveQuery tracks one in-flight query for the duration of processing.
type ActiveQuery struct {
	QueryID   string
	UserID    string
	Question  string
	MaxHops   int
	Sources   []source.Kind
	StartedAt time.Time
}

// QueryRegistry is the in-memory active-query table. Entries are written
// and removed only by the orchestrator goroutine that owns the query id;
// the TTL is a safety net so a crashed query can't leak an entry forever.
type QueryRegistry struct {
	cache *cache.Cache
}

func NewQueryRegistry() *QueryRegistry {
	// Entries expire after 5 minutes and are purged every 10 minutes.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &QueryRegistry{
		cache: c,
	}
}

func (r *QueryRegistry) Register(q *ActiveQuery) {
	r.cache.Set(q.QueryID, q, cache.DefaultExpiration)
}

func (r *QueryRegistry) Get(queryID string) (*ActiveQuery, bool) {
	if x, found := r.cache.Get(queryID); found {
		return x.(*ActiveQuery), true
	}
	return nil, false
}

func (r *QueryRegistry) Deregister(queryID string) {
	r.cache.Delete(queryID)
}

func (r *QueryRegistry) Count() int {
	return r.cache.ItemCount()
}
