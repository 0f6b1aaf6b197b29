package cache

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
)

// Key namespaces. Raw per-source payloads and synthesized query results
// live in separate keyspaces with independent TTLs.
const (
	nsExternalAPI = "external_api"
	nsQueryResult = "query_result"
)

// SourceKey namespaces a raw-data cache entry by source kind and a hash of
// the normalized search term.
func SourceKey(source, term string) string {
	return fmt.Sprintf("%s:%s:%x", nsExternalAPI, source, md5.Sum([]byte(term)))
}

// QueryKey namespaces a synthesized-result cache entry by query fingerprint.
func QueryKey(fingerprint string) string {
	return fmt.Sprintf("%s:%s", nsQueryResult, fingerprint)
}

// Fingerprint derives the deterministic identity of a query from its
// question, source set, and hop bound. Source order must not matter.
func Fingerprint(question string, sources []string, maxHops int) string {
	sorted := make([]string, len(sources))
	copy(sorted, sources)
	sort.Strings(sorted)

	raw := fmt.Sprintf("%s:%s:%d", question, strings.Join(sorted, ","), maxHops)
	return fmt.Sprintf("%x", md5.Sum([]byte(raw)))
}
