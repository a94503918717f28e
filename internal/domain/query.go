package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPageSize is the item count requested when a query does not set
// an explicit limit.
const DefaultPageSize = 20

// CollectionQuery names a result set over the remote catalog. The derived
// CollectionID is both the cache key and the deduplication key.
type CollectionQuery struct {
	Tags         []string // Tag filter (any-of)
	Text         string   // Free-text search
	Page         int      // 1-based page number (0 = first page)
	Limit        int      // Requested item count (0 = DefaultPageSize)
	ForceRefresh bool     // Bypass the cache for this request
}

// EffectiveLimit returns the item count the fetch delegate should return.
func (q CollectionQuery) EffectiveLimit() int {
	if q.Limit > 0 {
		return q.Limit
	}
	return DefaultPageSize
}

// EffectivePage returns the 1-based page number.
func (q CollectionQuery) EffectivePage() int {
	if q.Page > 0 {
		return q.Page
	}
	return 1
}

// NextPage returns the query for the page after this one.
func (q CollectionQuery) NextPage() CollectionQuery {
	next := q
	next.Page = q.EffectivePage() + 1
	next.ForceRefresh = false
	return next
}

// CollectionID derives the deterministic collection identifier. Identical
// queries always map to the same id; tag order does not matter.
// ForceRefresh is deliberately excluded: it directs a single fetch and is
// not part of the collection's identity.
func (q CollectionQuery) CollectionID() string {
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return fmt.Sprintf("col:%s|q=%s|p=%d|n=%d",
		strings.Join(tags, ","), strings.TrimSpace(q.Text), q.EffectivePage(), q.EffectiveLimit())
}
