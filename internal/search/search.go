// Package search provides fuzzy filtering over fetched content items.
package search

import (
	"log/slog"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/lumetv/lume/internal/domain"
)

// Result is a ranked match with metadata for highlighting.
type Result struct {
	Item           domain.ContentItem
	MatchedIndexes []int // Rune positions in Title that matched
	Score          int   // Higher = better
}

// Service ranks content items against free-text queries.
type Service struct {
	logger *slog.Logger
}

// NewService creates a new search service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// titleSource adapts a content slice to the fuzzy matcher.
type titleSource []domain.ContentItem

func (t titleSource) String(i int) string { return t[i].Title }
func (t titleSource) Len() int            { return len(t) }

// Filter ranks items whose titles fuzzy-match the query, best first.
// An empty query returns nil.
func (s *Service) Filter(query string, items []domain.ContentItem) []Result {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return nil
	}

	matches := sahilm.FindFrom(query, titleSource(items))

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, Result{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}

	s.logger.Debug("filtered content", "query", query, "candidates", len(items), "matches", len(results))
	return results
}

// MatchesTitle reports whether the query loosely matches a single title.
// Used for incremental narrowing where full ranking is unnecessary.
func MatchesTitle(query, title string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return fuzzy.MatchNormalizedFold(query, title)
}
