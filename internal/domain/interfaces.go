package domain

import "context"

// CatalogFetcher is the injected fetch delegate. Implementations own
// their transport and are expected to bound their own latency; the
// engine only governs retries between attempts.
type CatalogFetcher interface {
	FetchCollection(ctx context.Context, q CollectionQuery) ([]ContentItem, error)
}

// FetcherFunc adapts a plain function to CatalogFetcher.
type FetcherFunc func(ctx context.Context, q CollectionQuery) ([]ContentItem, error)

// FetchCollection implements CatalogFetcher.
func (f FetcherFunc) FetchCollection(ctx context.Context, q CollectionQuery) ([]ContentItem, error) {
	return f(ctx, q)
}

// CollectionCache maps collection ids to ordered item slices. A nil cache
// on the orchestrator disables caching entirely; the orchestrator must
// then never touch the cache, not even for inspection.
type CollectionCache interface {
	// Store overwrites the entry for id, truncating to the cache's
	// configured capacity.
	Store(id string, items []ContentItem)

	// Get returns nil when absent. Repeated calls for an unchanged entry
	// return the same slice reference, so identity comparison is a valid
	// "unchanged" check.
	Get(id string) []ContentItem

	// Remove evicts one entry. Idempotent.
	Remove(id string)

	// Clear evicts everything. Idempotent.
	Clear()
}

// PlaylistSource provides pre-fetched playlists consumed read-only by the
// series organizer. Acquisition is outside the engine.
type PlaylistSource interface {
	Playlists(ctx context.Context) ([]Playlist, error)
}
