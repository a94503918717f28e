package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lumetv/lume/internal/domain"
)

// prefetchConcurrency bounds simultaneous warm-up fetches so a cold
// start does not hammer the catalog.
const prefetchConcurrency = 4

// Prefetch warms the cache for several collections concurrently. Per-id
// deduplication still applies, so overlapping queries cost one fetch.
// Individual failures are logged and folded into session state on the
// next request; they never abort the remaining warm-ups.
func (o *Orchestrator) Prefetch(ctx context.Context, queries []domain.CollectionQuery) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)

	for _, q := range queries {
		g.Go(func() error {
			st := o.RequestCollection(ctx, q)
			if st.Err != nil {
				o.logger.Warn("prefetch failed", "collection", q.CollectionID(), "error", st.Err.Message)
			}
			return nil
		})
	}

	_ = g.Wait()
}
