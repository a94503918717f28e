package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumetv/lume/internal/cache"
	"github.com/lumetv/lume/internal/domain"
	"github.com/lumetv/lume/internal/log"
	"github.com/lumetv/lume/internal/retry"
)

func fastBackoff(maxRetries int) retry.BackoffConfig {
	return retry.BackoffConfig{
		MaxRetries:        maxRetries,
		InitialDelay:      time.Millisecond,
		BackoffMultiplier: 2,
	}
}

func makeItems(n int) []domain.ContentItem {
	items := make([]domain.ContentItem, n)
	for i := range items {
		items[i] = domain.ContentItem{
			ClaimID: fmt.Sprintf("claim-%d", i),
			Title:   fmt.Sprintf("Item %d", i),
			Tags:    []string{"movie"},
		}
	}
	return items
}

func newTestCache(t *testing.T) *cache.CollectionCache {
	t.Helper()
	c := cache.New(cache.Options{MaxItems: 100}, log.NullLogger())
	t.Cleanup(c.Destroy)
	return c
}

func TestRequestCollectionSuccess(t *testing.T) {
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		return makeItems(3), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	st := o.RequestCollection(context.Background(), domain.CollectionQuery{Tags: []string{"movie"}, Limit: 5})

	assert.Equal(t, StatusSuccess, st.Status)
	assert.Len(t, st.Content, 3)
	assert.False(t, st.HasMore, "a short page means the catalog is exhausted")
	assert.False(t, st.FromCache)
	assert.Nil(t, st.Err)
}

func TestRequestCollectionHasMore(t *testing.T) {
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		return makeItems(q.EffectiveLimit()), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	st := o.RequestCollection(context.Background(), domain.CollectionQuery{Tags: []string{"movie"}, Limit: 4})

	assert.Equal(t, StatusSuccess, st.Status)
	assert.True(t, st.HasMore, "a full page implies more pages likely exist")
}

func TestRequestCollectionDeduplicates(t *testing.T) {
	const callers = 8

	var invocations atomic.Int32
	gate := make(chan struct{})
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		invocations.Add(1)
		<-gate
		return makeItems(2), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	q := domain.CollectionQuery{Tags: []string{"movie"}}
	var wg sync.WaitGroup
	states := make([]State, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = o.RequestCollection(context.Background(), q)
		}(i)
	}

	// Let every caller reach the in-flight operation before it settles.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), invocations.Load(), "concurrent identical requests must share one fetch")
	for _, st := range states {
		assert.Equal(t, StatusSuccess, st.Status)
		assert.Len(t, st.Content, 2)
	}
}

func TestRequestCollectionServesFromCache(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		invocations.Add(1)
		return makeItems(2), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	q := domain.CollectionQuery{Tags: []string{"movie"}}
	first := o.RequestCollection(context.Background(), q)
	second := o.RequestCollection(context.Background(), q)

	assert.Equal(t, int32(1), invocations.Load())
	assert.False(t, first.FromCache)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Content, second.Content)
}

func TestForceRefreshBypassesCache(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		invocations.Add(1)
		return makeItems(2), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	q := domain.CollectionQuery{Tags: []string{"movie"}}
	o.RequestCollection(context.Background(), q)

	q.ForceRefresh = true
	st := o.RequestCollection(context.Background(), q)

	assert.Equal(t, int32(2), invocations.Load(), "force refresh must hit the delegate")
	assert.False(t, st.FromCache)
}

func TestRefetchIgnoresCache(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		invocations.Add(1)
		return makeItems(2), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	q := domain.CollectionQuery{Tags: []string{"movie"}}
	o.RequestCollection(context.Background(), q)
	o.Refetch(context.Background(), q)

	assert.Equal(t, int32(2), invocations.Load())
}

func TestNilCacheNeverCaches(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		invocations.Add(1)
		return makeItems(2), nil
	})
	o := New(fetcher, nil, fastBackoff(0), log.NullLogger())

	q := domain.CollectionQuery{Tags: []string{"movie"}}
	o.RequestCollection(context.Background(), q)
	st := o.RequestCollection(context.Background(), q)

	assert.Equal(t, int32(2), invocations.Load(), "disabled cache must mean a fetch per request")
	assert.False(t, st.FromCache)
}

func TestErrorStateClearsContent(t *testing.T) {
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		return nil, errors.New("network unreachable")
	})
	o := New(fetcher, newTestCache(t), fastBackoff(1), log.NullLogger())

	st := o.RequestCollection(context.Background(), domain.CollectionQuery{Tags: []string{"movie"}})

	assert.Equal(t, StatusError, st.Status)
	require.NotNil(t, st.Content)
	assert.Empty(t, st.Content, "failure must present empty content, not stale content")
	require.NotNil(t, st.Err)
	assert.Equal(t, domain.ErrorNetwork, st.Err.Category)
	assert.True(t, st.Err.Retryable)
}

func TestFailedFetchNotCached(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		if invocations.Add(1) == 1 {
			return nil, errors.New("network unreachable")
		}
		return makeItems(2), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	q := domain.CollectionQuery{Tags: []string{"movie"}}
	first := o.RequestCollection(context.Background(), q)
	second := o.RequestCollection(context.Background(), q)

	assert.Equal(t, StatusError, first.Status)
	assert.Equal(t, StatusSuccess, second.Status)
	assert.False(t, second.FromCache, "an error state must not be served from cache")
}

func TestRetrySucceedsMidSchedule(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		if invocations.Add(1) < 3 {
			return nil, errors.New("connection reset")
		}
		return makeItems(1), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(3), log.NullLogger())

	st := o.RequestCollection(context.Background(), domain.CollectionQuery{Tags: []string{"movie"}})

	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, int32(3), invocations.Load())
}

func TestOfflineFailureStopsRetries(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		invocations.Add(1)
		return nil, errors.New("no internet connection")
	})
	o := New(fetcher, newTestCache(t), fastBackoff(5), log.NullLogger())

	st := o.RequestCollection(context.Background(), domain.CollectionQuery{Tags: []string{"movie"}})

	assert.Equal(t, StatusError, st.Status)
	require.NotNil(t, st.Err)
	assert.Equal(t, domain.ErrorOffline, st.Err.Category)
	assert.False(t, st.Err.Retryable)
	assert.Equal(t, int32(1), invocations.Load(), "offline failures must not be retried")
}

func TestPanickingDelegateIsContained(t *testing.T) {
	type weird struct{ Reason string }

	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		panic(weird{Reason: "bad state"})
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	st := o.RequestCollection(context.Background(), domain.CollectionQuery{Tags: []string{"movie"}})

	assert.Equal(t, StatusError, st.Status)
	require.NotNil(t, st.Err)
	assert.Equal(t, weird{Reason: "bad state"}, st.Err.Details, "the thrown value must be preserved")
	assert.NotEmpty(t, st.Err.Message)
}

func TestDistinctCollectionsFetchIndependently(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		invocations.Add(1)
		return makeItems(1), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	o.RequestCollection(context.Background(), domain.CollectionQuery{Tags: []string{"movie"}})
	o.RequestCollection(context.Background(), domain.CollectionQuery{Tags: []string{"series"}})

	assert.Equal(t, int32(2), invocations.Load())
}

func TestPrefetchWarmsCache(t *testing.T) {
	var invocations atomic.Int32
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		invocations.Add(1)
		return makeItems(2), nil
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	queries := []domain.CollectionQuery{
		{Tags: []string{"movie"}},
		{Tags: []string{"series"}},
	}
	o.Prefetch(context.Background(), queries)

	st := o.RequestCollection(context.Background(), queries[0])
	assert.True(t, st.FromCache)
	assert.Equal(t, int32(2), invocations.Load())
}

func TestPrefetchSwallowsFailures(t *testing.T) {
	fetcher := domain.FetcherFunc(func(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
		return nil, errors.New("network unreachable")
	})
	o := New(fetcher, newTestCache(t), fastBackoff(0), log.NullLogger())

	// Must not panic or propagate; prefetching is best-effort.
	o.Prefetch(context.Background(), []domain.CollectionQuery{{Tags: []string{"movie"}}})
}
