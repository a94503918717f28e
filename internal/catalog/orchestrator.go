// Package catalog implements the content acquisition engine: deduplicated,
// retried, cache-aware fetches of named collections, with classified
// failures and a consumer-facing state machine.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lumetv/lume/internal/cache"
	"github.com/lumetv/lume/internal/classify"
	"github.com/lumetv/lume/internal/domain"
	"github.com/lumetv/lume/internal/retry"
)

// operation tracks one in-flight fetch for a collection id. Callers that
// arrive while it is pending wait on done and observe its final state.
type operation struct {
	token uint64
	done  chan struct{}
	state State // settled state, written before done is closed
}

// Orchestrator is the central controller for collection fetches. It owns
// per-collection deduplication and supersession bookkeeping; consumer
// state lives in Session.
type Orchestrator struct {
	fetcher domain.CatalogFetcher
	cache   *cache.CollectionCache // nil disables caching entirely
	backoff retry.BackoffConfig
	logger  *slog.Logger

	mu       sync.Mutex
	inflight map[string]*operation
	tokens   map[string]uint64 // monotonically increasing per collection id
}

// New creates an orchestrator. A nil cache disables caching: no cache
// method is ever invoked, not even for inspection.
func New(fetcher domain.CatalogFetcher, c *cache.CollectionCache, backoff retry.BackoffConfig, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		fetcher:  fetcher,
		cache:    c,
		backoff:  backoff,
		logger:   logger,
		inflight: make(map[string]*operation),
		tokens:   make(map[string]uint64),
	}
}

// RequestCollection fetches the collection named by q, consulting the
// cache unless q.ForceRefresh is set, and returns the settled state.
// Concurrent calls for the same collection id share a single delegate
// invocation.
func (o *Orchestrator) RequestCollection(ctx context.Context, q domain.CollectionQuery) State {
	return o.request(ctx, q, q.ForceRefresh, nil)
}

// Refetch forces a fresh fetch ignoring any cached entry. It is subject
// to the same per-id mutual exclusion as RequestCollection.
func (o *Orchestrator) Refetch(ctx context.Context, q domain.CollectionQuery) State {
	return o.request(ctx, q, true, nil)
}

// request runs the full fetch flow. apply, when non-nil, observes
// intermediate and final states; it is only invoked while this
// operation's token is still the newest for its collection id.
func (o *Orchestrator) request(ctx context.Context, q domain.CollectionQuery, force bool, apply func(State)) State {
	id := q.CollectionID()

	o.mu.Lock()
	if op, ok := o.inflight[id]; ok {
		o.mu.Unlock()
		o.logger.Debug("attached to in-flight fetch", "collection", id)
		select {
		case <-op.done:
		case <-ctx.Done():
			return State{Status: StatusError, Err: classify.Classify(ctx.Err())}
		}
		o.applyIfCurrent(id, op.token, op.state, apply)
		return op.state
	}

	token := o.tokens[id] + 1
	o.tokens[id] = token
	op := &operation{token: token, done: make(chan struct{})}
	o.inflight[id] = op
	o.mu.Unlock()

	if o.cache != nil && !force {
		if items := o.cache.Get(id); items != nil {
			st := State{
				Status:    StatusSuccess,
				Content:   items,
				HasMore:   len(items) == q.EffectiveLimit(),
				FromCache: true,
			}
			o.logger.Debug("cache hit", "collection", id, "count", len(items))
			o.settle(id, op, st, apply, false)
			return st
		}
	}

	o.applyIfCurrent(id, token, State{Status: StatusLoading}, apply)

	st := o.fetchWithRetry(ctx, id, q)
	o.settle(id, op, st, apply, st.Status == StatusSuccess)
	return st
}

// fetchWithRetry runs the delegate through the retry executor and maps
// the outcome to a state. Non-retryable failures stop the schedule early.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, id string, q domain.CollectionQuery) State {
	cfg := o.backoff
	cfg.OnRetry = func(attempt uint, err error) {
		o.logger.Warn("fetch attempt failed", "collection", id, "attempt", attempt, "error", err)
	}
	cfg.RetryIf = func(err error) bool {
		return classify.Classify(failureValue(err)).Retryable
	}

	items, err := retry.RunWithBackoff(func() ([]domain.ContentItem, error) {
		return o.safeFetch(ctx, q)
	}, cfg)
	if err != nil {
		classified := classify.Classify(failureValue(err))
		o.logger.Error("collection fetch failed", "collection", id,
			"category", classified.Category.String(), "error", classified.Message)
		// Prior content is cleared on failure, not retained.
		return State{Status: StatusError, Content: []domain.ContentItem{}, Err: classified}
	}

	o.logger.Info("collection fetched", "collection", id, "count", len(items))
	return State{
		Status:  StatusSuccess,
		Content: items,
		HasMore: len(items) == q.EffectiveLimit(),
	}
}

// settle records the operation's final state, releases the in-flight
// marker, and applies side effects only when the operation has not been
// superseded by a newer token for the same collection.
func (o *Orchestrator) settle(id string, op *operation, st State, apply func(State), writeCache bool) {
	o.mu.Lock()
	current := o.tokens[id] == op.token
	if o.inflight[id] == op {
		delete(o.inflight, id)
	}
	o.mu.Unlock()

	if current {
		if writeCache && o.cache != nil {
			o.cache.Store(id, st.Content)
		}
		if apply != nil {
			apply(st)
		}
	} else {
		o.logger.Debug("discarding superseded result", "collection", id, "token", op.token)
	}

	op.state = st
	close(op.done)
}

// applyIfCurrent invokes apply unless a newer token has been issued for
// the collection since this operation started.
func (o *Orchestrator) applyIfCurrent(id string, token uint64, st State, apply func(State)) {
	if apply == nil {
		return
	}
	o.mu.Lock()
	current := o.tokens[id] == token
	o.mu.Unlock()
	if current {
		apply(st)
	}
}

// safeFetch invokes the delegate, converting a panic into an error so a
// misbehaving delegate cannot crash the engine.
func (o *Orchestrator) safeFetch(ctx context.Context, q domain.CollectionQuery) (items []domain.ContentItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &delegatePanicError{value: r}
		}
	}()
	return o.fetcher.FetchCollection(ctx, q)
}

// delegatePanicError carries the recovered panic value through the retry
// executor without losing it.
type delegatePanicError struct {
	value any
}

func (e *delegatePanicError) Error() string {
	return fmt.Sprintf("delegate failure: %v", e.value)
}

// failureValue unwraps a recovered panic back to its original value so
// classification sees what the delegate actually threw.
func failureValue(err error) any {
	if pe, ok := err.(*delegatePanicError); ok {
		return pe.value
	}
	return err
}
