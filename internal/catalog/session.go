package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/lumetv/lume/internal/domain"
)

// Subscriber observes state changes of a session.
type Subscriber func(State)

// Session binds one consumer to the orchestrator: it owns the visible
// state for a single query stream and notifies subscribers on every
// transition. Stale results are discarded at apply time, so a slow
// fetch for a previous query can never clobber a newer one.
type Session struct {
	id     string
	orch   *Orchestrator
	logger *slog.Logger

	mu       sync.Mutex
	query    domain.CollectionQuery
	state    State
	seq      uint64 // issuance counter; results from older issues are dropped
	pages    int    // pages currently folded into state.Content
	subs     map[int]Subscriber
	nextSub  int
	disposed bool
}

// NewSession creates an idle session on the given orchestrator.
func NewSession(orch *Orchestrator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		id:     id,
		orch:   orch,
		logger: logger.With("session", id),
		state:  State{Status: StatusIdle},
		subs:   make(map[int]Subscriber),
	}
}

// Subscribe registers a state observer and returns its unsubscribe
// function. The observer immediately receives the current state.
func (s *Session) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	idx := s.nextSub
	s.nextSub++
	s.subs[idx] = fn
	current := s.state
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, idx)
	}
}

// Current returns the session's latest state snapshot.
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query returns the session's active query.
func (s *Session) Query() domain.CollectionQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Update points the session at a query. Repeated updates with an
// unchanged collection id while the session is not idle are no-ops; a
// changed id supersedes any still-settling request.
func (s *Session) Update(ctx context.Context, q domain.CollectionQuery) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	if q.CollectionID() == s.query.CollectionID() && s.state.Status != StatusIdle {
		s.mu.Unlock()
		return
	}
	s.query = q
	s.pages = 1
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	go s.orch.request(ctx, q, q.ForceRefresh, func(st State) {
		s.apply(seq, st, false)
	})
}

// Refetch forces a fresh fetch of the active query, ignoring the cache.
// Concurrent refetches of the same collection share one fetch.
func (s *Session) Refetch(ctx context.Context) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	q := s.query
	s.pages = 1
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	go s.orch.request(ctx, q, true, func(st State) {
		s.apply(seq, st, false)
	})
}

// LoadMore requests the next page under its own page-scoped collection
// id and appends the result to the visible content. It is a no-op when
// the current state does not indicate more pages.
func (s *Session) LoadMore(ctx context.Context) {
	s.mu.Lock()
	if s.disposed || !s.state.HasMore || s.state.Status == StatusLoading {
		s.mu.Unlock()
		return
	}
	next := s.query
	next.Page = s.query.EffectivePage() + s.pages
	next.ForceRefresh = false
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	go s.orch.request(ctx, next, false, func(st State) {
		s.apply(seq, st, true)
	})
}

// Dispose detaches the session: pending results are dropped and
// subscribers released. Further calls are no-ops.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.subs = make(map[int]Subscriber)
}

// apply folds an operation's state into the session if it is still the
// newest issued operation, then notifies subscribers.
func (s *Session) apply(seq uint64, st State, appendContent bool) {
	s.mu.Lock()
	if s.disposed || seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("dropped stale session result", "seq", seq)
		return
	}

	switch {
	case appendContent && st.Status == StatusLoading:
		// Keep existing content visible while the next page loads.
		s.state.Status = StatusLoading
	case appendContent && st.Status == StatusSuccess:
		merged := make([]domain.ContentItem, 0, len(s.state.Content)+len(st.Content))
		merged = append(merged, s.state.Content...)
		merged = append(merged, st.Content...)
		s.pages++
		s.state = State{
			Status:    StatusSuccess,
			Content:   merged,
			HasMore:   st.HasMore,
			FromCache: st.FromCache,
		}
	default:
		s.state = st
	}

	current := s.state
	observers := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(current)
	}
}
