// Package cache provides the bounded in-memory collection cache. It is
// constructor-injected rather than process-global so independent
// orchestrators can be tested without leaking state into each other.
package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lumetv/lume/internal/domain"
)

// Options configures a CollectionCache.
type Options struct {
	// MaxItems caps the length of each stored entry. Oversized entries
	// are truncated keeping the first MaxItems items. 0 = no cap.
	MaxItems int

	// TTL is the age past which the sweep evicts entries. 0 = no aging.
	TTL time.Duration

	// AutoCleanup starts a background sweep that evicts entries older
	// than TTL. Destroy stops it.
	AutoCleanup bool

	// CleanupInterval is the sweep period. Defaults to one minute.
	CleanupInterval time.Duration
}

type entry struct {
	items    []domain.ContentItem
	storedAt time.Time
}

// CollectionCache maps collection ids to ordered item slices. Writes are
// last-writer-wins; there is no transactional isolation.
type CollectionCache struct {
	opts   Options
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]entry

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a cache and, when configured, starts its sweep goroutine.
func New(opts Options, logger *slog.Logger) *CollectionCache {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}

	c := &CollectionCache{
		opts:    opts,
		logger:  logger,
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}

	if opts.AutoCleanup && opts.TTL > 0 {
		go c.sweep()
	}

	return c
}

// Store overwrites any prior entry for id, truncating to MaxItems.
func (c *CollectionCache) Store(id string, items []domain.ContentItem) {
	if c.opts.MaxItems > 0 && len(items) > c.opts.MaxItems {
		items = items[:c.opts.MaxItems]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry{items: items, storedAt: time.Now()}
}

// Get returns the stored slice for id, or nil when absent. The same
// reference is returned for an unchanged entry; callers must treat it
// as read-only.
func (c *CollectionCache) Get(id string) []domain.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return nil
	}
	return e.items
}

// Len returns the number of cached collections.
func (c *CollectionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Remove evicts one entry. Removing an absent id is a no-op.
func (c *CollectionCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Clear evicts every entry.
func (c *CollectionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Destroy halts the sweep goroutine and releases all entries. Safe to
// call more than once.
func (c *CollectionCache) Destroy() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.Clear()
}

// sweep periodically evicts entries older than TTL until Destroy.
func (c *CollectionCache) sweep() {
	ticker := time.NewTicker(c.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.evictExpired(now)
		}
	}
}

func (c *CollectionCache) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for id, e := range c.entries {
		if now.Sub(e.storedAt) > c.opts.TTL {
			delete(c.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		c.logger.Debug("evicted expired collections", "count", evicted)
	}
}
