package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumetv/lume/internal/domain"
	"github.com/lumetv/lume/internal/log"
)

func makeItems(n int) []domain.ContentItem {
	items := make([]domain.ContentItem, n)
	for i := range items {
		items[i] = domain.ContentItem{
			ClaimID: fmt.Sprintf("claim-%d", i),
			Title:   fmt.Sprintf("Item %d", i),
		}
	}
	return items
}

func TestStoreAndGet(t *testing.T) {
	c := New(Options{}, log.NullLogger())
	defer c.Destroy()

	items := makeItems(3)
	c.Store("col:a", items)

	got := c.Get("col:a")
	require.Len(t, got, 3)
	assert.Equal(t, "claim-0", got[0].ClaimID)
}

func TestGetAbsentReturnsNil(t *testing.T) {
	c := New(Options{}, log.NullLogger())
	defer c.Destroy()

	assert.Nil(t, c.Get("col:missing"))
}

func TestGetReturnsSameReference(t *testing.T) {
	c := New(Options{}, log.NullLogger())
	defer c.Destroy()

	c.Store("col:a", makeItems(2))

	first := c.Get("col:a")
	second := c.Get("col:a")
	assert.Same(t, &first[0], &second[0], "unchanged entry must yield the same slice")
}

func TestStoreTruncatesToCapacity(t *testing.T) {
	c := New(Options{MaxItems: 5}, log.NullLogger())
	defer c.Destroy()

	c.Store("col:a", makeItems(8))

	got := c.Get("col:a")
	require.Len(t, got, 5)
	// The first items survive, not the last.
	assert.Equal(t, "claim-0", got[0].ClaimID)
	assert.Equal(t, "claim-4", got[4].ClaimID)
}

func TestStoreOverwrites(t *testing.T) {
	c := New(Options{}, log.NullLogger())
	defer c.Destroy()

	c.Store("col:a", makeItems(3))
	c.Store("col:a", makeItems(1))

	assert.Len(t, c.Get("col:a"), 1)
	assert.Equal(t, 1, c.Len())
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := New(Options{}, log.NullLogger())
	defer c.Destroy()

	c.Store("col:a", makeItems(1))
	c.Remove("col:a")
	assert.Nil(t, c.Get("col:a"))

	c.Remove("col:a")
	c.Remove("col:never-existed")
	assert.Equal(t, 0, c.Len())
}

func TestClearIsIdempotent(t *testing.T) {
	c := New(Options{}, log.NullLogger())
	defer c.Destroy()

	c.Store("col:a", makeItems(1))
	c.Store("col:b", makeItems(1))

	c.Clear()
	assert.Equal(t, 0, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestDestroyStopsSweepAndClears(t *testing.T) {
	c := New(Options{
		TTL:             time.Hour,
		AutoCleanup:     true,
		CleanupInterval: time.Millisecond,
	}, log.NullLogger())

	c.Store("col:a", makeItems(1))
	c.Destroy()
	assert.Equal(t, 0, c.Len())

	// Safe to call again.
	c.Destroy()

	// The cache stays usable for writes after Destroy; only the sweep is gone.
	c.Store("col:b", makeItems(1))
	assert.Equal(t, 1, c.Len())
}

func TestSweepEvictsExpiredEntries(t *testing.T) {
	c := New(Options{
		TTL:             5 * time.Millisecond,
		AutoCleanup:     true,
		CleanupInterval: 5 * time.Millisecond,
	}, log.NullLogger())
	defer c.Destroy()

	c.Store("col:a", makeItems(1))

	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 5*time.Millisecond, "expired entry should be swept")
}

func TestNoSweepWithoutTTL(t *testing.T) {
	c := New(Options{AutoCleanup: true}, log.NullLogger())
	defer c.Destroy()

	c.Store("col:a", makeItems(1))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, c.Len())
}
