package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambrief/teambrief/storage/badger"
)

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()

	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	c, err := New(backend, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_NilBackend(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilBackend)
}

func TestSetGet_RoundTrip(t *testing.T) {
	c := newTestCache(t)

	type answer struct {
		Question string   `json:"question"`
		Text     string   `json:"text"`
		Sources  []string `json:"sources"`
	}

	stored := answer{
		Question: "what shipped last week",
		Text:     "The search rollout completed on Tuesday.",
		Sources:  []string{"chat-118", "docs-42"},
	}
	require.NoError(t, c.Set("q:what shipped last week", stored, 0))

	var loaded answer
	hit, err := c.Get("q:what shipped last week", &loaded)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, stored, loaded)
}

func TestGet_Miss(t *testing.T) {
	c := newTestCache(t)

	var out string
	hit, err := c.Get("never stored", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestGet_ExpiredEntryIsDeleted(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("short-lived", "value", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	var out string
	hit, err := c.Get("short-lived", &out)
	require.NoError(t, err)
	assert.False(t, hit, "expired entries read as misses")

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries, "the expired entry is removed on read")
}

func TestGet_NoTTLRefresh(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("fixed-window", "value", 50*time.Millisecond))

	var out string
	hit, err := c.Get("fixed-window", &out)
	require.NoError(t, err)
	require.True(t, hit)

	// If the read refreshed the TTL this entry would still be alive.
	time.Sleep(70 * time.Millisecond)
	hit, err = c.Get("fixed-window", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDelete(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("k", "v", 0))
	require.NoError(t, c.Delete("k"))

	hit, err := c.Get("k", nil)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Delete("never stored"), "deleting a missing key is a no-op")
}

func TestClearExpired(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("stale-1", "v", 10*time.Millisecond))
	require.NoError(t, c.Set("stale-2", "v", 10*time.Millisecond))
	require.NoError(t, c.Set("fresh", "v", time.Hour))
	time.Sleep(25 * time.Millisecond)

	removed, err := c.ClearExpired()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.ValidEntries)
	assert.Zero(t, stats.ExpiredEntries)
}

func TestStats(t *testing.T) {
	c := newTestCache(t)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)

	require.NoError(t, c.Set("a", "value a", time.Hour))
	require.NoError(t, c.Set("b", "value b", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.ValidEntries)
	assert.Equal(t, 1, stats.ExpiredEntries, "expired entries stay visible until read or swept")
	assert.Positive(t, stats.SizeBytes)
}

func TestSet_DefaultTTLOverride(t *testing.T) {
	c := newTestCache(t, WithDefaultTTL(15*time.Millisecond))

	require.NoError(t, c.Set("k", "v", 0))
	time.Sleep(30 * time.Millisecond)

	hit, err := c.Get("k", nil)
	require.NoError(t, err)
	assert.False(t, hit)
}
