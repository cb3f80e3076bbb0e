package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newClockedStore returns a store whose clock is advanced manually, so
// expiry tests never sleep.
func newClockedStore(start time.Time) (*MemoryStore, *time.Time) {
	now := start
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "llm_site:about", "<html>about</html>", time.Hour))

	v, found, err := s.Get(ctx, "llm_site:about")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "<html>about</html>", v)

	_, found, err = s.Get(ctx, "llm_site:missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreExpiry(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s, now := newClockedStore(start)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", time.Hour))

	*now = start.Add(59 * time.Minute)
	_, found, _ := s.Get(ctx, "k")
	assert.True(t, found, "entry must be live before expiry")

	// At the expiry instant the entry is absent, not stale-but-present.
	*now = start.Add(time.Hour)
	_, found, _ = s.Get(ctx, "k")
	assert.False(t, found, "entry must be absent at expiry")

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "expired entry must be purged")
}

func TestMemoryStoreGetPurgesOtherExpiredEntries(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s, now := newClockedStore(start)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", "v", time.Minute))
	require.NoError(t, s.Set(ctx, "long", "v", time.Hour))

	*now = start.Add(10 * time.Minute)
	_, found, _ := s.Get(ctx, "long")
	assert.True(t, found)

	s.mu.Lock()
	_, stillThere := s.entries["short"]
	s.mu.Unlock()
	assert.False(t, stillThere, "lazy purge on read must drop expired siblings")
}

func TestMemoryStorePurgeCadenceOnSet(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s, now := newClockedStore(start)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "expired", "v", time.Minute))
	*now = start.Add(time.Hour)

	// Writes between sweeps leave the expired entry in place.
	for i := 0; i < purgeEvery-2; i++ {
		require.NoError(t, s.Set(ctx, fmt.Sprintf("k%d", i), "v", time.Hour))
	}
	s.mu.Lock()
	_, present := s.entries["expired"]
	s.mu.Unlock()
	assert.True(t, present, "sweep must not run on every insertion")

	// The purgeEvery-th insertion triggers the sweep.
	require.NoError(t, s.Set(ctx, "trigger", "v", time.Hour))
	s.mu.Lock()
	_, present = s.entries["expired"]
	s.mu.Unlock()
	assert.False(t, present, "cadence sweep must drop expired entries")
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", time.Hour))

	removed, err := s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, removed, "second delete removes nothing")
}

func TestMemoryStoreDeleteExpiredNotObservable(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s, now := newClockedStore(start)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	*now = start.Add(time.Hour)

	removed, err := s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, removed, "deleting an expired entry is not a removal")
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1", time.Hour))
	require.NoError(t, s.Set(ctx, "b", "2", time.Hour))

	require.NoError(t, s.Clear(ctx))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Clearing an already-empty store succeeds too.
	require.NoError(t, s.Clear(ctx))
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	done := make(chan struct{})
	for w := 0; w < 8; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%10)
				_ = s.Set(ctx, key, "v", time.Hour)
				_, _, _ = s.Get(ctx, key)
				if i%50 == 0 {
					_, _ = s.Delete(ctx, key)
				}
			}
		}(w)
	}
	for w := 0; w < 8; w++ {
		<-done
	}
}
