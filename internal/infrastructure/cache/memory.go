package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// purgeEvery is the insertion cadence for the opportunistic expiry sweep.
// Sweeping every write would cost O(n) per call; a small amount of memory
// overshoot between sweeps is acceptable.
const purgeEvery = 64

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is the in-process fallback store: a mutex-guarded map of
// normalized key to (value, absolute expiry). Entries are never observed
// past their expiry; expired entries count as absent, not stale.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	sets    int

	// now is replaceable in tests to advance time without sleeping.
	now func() time.Time
}

// NewMemoryStore creates an empty fallback store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Get returns the live value for key. Expired entries found under any key
// are purged first, so a sweep-missed entry can never be served.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked()

	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value with an absolute expiry of now+ttl. Every purgeEvery-th
// insertion triggers an expiry sweep.
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}

	s.sets++
	if s.sets%purgeEvery == 0 {
		s.purgeExpiredLocked()
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	delete(s.entries, key)
	if !e.expiresAt.After(s.now()) {
		// Removing an already-expired entry is not an observable removal.
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked()
	return len(s.entries), nil
}

func (s *MemoryStore) Info(ctx context.Context) (map[string]string, error) {
	n, _ := s.Len(ctx)
	return map[string]string{"entries": strconv.Itoa(n)}, nil
}

// purgeExpiredLocked drops every entry at or past its expiry.
// Callers must hold s.mu.
func (s *MemoryStore) purgeExpiredLocked() {
	now := s.now()
	for k, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, k)
		}
	}
	fallbackEntries.Set(float64(len(s.entries)))
}
