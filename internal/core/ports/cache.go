package ports

import (
	"context"
	"time"
)

// CacheBackend is the capability contract shared by the networked primary
// store and the in-process fallback store. The facade branches on the
// (value, found, error) outcome of each call; an error from the primary
// triggers failover, it is never surfaced to callers.
type CacheBackend interface {
	// Name identifies the backend in stats reports ("redis", "memory").
	Name() string
	// Ping verifies connectivity. The in-process variant always succeeds.
	Ping(ctx context.Context) error
	// Get returns the value for key. found=false if not present.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set stores value for key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key; absence is not an error. removed reports whether
	// an entry actually existed.
	Delete(ctx context.Context, key string) (removed bool, err error)
	// Clear removes every entry under the backend's namespace.
	Clear(ctx context.Context) error
	// Len reports the number of live entries under the backend's namespace.
	Len(ctx context.Context) (int, error)
	// Info returns backend-reported server metrics for stats enrichment.
	Info(ctx context.Context) (map[string]string, error)
}

// CacheStats is the structured report returned by CacheManager.Stats.
type CacheStats struct {
	Backend     string            `json:"backend"`
	Healthy     bool              `json:"healthy"`
	EntryCount  int               `json:"entry_count"`
	Server      map[string]string `json:"server,omitempty"`
	ServerError string            `json:"server_error,omitempty"`
}

// CacheManager is the failure-tolerant cache facade exposed to the HTTP
// layer. Operations never return errors: the worst case is a silent
// degradation to the in-process fallback store.
type CacheManager interface {
	// Get returns the cached value for key. ok=false on a miss.
	Get(ctx context.Context, key string) (value string, ok bool)
	// Set stores value for key. A non-positive ttl resolves to the
	// configured default.
	Set(ctx context.Context, key, value string, ttl time.Duration) bool
	// Delete removes key from every backend; true if anything was removed.
	Delete(ctx context.Context, key string) bool
	// Clear empties every backend; true once the fallback store is empty.
	Clear(ctx context.Context) bool
	// Stats reports the active backend, health and entry counts.
	Stats(ctx context.Context) *CacheStats
}
