package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pagesmith/pagesmith/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Manager is the key-value cache facade. It normalizes application keys,
// routes each operation to the networked primary backend while that backend
// is healthy, and serves from the in-process fallback store once the primary
// has failed. Callers never see which backend handled a call, and no
// operation ever returns an error.
//
// Degradation is one-way: after the first operational error the instance
// stays on the fallback store for its lifetime. There is deliberately no
// re-probe of the primary.
type Manager struct {
	primary    ports.CacheBackend
	fallback   *MemoryStore
	normalizer *KeyNormalizer
	defaultTTL time.Duration
	logger     *logrus.Logger

	// usePrimary is an instance field, not process state, so facades in
	// tests stay independent of each other.
	mu         sync.RWMutex
	usePrimary bool
}

var _ ports.CacheManager = (*Manager)(nil)

// NewManager wires the facade. Call Connect before serving traffic: until
// then the primary is considered unhealthy and every call goes to the
// fallback store.
func NewManager(primary ports.CacheBackend, normalizer *KeyNormalizer, defaultTTL time.Duration, logger *logrus.Logger) *Manager {
	return &Manager{
		primary:    primary,
		fallback:   NewMemoryStore(),
		normalizer: normalizer,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// Connect probes the primary backend with a trivial round-trip and sets the
// initial health state from the outcome. A failed probe is not an error for
// the caller: the facade simply starts degraded.
func (m *Manager) Connect(ctx context.Context) bool {
	err := m.primary.Ping(ctx)

	m.mu.Lock()
	m.usePrimary = err == nil
	m.mu.Unlock()

	if err != nil {
		cacheErrors.WithLabelValues("connect").Inc()
		if m.logger != nil {
			m.logger.WithError(err).Warnf("primary cache backend %s unreachable, starting on %s fallback", m.primary.Name(), m.fallback.Name())
		}
		return false
	}
	if m.logger != nil {
		m.logger.Infof("connected to primary cache backend %s", m.primary.Name())
	}
	return true
}

// Healthy reports whether the primary backend is still considered healthy.
func (m *Manager) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usePrimary
}

// markDegraded flips the facade to the fallback store after a primary
// operational error. The first flip is logged with the offending operation
// and key; later errors only bump the error counter.
func (m *Manager) markDegraded(op, key string, err error) {
	cacheErrors.WithLabelValues(op).Inc()

	m.mu.Lock()
	wasPrimary := m.usePrimary
	m.usePrimary = false
	m.mu.Unlock()

	if wasPrimary {
		cacheFailovers.Inc()
	}
	if m.logger != nil {
		m.logger.WithFields(logrus.Fields{"operation": op, "key": key}).
			WithError(err).Error("primary cache backend failed, degrading to in-memory fallback")
	}
}

// Get retrieves the cached value for key. A miss from a healthy primary is
// authoritative: the fallback store is not consulted. Only an operational
// error routes the read to the fallback.
func (m *Manager) Get(ctx context.Context, key string) (string, bool) {
	nk := m.normalizer.Normalize(key)

	if m.Healthy() {
		value, found, err := m.primary.Get(ctx, nk)
		if err == nil {
			if found {
				cacheHits.WithLabelValues(m.primary.Name()).Inc()
				return value, true
			}
			cacheMisses.Inc()
			return "", false
		}
		m.markDegraded("get", key, err)
	}

	value, found, _ := m.fallback.Get(ctx, nk)
	if found {
		cacheHits.WithLabelValues(m.fallback.Name()).Inc()
		return value, true
	}
	cacheMisses.Inc()
	return "", false
}

// Set stores value for key. The fallback store is always written so that a
// later failover can still serve entries cached while the primary was
// healthy. A primary error degrades the facade instead of surfacing.
func (m *Manager) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	nk := m.normalizer.Normalize(key)
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	if m.Healthy() {
		if err := m.primary.Set(ctx, nk, value, ttl); err != nil {
			m.markDegraded("set", key, err)
		}
	}

	// Bounded only by process memory; cannot fail.
	_ = m.fallback.Set(ctx, nk, value, ttl)
	return true
}

// Delete removes key from both stores; true if either reported a removal.
func (m *Manager) Delete(ctx context.Context, key string) bool {
	nk := m.normalizer.Normalize(key)

	removed := false
	if m.Healthy() {
		ok, err := m.primary.Delete(ctx, nk)
		if err != nil {
			// Deleting a missing key is not an error; this is operational.
			m.markDegraded("delete", key, err)
		} else if ok {
			removed = true
		}
	}

	if ok, _ := m.fallback.Delete(ctx, nk); ok {
		removed = true
	}
	return removed
}

// Clear empties the application namespace on the primary and the whole
// fallback store. It reports true once the fallback store has been cleared;
// clearing an already-empty store counts as success.
func (m *Manager) Clear(ctx context.Context) bool {
	if m.Healthy() {
		if err := m.primary.Clear(ctx); err != nil {
			m.markDegraded("clear", "*", err)
		}
	}

	_ = m.fallback.Clear(ctx)
	fallbackEntries.Set(0)
	if m.logger != nil {
		m.logger.Info("cache cleared")
	}
	return true
}

// Stats reports the active backend, primary health and the fallback entry
// count. A healthy primary enriches the report with server metrics; an
// enrichment failure is recorded as a field, never raised.
func (m *Manager) Stats(ctx context.Context) *ports.CacheStats {
	healthy := m.Healthy()

	stats := &ports.CacheStats{
		Backend: m.fallback.Name(),
		Healthy: healthy,
	}
	stats.EntryCount, _ = m.fallback.Len(ctx)

	if healthy {
		stats.Backend = m.primary.Name()
		info, err := m.primary.Info(ctx)
		if err != nil {
			stats.ServerError = err.Error()
		} else {
			stats.Server = info
		}
	}
	return stats
}

// DefaultTTL exposes the configured default time-to-live.
func (m *Manager) DefaultTTL() time.Duration { return m.defaultTTL }
