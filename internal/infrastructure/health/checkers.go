package health

import (
	"context"
	"fmt"
	"os"

	"github.com/pagesmith/pagesmith/internal/core/ports"
	"github.com/pagesmith/pagesmith/internal/infrastructure/cache"
)

// cacheHealthChecker reports the cache facade's primary backend state.
// A degraded facade still serves traffic from the fallback store, so the
// health endpoint maps this to "degraded", not "unhealthy".
type cacheHealthChecker struct{ m *cache.Manager }

func (c *cacheHealthChecker) Name() string { return "cache" }
func (c *cacheHealthChecker) Check(ctx context.Context) error {
	if !c.m.Healthy() {
		return fmt.Errorf("primary cache backend degraded, serving from in-memory fallback")
	}
	return nil
}

// contentHealthChecker verifies the markdown content root exists.
type contentHealthChecker struct{ root string }

func (c *contentHealthChecker) Name() string { return "content" }
func (c *contentHealthChecker) Check(ctx context.Context) error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("content root %s unavailable: %w", c.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content root %s is not a directory", c.root)
	}
	return nil
}

// NewCacheHealthChecker creates a health checker for the cache facade.
func NewCacheHealthChecker(m *cache.Manager) ports.HealthChecker {
	return &cacheHealthChecker{m: m}
}

// NewContentHealthChecker creates a health checker for the content root.
func NewContentHealthChecker(root string) ports.HealthChecker {
	return &contentHealthChecker{root: root}
}
