package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	impl "github.com/pagesmith/pagesmith/internal/application/services"
	"github.com/pagesmith/pagesmith/internal/core/ports"
)

type cacheManagerMock struct {
	mu      sync.Mutex
	entries map[string]string

	GetFn    func(ctx context.Context, key string) (string, bool)
	SetFn    func(ctx context.Context, key, value string, ttl time.Duration) bool
	DeleteFn func(ctx context.Context, key string) bool
	ClearFn  func(ctx context.Context) bool
	StatsFn  func(ctx context.Context) *ports.CacheStats
}

func newCacheManagerMock() *cacheManagerMock {
	return &cacheManagerMock{entries: make(map[string]string)}
}

func (m *cacheManagerMock) Get(ctx context.Context, key string) (string, bool) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *cacheManagerMock) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return true
}

func (m *cacheManagerMock) Delete(ctx context.Context, key string) bool {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok
}

func (m *cacheManagerMock) Clear(ctx context.Context) bool {
	if m.ClearFn != nil {
		return m.ClearFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]string)
	return true
}

func (m *cacheManagerMock) Stats(ctx context.Context) *ports.CacheStats {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &ports.CacheStats{Backend: "memory", Healthy: false, EntryCount: len(m.entries)}
}

type generatorMock struct {
	GeneratePageFn func(ctx context.Context, urlPath string) (string, error)
	calls          atomic.Int64
}

func (m *generatorMock) ListPages(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

func (m *generatorMock) GeneratePage(ctx context.Context, urlPath string) (string, error) {
	m.calls.Add(1)
	if m.GeneratePageFn != nil {
		return m.GeneratePageFn(ctx, urlPath)
	}
	return "<html><head></head><body>" + urlPath + "</body></html>", nil
}

func TestGetPage_CacheHitSkipsGeneration(t *testing.T) {
	cache := newCacheManagerMock()
	cache.entries["/about/"] = "<html>cached</html>"
	gen := &generatorMock{}

	svc := impl.NewPageService(cache, gen, nil)

	html, cached, err := svc.GetPage(context.Background(), "/about/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Fatal("expected a cache hit")
	}
	if html != "<html>cached</html>" {
		t.Fatalf("unexpected html: %q", html)
	}
	if gen.calls.Load() != 0 {
		t.Fatal("generator must not run on a cache hit")
	}
}

func TestGetPage_MissGeneratesAndCaches(t *testing.T) {
	cache := newCacheManagerMock()
	gen := &generatorMock{}

	svc := impl.NewPageService(cache, gen, nil)

	html, cached, err := svc.GetPage(context.Background(), "about")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Fatal("expected a cache miss")
	}
	if html == "" {
		t.Fatal("expected generated html")
	}
	// The URL path is normalized before it reaches the cache.
	if _, ok := cache.entries["/about/"]; !ok {
		t.Fatalf("generated page was not cached under the normalized path, entries: %v", cache.entries)
	}
	if gen.calls.Load() != 1 {
		t.Fatalf("expected one generation, got %d", gen.calls.Load())
	}
}

func TestGetPage_GenerationFailure(t *testing.T) {
	cache := newCacheManagerMock()
	gen := &generatorMock{GeneratePageFn: func(ctx context.Context, urlPath string) (string, error) {
		return "", errors.New("model unavailable")
	}}

	svc := impl.NewPageService(cache, gen, nil)

	_, _, err := svc.GetPage(context.Background(), "/about/")
	if err == nil {
		t.Fatal("expected an error when generation fails")
	}
	if len(cache.entries) != 0 {
		t.Fatal("nothing must be cached on generation failure")
	}
}

func TestGetPage_ConcurrentMissesCoalesce(t *testing.T) {
	cache := newCacheManagerMock()
	gen := &generatorMock{GeneratePageFn: func(ctx context.Context, urlPath string) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "<html>generated</html>", nil
	}}

	svc := impl.NewPageService(cache, gen, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, _, err := svc.GetPage(context.Background(), "/popular/")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if html != "<html>generated</html>" {
				t.Errorf("unexpected html: %q", html)
			}
		}()
	}
	wg.Wait()

	if got := gen.calls.Load(); got != 1 {
		t.Fatalf("expected concurrent misses to share one generation, got %d", got)
	}
}

func TestRebuildPage_InvalidatesThenCaches(t *testing.T) {
	cache := newCacheManagerMock()
	cache.entries["/about/"] = "<html>old</html>"
	gen := &generatorMock{GeneratePageFn: func(ctx context.Context, urlPath string) (string, error) {
		return "<html>new</html>", nil
	}}

	svc := impl.NewPageService(cache, gen, nil)

	res, err := svc.RebuildPage(context.Background(), "about")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.URL != "/about/" || !res.Cached {
		t.Fatalf("unexpected result: %+v", res)
	}
	if cache.entries["/about/"] != "<html>new</html>" {
		t.Fatalf("rebuild must replace the cached entry, got %q", cache.entries["/about/"])
	}
}

func TestRebuildPage_GenerationFailureLeavesEntryInvalidated(t *testing.T) {
	cache := newCacheManagerMock()
	cache.entries["/about/"] = "<html>old</html>"
	gen := &generatorMock{GeneratePageFn: func(ctx context.Context, urlPath string) (string, error) {
		return "", errors.New("model unavailable")
	}}

	svc := impl.NewPageService(cache, gen, nil)

	if _, err := svc.RebuildPage(context.Background(), "/about/"); err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := cache.entries["/about/"]; ok {
		t.Fatal("stale entry must stay invalidated after a failed rebuild")
	}
}

func TestNormalizeURLPath(t *testing.T) {
	cases := map[string]string{
		"":           "/",
		"/":          "/",
		"about":      "/about/",
		"/about":     "/about/",
		"about/":     "/about/",
		"/a/b/":      "/a/b/",
		"//about///": "/about/",
	}
	for input, want := range cases {
		if got := impl.NormalizeURLPath(input); got != want {
			t.Errorf("NormalizeURLPath(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFlushCacheAndStats(t *testing.T) {
	cache := newCacheManagerMock()
	cache.entries["/about/"] = "<html>a</html>"

	svc := impl.NewPageService(cache, &generatorMock{}, nil)

	stats := svc.CacheStats(context.Background())
	if stats.EntryCount != 1 {
		t.Fatalf("expected 1 entry, got %d", stats.EntryCount)
	}
	if !svc.FlushCache(context.Background()) {
		t.Fatal("flush must succeed")
	}
	if len(cache.entries) != 0 {
		t.Fatal("flush must empty the cache")
	}
}
