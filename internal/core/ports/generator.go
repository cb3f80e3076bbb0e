package ports

import "context"

// PageGenerator produces a complete HTML document for a URL path. It is the
// boundary to the LLM generation engine; the cache layer never calls it
// directly, the page service invokes it on a cache miss.
type PageGenerator interface {
	GeneratePage(ctx context.Context, urlPath string) (string, error)
	// ListPages maps the engine's available content files to URL paths.
	ListPages(ctx context.Context) (map[string]string, error)
}

// PageService orchestrates the cache-first request flow for the HTTP layer.
type PageService interface {
	// GetPage serves urlPath from cache, generating and caching on a miss.
	// cached reports whether the response came from the cache.
	GetPage(ctx context.Context, urlPath string) (html string, cached bool, err error)
	// RebuildPage invalidates urlPath, regenerates it and re-caches it.
	RebuildPage(ctx context.Context, urlPath string) (*RebuildResult, error)
	// ListPages maps the available content files to URL paths.
	ListPages(ctx context.Context) (map[string]string, error)
	// CacheStats reports the cache facade's stats.
	CacheStats(ctx context.Context) *CacheStats
	// FlushCache empties the cache.
	FlushCache(ctx context.Context) bool
}

// RebuildResult describes the outcome of an explicit page rebuild.
type RebuildResult struct {
	URL    string `json:"url"`
	Cached bool   `json:"cached"`
}
