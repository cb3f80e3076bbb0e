package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagesmith/pagesmith/internal/core/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// PageService implements the cache-first request flow: serve from the cache
// facade when possible, otherwise invoke the generation engine and store
// the result. Concurrent misses for the same path share one generation.
type PageService struct {
	cache     ports.CacheManager
	generator ports.PageGenerator
	logger    *logrus.Logger
	sf        singleflight.Group
}

func NewPageService(cache ports.CacheManager, gen ports.PageGenerator, logger *logrus.Logger) ports.PageService {
	return &PageService{
		cache:     cache,
		generator: gen,
		logger:    logger,
	}
}

// NormalizeURLPath maps request paths to their canonical trailing-slash
// form: "about" and "/about/" both become "/about/", the empty path "/".
func NormalizeURLPath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}

func (s *PageService) GetPage(ctx context.Context, urlPath string) (string, bool, error) {
	urlPath = NormalizeURLPath(urlPath)

	if html, ok := s.cache.Get(ctx, urlPath); ok {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"url": urlPath}).Debug("cache hit")
		}
		return html, true, nil
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"url": urlPath}).Info("cache miss, generating page")
	}

	html, err := s.generateAndCache(ctx, urlPath)
	if err != nil {
		return "", false, err
	}
	return html, false, nil
}

func (s *PageService) RebuildPage(ctx context.Context, urlPath string) (*ports.RebuildResult, error) {
	urlPath = NormalizeURLPath(urlPath)

	s.cache.Delete(ctx, urlPath)
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"url": urlPath}).Info("invalidated cache entry for rebuild")
	}

	if _, err := s.generateAndCache(ctx, urlPath); err != nil {
		return nil, err
	}
	return &ports.RebuildResult{URL: urlPath, Cached: true}, nil
}

// generateAndCache invokes the generation engine and stores the validated
// result with the cache's default TTL. Misses for the same path are
// coalesced so a popular uncached page triggers a single generation.
func (s *PageService) generateAndCache(ctx context.Context, urlPath string) (string, error) {
	result, err, shared := s.sf.Do(urlPath, func() (interface{}, error) {
		html, err := s.generator.GeneratePage(ctx, urlPath)
		if err != nil {
			return nil, err
		}
		if !s.cache.Set(ctx, urlPath, html, 0) {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"url": urlPath}).Warn("failed to cache generated page")
			}
		}
		return html, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"url": urlPath}).WithError(err).Error("page generation failed")
		}
		return "", fmt.Errorf("cannot generate page %s: %w", urlPath, err)
	}
	if shared && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"url": urlPath}).Debug("shared in-flight generation result")
	}

	html, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected type from coalesced generation")
	}
	return html, nil
}

func (s *PageService) ListPages(ctx context.Context) (map[string]string, error) {
	return s.generator.ListPages(ctx)
}

func (s *PageService) CacheStats(ctx context.Context) *ports.CacheStats {
	return s.cache.Stats(ctx)
}

func (s *PageService) FlushCache(ctx context.Context) bool {
	return s.cache.Clear(ctx)
}
