package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// servePage handles every page request cache-first: a hit is returned
// straight from the cache, a miss invokes the generation engine and caches
// the result. Generation failure maps to 503, matching the reference
// behavior for an unavailable LLM service.
func (s *Server) servePage(c echo.Context) error {
	urlPath := c.Request().URL.Path

	html, cached, err := s.pageService.GetPage(c.Request().Context(), urlPath)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "generation engine unavailable, cannot produce page: "+urlPath)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"url": urlPath, "cached": cached}).Info("served page")
	}
	return c.HTML(http.StatusOK, html)
}

// rebuildPage forces regeneration of a page, invalidating any cached copy.
func (s *Server) rebuildPage(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing url query parameter")
	}

	result, err := s.pageService.RebuildPage(c.Request().Context(), url)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "generation engine unavailable, cannot rebuild page: "+url)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "success",
		"url":       result.URL,
		"cached":    result.Cached,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// listPages returns the URL-to-source mapping of available content.
func (s *Server) listPages(c echo.Context) error {
	pages, err := s.pageService.ListPages(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list pages")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pages":     pages,
		"count":     len(pages),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
