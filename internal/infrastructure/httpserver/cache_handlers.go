package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *Server) cacheStats(c echo.Context) error {
	stats := s.pageService.CacheStats(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cache_stats": stats,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) flushCache(c echo.Context) error {
	ok := s.pageService.FlushCache(c.Request().Context())
	status := "success"
	message := "Cache flushed"
	if !ok {
		status = "failed"
		message = "Failed to flush cache"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
