package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api")
	api.GET("/health", s.healthCheck)
	api.GET("/pages", s.listPages)
	api.GET("/cache/stats", s.cacheStats)
	api.POST("/cache/flush", s.flushCache, s.middleware.Admin.RequireAdmin())

	s.echo.POST("/rebuild", s.rebuildPage, s.middleware.Admin.RequireAdmin())

	// Catch-all page routes; echo prefers the more specific routes above.
	s.echo.GET("/", s.servePage)
	s.echo.GET("/*", s.servePage)
}
