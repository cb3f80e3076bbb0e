package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/pagesmith/pagesmith/configs"
	"github.com/pagesmith/pagesmith/internal/application/services"
	"github.com/pagesmith/pagesmith/internal/core/ports"
	"github.com/pagesmith/pagesmith/internal/infrastructure/cache"
	"github.com/pagesmith/pagesmith/internal/infrastructure/generator"
	"github.com/pagesmith/pagesmith/internal/infrastructure/health"
	"github.com/pagesmith/pagesmith/internal/infrastructure/httpserver"
	"github.com/pagesmith/pagesmith/internal/infrastructure/redis"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting pagesmith...")

	// Initialize Redis client; connectivity is probed by the cache facade
	// so an unreachable server degrades the cache instead of aborting boot.
	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	normalizer := cache.NewKeyNormalizer(cfg.Cache.KeyPrefix)
	primary := cache.NewRedisBackend(redisClient, normalizer.Prefix())
	cacheManager := cache.NewManager(primary, normalizer, cfg.Cache.DefaultTTL, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	cacheManager.Connect(ctx)
	cancel()

	// Generation engine and page orchestration
	pageGenerator := generator.NewGenerator(&cfg.LLM, cfg.Content.Root, logger)
	pageService := services.NewPageService(cacheManager, pageGenerator, logger)

	hcSlice := []ports.HealthChecker{
		health.NewCacheHealthChecker(cacheManager),
		health.NewContentHealthChecker(cfg.Content.Root),
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		PageService:    pageService,
		HealthCheckers: hcSlice,
	}

	server := httpserver.NewServer(serverConfig, cfg.Admin.JWTSecret, logger, deps)

	// Start server in a goroutine so shutdown signals can be handled
	go func() {
		if err := server.Start(); err != nil {
			logger.Info("Server stopped:", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down pagesmith...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown:", err)
	}

	logger.Info("Shutdown complete")
}
