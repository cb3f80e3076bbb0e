package redis

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	config "github.com/pagesmith/pagesmith/configs"
)

// NewRedisClient creates a Redis client from config. No connection is made
// here: the client dials lazily and the cache facade runs its own
// connectivity probe, so an unreachable server degrades the cache instead
// of failing process startup. The dial/read/write timeouts bound every call
// so a hung server cannot stall the request pipeline.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})
}
