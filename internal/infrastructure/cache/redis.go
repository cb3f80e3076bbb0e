package cache

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// scanBatch is the COUNT hint for namespace scans.
const scanBatch = 100

// RedisBackend implements ports.CacheBackend over a Redis client. Keys
// handed to it are already normalized (namespace prefix included); the
// prefix is only needed to scope Clear and Len scans.
type RedisBackend struct {
	r      redis.Cmdable
	prefix string
}

// NewRedisBackend creates the networked primary backend. prefix must match
// the KeyNormalizer namespace (trailing colon included).
func NewRedisBackend(r redis.Cmdable, prefix string) *RedisBackend {
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &RedisBackend{r: r, prefix: prefix}
}

func (b *RedisBackend) Name() string { return "redis" }

// Ping is the connectivity probe used at construction time.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.r.Ping(ctx).Err()
}

func (b *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := b.r.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.r.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) (bool, error) {
	n, err := b.r.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear deletes every key under the namespace prefix. Other cache users
// sharing the Redis instance are untouched.
func (b *RedisBackend) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := b.r.Scan(ctx, cursor, b.prefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := b.r.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Len counts the keys under the namespace prefix.
func (b *RedisBackend) Len(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := b.r.Scan(ctx, cursor, b.prefix+"*", scanBatch).Result()
		if err != nil {
			return 0, err
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

// infoFields are the INFO lines surfaced in stats reports.
var infoFields = map[string]struct{}{
	"redis_version":            {},
	"used_memory":              {},
	"used_memory_human":        {},
	"connected_clients":        {},
	"total_commands_processed": {},
	"keyspace_hits":            {},
	"keyspace_misses":          {},
	"uptime_in_seconds":        {},
}

// Info returns a filtered view of the server's INFO output.
func (b *RedisBackend) Info(ctx context.Context) (map[string]string, error) {
	raw, err := b.r.Info(ctx).Result()
	if err != nil {
		return nil, err
	}

	info := make(map[string]string, len(infoFields))
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if _, want := infoFields[name]; want {
			info[name] = value
		}
	}
	return info, nil
}
