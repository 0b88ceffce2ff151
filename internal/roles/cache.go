package roles

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/redis/go-redis/v9"
)

// Cache remembers resolved roles. Implementations swallow their own errors:
// a cache failure is a miss.
type Cache interface {
	Get(ctx context.Context, userID string) (types.Role, bool)
	Set(ctx context.Context, userID string, role types.Role)
}

type noCache struct{}

func (noCache) Get(context.Context, string) (types.Role, bool) { return "", false }
func (noCache) Set(context.Context, string, types.Role)        {}

type cacheEntry struct {
	role    types.Role
	expires time.Time
}

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache creates a cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, userID string) (types.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok {
		return "", false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, userID)
		return "", false
	}
	return e.role, true
}

func (c *MemoryCache) Set(_ context.Context, userID string, role types.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{role: role, expires: c.now().Add(c.ttl)}
}

// RedisCache shares resolved roles between instances.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *logging.Logger
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, log *logging.Logger) *RedisCache {
	if prefix == "" {
		prefix = "role"
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (c *RedisCache) Get(ctx context.Context, userID string) (types.Role, bool) {
	val, err := c.client.Get(ctx, c.makeKey(userID)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.log.Warn("role cache read failed", "user_id", userID, "error", err)
		return "", false
	}
	role, ok := types.ParseRole(val)
	return role, ok
}

func (c *RedisCache) Set(ctx context.Context, userID string, role types.Role) {
	if err := c.client.Set(ctx, c.makeKey(userID), string(role), c.ttl).Err(); err != nil {
		c.log.Warn("role cache write failed", "user_id", userID, "error", err)
	}
}

func (c *RedisCache) makeKey(userID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, userID)
}
