//go:build integration

package roles

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestIntegration_RedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()

	c := NewRedisCache(client, "test-role", time.Minute, nil)
	id := uuid.NewString()

	_, ok := c.Get(ctx, id)
	assert.False(t, ok)

	c.Set(ctx, id, types.RoleRecruiter)
	role, ok := c.Get(ctx, id)
	assert.True(t, ok)
	assert.Equal(t, types.RoleRecruiter, role)
}
