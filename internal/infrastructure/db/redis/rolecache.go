package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

const defaultRoleTTL = 5 * time.Minute

// RoleCache caches resolved roles per identity with a short freshness window
// so navigation does not refetch the user record on every request.
// Key format: role:<email>
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache creates a RoleCache wrapping the given Redis client.
func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &RoleCache{client: client, ttl: ttl}
}

// Get returns the cached role for email, with ok=false on a miss.
func (c *RoleCache) Get(ctx context.Context, email string) (domain.Role, bool, error) {
	val, err := c.client.Get(ctx, c.key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("role cache get: %w", err)
	}
	return domain.NormalizeRole(val), true, nil
}

// Set stores the role for email, expiring after the freshness window.
func (c *RoleCache) Set(ctx context.Context, email string, role domain.Role) error {
	return c.client.Set(ctx, c.key(email), string(role), c.ttl).Err()
}

func (c *RoleCache) key(email string) string {
	return "role:" + email
}
