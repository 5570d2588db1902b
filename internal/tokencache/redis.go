package tokencache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a shared redis instance, for deployments
// where issued tokens must survive a process restart.
type Redis struct {
	client *redis.Client
}

// NewRedis returns a redis-backed cache.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) key(token string) string {
	return fmt.Sprintf("tokens:active:%s", token)
}

// Set stores the token. A non-positive ttl keeps it until deleted.
func (r *Redis) Set(ctx context.Context, token string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.key(token), "1", ttl).Err()
}

// Exists reports token presence.
func (r *Redis) Exists(ctx context.Context, token string) (bool, error) {
	count, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes the token. Deleting an absent token is not an error.
func (r *Redis) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}
