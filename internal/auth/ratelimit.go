package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per subject. Implementations
// must be safe for concurrent use.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLoginLimiter counts attempts in a fixed window. The counter is
// created and expired atomically so a crashed window cannot leak.
type RedisLoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

var loginAttemptScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisLoginLimiter(client *redis.Client, limit int, window time.Duration) (*RedisLoginLimiter, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if limit <= 0 || window <= 0 {
		return nil, errors.New("limit and window must be positive")
	}
	return &RedisLoginLimiter{client: client, limit: limit, window: window}, nil
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	current, err := loginAttemptScript.Run(ctx, l.client, []string{"login_attempts:" + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return current <= int64(l.limit), nil
}
