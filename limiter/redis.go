package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "login-failures:"

// RedisLimiter keeps failure counters in Redis so that every server
// instance sees the same attempts.
type RedisLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func CreateRedisLimiter(redisUrl string, maxAttempts int, window time.Duration) *RedisLimiter {
	opts, err := redis.ParseURL(redisUrl)
	if err != nil {
		// plain host:port
		opts = &redis.Options{Addr: redisUrl}
	}
	return &RedisLimiter{
		client:      redis.NewClient(opts),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, keyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read login failures from redis: %w", err)
	}
	return count < l.maxAttempts, nil
}

func (l *RedisLimiter) Fail(ctx context.Context, key string) error {
	count, err := l.client.Incr(ctx, keyPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to record login failure in redis: %w", err)
	}
	// the window starts at the first failure
	if count == 1 {
		err = l.client.Expire(ctx, keyPrefix+key, l.window).Err()
		if err != nil {
			return fmt.Errorf("failed to set login failure window in redis: %w", err)
		}
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	err := l.client.Del(ctx, keyPrefix+key).Err()
	if err != nil {
		return fmt.Errorf("failed to reset login failures in redis: %w", err)
	}
	return nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
