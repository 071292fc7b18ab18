package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts failed attempts per key inside a fixed window.
type Limiter interface {
	// Allowed reports whether key may try again and, when blocked, how long is left.
	Allowed(ctx context.Context, key string) (bool, time.Duration, error)
	// RecordFailure counts one failed attempt for key.
	RecordFailure(ctx context.Context, key string) error
	// Reset forgets all failures for key.
	Reset(ctx context.Context, key string) error
}

// RedisLimiter keeps one INCR counter per key, expiring after the window.
type RedisLimiter struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
	prefix      string
}

// NewRedisLimiter creates a limiter blocking key after maxAttempts failures within window.
func NewRedisLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
		prefix:      "login_failures:",
	}
}

func (l *RedisLimiter) key(k string) string {
	return l.prefix + strings.ToLower(strings.TrimSpace(k))
}

func (l *RedisLimiter) Allowed(ctx context.Context, key string) (bool, time.Duration, error) {
	count, err := l.client.Get(ctx, l.key(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, 0, nil
		}
		return false, 0, fmt.Errorf("failed to read attempt counter: %w", err)
	}
	if count < l.maxAttempts {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, l.key(key)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read attempt window: %w", err)
	}
	if ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	k := l.key(key)
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("failed to count attempt: %w", err)
	}
	// First failure opens the window
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set attempt window: %w", err)
		}
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset attempt counter: %w", err)
	}
	return nil
}

// NoopLimiter never blocks. Used when Redis is not configured.
type NoopLimiter struct{}

func (NoopLimiter) Allowed(context.Context, string) (bool, time.Duration, error) { return true, 0, nil }
func (NoopLimiter) RecordFailure(context.Context, string) error                 { return nil }
func (NoopLimiter) Reset(context.Context, string) error                         { return nil }
