package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Window caps the number of hits allowed within a sliding duration.
type Window struct {
	Duration time.Duration
	Max      int
}

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter keeps one sorted set of hit timestamps per key and window.
type RedisLimiter struct {
	client  *redis.Client
	prefix  string
	windows []Window
	now     func() time.Time
}

// NewRedisLimiter builds a limiter; windows with Max <= 0 are ignored.
func NewRedisLimiter(client *redis.Client, prefix string, windows ...Window) *RedisLimiter {
	active := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.Max > 0 && w.Duration > 0 {
			active = append(active, w)
		}
	}
	return &RedisLimiter{client: client, prefix: prefix, windows: active, now: time.Now}
}

// Allow records a hit for key and reports whether every window is still under its cap.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()
	for _, w := range l.windows {
		allowed, err := l.checkWindow(ctx, key, w, now)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

func (l *RedisLimiter) checkWindow(ctx context.Context, key string, w Window, now time.Time) (bool, error) {
	redisKey := l.key(key, w.Duration)
	windowStart := now.Add(-w.Duration).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	count := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, w.Duration+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit pipeline: %w", err)
	}
	return count.Val() < int64(w.Max), nil
}

func (l *RedisLimiter) key(identifier string, window time.Duration) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, identifier, window.String())
}
