package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements the same sliding window over a Redis sorted set, so
// the count is shared across instances. Hits are members scored by their
// arrival time in milliseconds.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter connects to Redis and verifies connectivity before returning.
func NewRedisLimiter(url string, limit int, window time.Duration) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisLimiter{rdb: rdb, limit: limit, window: window}, nil
}

// Check records one hit and counts hits still inside the window.
func (l *RedisLimiter) Check(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	cutoff := now.Add(-l.window).UnixMilli()
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	count := pipe.ZCard(ctx, key)
	oldest := pipe.ZRangeWithScores(ctx, key, 0, 0)
	pipe.PExpire(ctx, key, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	hits := int(count.Val())
	remaining := l.limit - hits
	if remaining < 0 {
		remaining = 0
	}

	reset := l.window
	if entries := oldest.Val(); len(entries) > 0 {
		elapsed := time.Duration(now.UnixMilli()-int64(entries[0].Score)) * time.Millisecond
		reset = l.window - elapsed
	}

	return Decision{
		Allowed:   hits <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}
