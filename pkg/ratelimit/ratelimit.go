// Package ratelimit 基于 Redis GCRA 的请求限流
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// Limiter 限流器接口
type Limiter interface {
	// Allow 判定该 key 的本次请求是否放行
	Allow(ctx context.Context, key string) (*Decision, error)
}

// Decision 单次限流判定结果
type Decision struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// RedisLimiter 以 Redis 为共享计数后端的限流器，多实例共用同一配额
type RedisLimiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
}

// NewRedisLimiter 创建限流器，窗口内允许 requests 次请求
func NewRedisLimiter(rdb *redis.Client, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis_rate.NewLimiter(rdb),
		limit: redis_rate.Limit{
			Rate:   requests,
			Period: window,
			Burst:  requests,
		},
	}
}

// Allow 判定该 key 的本次请求是否放行
func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Decision, error) {
	res, err := l.limiter.Allow(ctx, key, l.limit)
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}

	return &Decision{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}
