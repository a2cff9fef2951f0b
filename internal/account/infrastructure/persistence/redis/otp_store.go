// Package redis 账户验证码的 Redis 存取
package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/shopsystem/internal/account/domain"
	"github.com/wyfcoding/shopsystem/pkg/cache"
)

const otpKeyPrefix = "account:otp:"

type otpStore struct{ cache *cache.RedisCache }

// NewOTPStore 创建验证码存储
func NewOTPStore(c *cache.RedisCache) domain.OTPStore {
	return &otpStore{cache: c}
}

func (s *otpStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.cache.Set(ctx, otpKeyPrefix+email, code, ttl)
}

func (s *otpStore) Get(ctx context.Context, email string) (string, error) {
	return s.cache.Get(ctx, otpKeyPrefix+email)
}

func (s *otpStore) Delete(ctx context.Context, email string) error {
	return s.cache.Delete(ctx, otpKeyPrefix+email)
}
