package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/wyfcoding/shopsystem/pkg/config"
	"github.com/wyfcoding/shopsystem/pkg/ratelimit"
)

type fakeLimiter struct {
	decision *ratelimit.Decision
	err      error
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (*ratelimit.Decision, error) {
	return l.decision, l.err
}

func performRateLimited(limiter ratelimit.Limiter, cfg config.RateLimitConfig) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RateLimitMiddleware(limiter, cfg))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowsWithinQuota(t *testing.T) {
	limiter := &fakeLimiter{decision: &ratelimit.Decision{Allowed: true, Remaining: 9, ResetAfter: time.Second}}
	w := performRateLimited(limiter, config.RateLimitConfig{Enabled: true, Requests: 10, Window: 1})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitRejectsWhenExhausted(t *testing.T) {
	limiter := &fakeLimiter{decision: &ratelimit.Decision{Remaining: 0, RetryAfter: 2 * time.Second}}
	w := performRateLimited(limiter, config.RateLimitConfig{Enabled: true, Requests: 10, Window: 1})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
}

func TestRateLimitFailsOpenOnBackendError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	w := performRateLimited(limiter, config.RateLimitConfig{Enabled: true, Requests: 10, Window: 1})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	w := performRateLimited(&fakeLimiter{}, config.RateLimitConfig{Enabled: false})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
