// Package middleware provides HTTP middleware for the academia service.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/metrics"
	"github.com/my-academia/academia-service/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const unavailableMessage = "Service temporarily unavailable"

// RateLimitConfig configures a fixed-window limiter.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Prefix   string
	Message  string
}

// RateLimiter counts requests per key in Redis so every instance shares the
// same window.
type RateLimiter struct {
	client  redis.Cmdable
	config  RateLimitConfig
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewRateLimiter creates a Redis-backed limiter.
func NewRateLimiter(client redis.Cmdable, config RateLimitConfig, log logrus.FieldLogger, m *metrics.Metrics) *RateLimiter {
	if config.Prefix == "" {
		config.Prefix = "ratelimit"
	}
	return &RateLimiter{
		client:  client,
		config:  config,
		log:     log,
		metrics: m,
	}
}

// Allow counts one request for key and reports whether it is within the
// window, together with the remaining quota and the time until the window
// resets.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (allowed bool, remaining int, reset time.Duration, err error) {
	redisKey := fmt.Sprintf("%s:%s", rl.config.Prefix, key)

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("failed to count request: %w", err)
	}

	reset = ttl.Val()
	if reset < 0 {
		// First hit in this window.
		if err := rl.client.PExpire(ctx, redisKey, rl.config.Window).Err(); err != nil {
			return false, 0, 0, fmt.Errorf("failed to start window: %w", err)
		}
		reset = rl.config.Window
	}

	count := int(incr.Val())
	remaining = max(rl.config.Requests-count, 0)
	return count <= rl.config.Requests, remaining, reset, nil
}

// Handler limits requests per client IP. Requests are rejected with 503
// when the counter store is unreachable.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, reset, err := rl.Allow(c.Request.Context(), "ip:"+c.ClientIP())
		if err != nil {
			rl.log.WithError(err).Error("rate limiter unavailable")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.ErrorBody{Message: unavailableMessage})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			rl.metrics.AuthEvent(metrics.EventRateLimited)
			c.Header("Retry-After", strconv.Itoa(int((reset+time.Second-1)/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{Message: rl.config.Message})
			return
		}

		c.Next()
	}
}

// LoginRateLimiter returns the limiter guarding the login endpoint.
func LoginRateLimiter(client redis.Cmdable, requests int, window time.Duration, log logrus.FieldLogger, m *metrics.Metrics) *RateLimiter {
	return NewRateLimiter(client, RateLimitConfig{
		Requests: requests,
		Window:   window,
		Prefix:   "ratelimit:login",
		Message:  LoginLimitMessage(window),
	}, log, m)
}

// LoginLimitMessage is returned once a client exhausts its login attempts
// within window.
func LoginLimitMessage(window time.Duration) string {
	return "Too many login attempts from this IP, please try again after " + humanizeWindow(window) + "."
}

func humanizeWindow(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int((d+time.Second-1)/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
