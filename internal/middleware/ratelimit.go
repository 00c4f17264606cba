package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// RateLimiter counts requests per caller in fixed Redis windows.
type RateLimiter struct {
	rdb      *redis.Client
	env      string
	resource string
	limit    int
	window   time.Duration
	policy   FailPolicy
}

// NewRateLimiter builds a limiter allowing limit requests per window for resource.
// Limits are not enforced when env is "test" or "development".
func NewRateLimiter(rdb *redis.Client, env, resource string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		env:      env,
		resource: resource,
		limit:    limit,
		window:   window,
		policy:   FailOpen,
	}
}

// WithPolicy sets the behavior when Redis is unavailable.
func (l *RateLimiter) WithPolicy(p FailPolicy) *RateLimiter {
	l.policy = p
	return l
}

// Allow records one request for id. It returns false once the window's limit is exceeded.
func (l *RateLimiter) Allow(ctx context.Context, id string) (bool, error) {
	switch l.env {
	case "", "test", "development":
		return true, nil
	}

	if l.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", l.resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}
	return cnt <= int64(l.limit), nil
}

// Handler returns the Fiber middleware. Callers are keyed by resolved user
// ID when a session is present, otherwise by remote IP.
func (l *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid, ok := c.UserContext().Value(UserIDKey).(uint); ok {
			id = fmt.Sprintf("user:%d", uid)
		} else {
			id = "ip:" + c.IP()
		}

		allowed, err := l.Allow(c.UserContext(), id)
		if err != nil {
			if l.policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing closed",
					slog.String("resource", l.resource), slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"view":  "error",
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"view":  "error",
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
