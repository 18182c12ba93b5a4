package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sanadhub/donations-backend/internal/config"
)

// RateLimit returns a fixed-window limiter keyed on client IP and route.
// Each window of cfg.Window allows cfg.Max requests; the first hit in a
// window sets the key's expiry. When Redis is unavailable the limiter
// degrades to a pass-through so login never depends on the cache being up.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := cfg.Prefix + ":" + ip + ":" + c.Path()

			ctx := c.Request().Context()
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				c.Logger().Warnf("ratelimit: redis incr %s: %v", key, err)
				return next(c)
			}
			if n == 1 {
				if err := rdb.Expire(ctx, key, cfg.Window).Err(); err != nil {
					c.Logger().Warnf("ratelimit: redis expire %s: %v", key, err)
				}
			}

			remaining := int64(cfg.Max) - n
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(cfg.Max) {
				ttl, err := rdb.TTL(ctx, key).Result()
				if err != nil || ttl < 0 {
					ttl = cfg.Window
				}
				secs := int(ttl / time.Second)
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded, try again later",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}
