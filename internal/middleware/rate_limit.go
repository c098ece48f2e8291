package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/postcraft/backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// incrExpireScript increments the counter and starts its window atomically.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(c echo.Context) string

// KeyByIP limits per client IP and route.
func KeyByIP(resource string) KeyFunc {
	return func(c echo.Context) string {
		ip := c.RealIP()
		if ip == "" {
			ip = "unknown"
		}
		return "rl:" + resource + ":ip:" + ip
	}
}

// RateLimit allows max requests per window for each key. It is a no-op when
// rdb is nil and fails open when Redis errors.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, log *logrus.Logger) echo.MiddlewareFunc {
	if rdb == nil || max <= 0 || window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}

			ctx := c.Request().Context()
			key := keyFn(c)

			count, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64()
			if err != nil {
				log.WithError(err).Warn("rate limit check failed, allowing request")
				return next(c)
			}

			resetSec := 0
			if ttl, err := rdb.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
				resetSec = int((ttl + time.Second - 1) / time.Second)
			}

			remaining := max - int(count)
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

			if int(count) > max {
				if resetSec > 0 {
					h.Set("Retry-After", strconv.Itoa(resetSec))
				}
				return response.Error(c, http.StatusTooManyRequests, "Too many requests, please slow down")
			}
			return next(c)
		}
	}
}
