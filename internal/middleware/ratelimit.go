package middleware

import (
    "math"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/job-application-tracker/internal/config"
)

// CredentialRateLimit returns a fixed-window rate limiter for the
// credential endpoints (login and the recovery steps). The window state
// lives in Redis so all instances of the service share one budget per
// client IP and route; a single INCR+EXPIRE script keeps count and
// window start atomic. When Redis is not configured or unreachable the
// limiter lets requests through — availability of login wins over
// throttling.
func CredentialRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    windowScript := redis.NewScript(`
        local n = redis.call('INCR', KEYS[1])
        if n == 1 then
            redis.call('PEXPIRE', KEYS[1], ARGV[1])
        end
        local ttl = redis.call('PTTL', KEYS[1])
        return { n, ttl }
    `)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ip := c.RealIP()
            if ip == "" {
                ip = "unknown"
            }
            key := cfg.Prefix + ":" + ip + ":" + c.Request().Method + " " + c.Path()

            vals, err := windowScript.Run(c.Request().Context(), rdb,
                []string{key}, cfg.Window.Milliseconds()).Result()
            if err != nil {
                c.Logger().Warnf("ratelimit: redis error for key=%s: %v", key, err)
                return next(c)
            }
            arr, ok := vals.([]interface{})
            if !ok || len(arr) != 2 {
                return next(c)
            }
            count, _ := arr[0].(int64)
            ttlMs, _ := arr[1].(int64)

            remaining := int64(cfg.MaxAttempts) - count
            if remaining < 0 {
                remaining = 0
            }
            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxAttempts))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if count > int64(cfg.MaxAttempts) {
                secs := int(math.Ceil(float64(ttlMs) / 1000.0))
                if secs < 0 {
                    secs = int(cfg.Window / time.Second)
                }
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too many attempts",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}
