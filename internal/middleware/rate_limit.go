package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SubmissionRateLimit caps registration and login submissions per minute,
// keyed by the attempted username falling back to client IP. This is a
// transport-level guard, not account lockout; failed_attempts is tracked in
// storage but deliberately never enforced.
func SubmissionRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			Username string `json:"username" form:"username"`
		}
		_ = c.BodyParser(&req)
		key := strings.TrimSpace(req.Username)
		if key == "" {
			key = c.IP()
		}
		counter := "rl:submit:" + key
		cnt, err := cache.Incr(c.UserContext(), counter).Result()
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), counter, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests,
				"Слишком много попыток! Сервер устал от вас, зайдите через минуту.")
		}
		return c.Next()
	}
}
