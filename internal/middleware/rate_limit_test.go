package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func TestSubmissionRateLimitCapsPerUsername(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Use(SubmissionRateLimit(cache, 2))
	app.Post("/register", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	send := func(username string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/register",
			strings.NewReader(`{"username":"`+username+`"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	for i := 0; i < 2; i++ {
		if code := send("teemo"); code != fiber.StatusOK {
			t.Fatalf("request %d: expected %d got %d", i, fiber.StatusOK, code)
		}
	}
	if code := send("teemo"); code != fiber.StatusTooManyRequests {
		t.Fatalf("expected %d got %d", fiber.StatusTooManyRequests, code)
	}

	// Another username keeps its own budget.
	if code := send("yasuo"); code != fiber.StatusOK {
		t.Fatalf("expected fresh budget for second username, got %d", code)
	}
}
