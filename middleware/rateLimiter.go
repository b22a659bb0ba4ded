package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// FormRateLimiter throttles POSTs to a credential form per client IP. GETs
// pass through so the form itself always renders.
func FormRateLimiter(storage fiber.Storage, max int, window time.Duration, view string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return view + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			Flash(c, FlashError, "Too many attempts. Please try again in a few minutes.")
			return Render(c, fiber.StatusTooManyRequests, view, nil)
		},
	})
}
