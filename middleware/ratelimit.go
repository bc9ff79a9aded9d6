package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/redis"
)

// RateLimit is a fixed-window limiter keyed on client IP and path, backed by
// Redis so the window survives restarts. Used on the auth and email surfaces
// where abuse is cheap for the caller and expensive for us.
func RateLimit(max int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.IP())

		count, err := redis.Client.Incr(redis.Ctx, key).Result()
		if err != nil {
			// A limiter outage must not lock everyone out.
			log.Printf("rate limiter unavailable: %v", err)
			return c.Next()
		}
		if count == 1 {
			redis.Client.Expire(redis.Ctx, key, window)
		}

		if count > int64(max) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later",
			})
		}

		return c.Next()
	}
}
