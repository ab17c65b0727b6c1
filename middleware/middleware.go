// Package middleware holds the Fiber middleware stack wrapped around
// the route-planning endpoint: performance timing, rate limiting,
// structured request logging, security headers, and request IDs.
// There are no accounts or sessions in this system (spec §1 non-goals),
// so the teacher's Authentication/driver-ID middleware has no home here.
package middleware

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Performance tracks response times and adds performance headers.
func Performance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		c.Set("X-Response-Time", fmt.Sprintf("%.2fms", float64(duration.Nanoseconds())/1e6))
		c.Set("X-Processed-At", start.Format(time.RFC3339))

		if duration > 200*time.Millisecond {
			fmt.Printf("SLOW REQUEST: %s %s took %.2fms\n",
				c.Method(), c.Path(), float64(duration.Nanoseconds())/1e6)
		}

		return err
	}
}

// RateLimit caps requests per client IP, since the planning endpoint
// has no notion of an authenticated caller to key on.
func RateLimit() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail": "rate limit exceeded, try again later",
			})
		},
		SkipFailedRequests:     false,
		SkipSuccessfulRequests: false,
	})
}

// CORS handles cross-origin requests from the configured allow-list.
func CORS(allowedOrigins string) fiber.Handler {
	origins := strings.Split(allowedOrigins, ",")

	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")

		allowed := false
		for _, allowedOrigin := range origins {
			if strings.TrimSpace(allowedOrigin) == origin || strings.TrimSpace(allowedOrigin) == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Set("Access-Control-Allow-Origin", origin)
		}

		c.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Origin,Content-Type,Accept")
		c.Set("Access-Control-Max-Age", "86400")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}

// RequestLogging logs each request as a structured JSON line.
func RequestLogging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		ip := c.IP()
		method := c.Method()
		path := c.Path()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logEntry := map[string]interface{}{
			"timestamp":   start.Format(time.RFC3339),
			"ip":          ip,
			"method":      method,
			"path":        path,
			"status":      status,
			"duration_ms": float64(duration.Nanoseconds()) / 1e6,
			"user_agent":  userAgent,
		}
		if err != nil {
			logEntry["error"] = err.Error()
		}

		logJSON, _ := json.Marshal(logEntry)
		fmt.Println(string(logJSON))

		return err
	}
}

// SecurityHeaders adds baseline security-related response headers.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'self'")
		c.Set("X-API-Version", "v1")
		c.Set("X-Service", "fuelroute")

		return c.Next()
	}
}

// RequestID attaches a request ID, generating one when the caller
// didn't supply one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		c.Set("X-Request-ID", requestID)
		c.Locals("request_id", requestID)

		return c.Next()
	}
}

func generateRequestID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// GetRequestID extracts the request ID from request context.
func GetRequestID(c *fiber.Ctx) string {
	if requestID, ok := c.Locals("request_id").(string); ok {
		return requestID
	}
	return c.Get("X-Request-ID", "unknown")
}
