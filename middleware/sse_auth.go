// course-learning-system/middleware/sse_auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"course-learning-system/services"
)

// SSEAuthMiddleware validates `token` from query params via AuthServiceClient.
// EventSource cannot set headers, so the SSE route authenticates out of band
// instead of riding the gateway's X-User-ID context.
//
// Usage:
//
//	app.Get("/user/celebrations/stream", middleware.SSEAuthMiddleware(authClient), hub.StreamCelebrationsSSE)
func SSEAuthMiddleware(authClient *services.AuthServiceClient) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(c.Query("token"))
		if accessToken == "" {
			log.Printf("[SSEAuth] ❌ Missing token query param for %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing token in query",
			})
		}

		resp, err := authClient.ValidateToken(accessToken)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed for token (prefix: %s...): %v",
				accessToken[:min(10, len(accessToken))], err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		// Attach to Fiber context (like UserContextMiddleware, but from query)
		c.Locals("user_id", resp.UserID)
		c.Locals("user_roles", resp.Roles)

		log.Printf("[SSEAuth] ✅ Authenticated user %s", resp.UserID)
		return c.Next()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
