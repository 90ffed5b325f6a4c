package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func userContextApp() *fiber.App {
	app := fiber.New()
	secured := app.Group("/", UserContextMiddleware())
	secured.Post("/player/events", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id").(string),
			"roles":   c.Locals("user_roles"),
		})
	})
	return app
}

func TestUserContextRejectsMissingUserID(t *testing.T) {
	app := userContextApp()

	req := httptest.NewRequest("POST", "/player/events", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d for request without X-User-ID", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestUserContextPassesUserThrough(t *testing.T) {
	app := userContextApp()

	req := httptest.NewRequest("POST", "/player/events", nil)
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("X-User-Roles", "learner, admin")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want %d with user context set", resp.StatusCode, fiber.StatusOK)
	}
}
