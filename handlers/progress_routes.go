// handlers/progress_routes.go
package handlers

import (
	"errors"
	"log"

	"course-learning-system/middleware"
	"course-learning-system/services"
	"course-learning-system/tracker"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProgressRoutes(
	app *fiber.App,
	playbackService *services.PlaybackService,
	profileService *services.ProfileService,
	hub *services.CelebrationHub,
	authClient *services.AuthServiceClient,
) {
	// 🔐 Secured routes — require user context (userID, roles)
	// The gateway forwards paths like /api/v1/course/player/events -> /player/events
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Player event ingress: the client reports raw player transitions and
	// periodic time updates; all progress interpretation happens server-side.
	secured.Post("/player/events", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req services.PlayerEventInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		if err := playbackService.HandlePlayerEvent(userID, req); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "lesson not found",
				})
			}
			log.Printf("❌ [PLAYER] Event handling failed for user %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to process player event",
				"cause": err.Error(),
			})
		}

		return c.SendStatus(fiber.StatusAccepted)
	})

	secured.Get("/player/session", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		progress, err := playbackService.CurrentProgress(userID)
		if err != nil {
			if errors.Is(err, tracker.ErrNoSession) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "no active tracking session",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read session",
				"cause": err.Error(),
			})
		}
		return c.JSON(progress)
	})

	secured.Delete("/player/session", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		playbackService.CloseSession(userID)
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Explicit "Mark as Complete" — same idempotent pipeline as watch-through.
	secured.Post("/lessons/:id/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		snap, err := playbackService.MarkComplete(userID, c.Params("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "lesson not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark lesson complete",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "lesson marked complete",
			"profile": snap,
		})
	})

	secured.Get("/user/progress/:courseId", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		entries, err := profileService.GetCourseProgress(userID, c.Params("courseId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch course progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	// SSE — authenticated by query token (EventSource cannot set headers)
	app.Get("/user/celebrations/stream", middleware.SSEAuthMiddleware(authClient), hub.StreamCelebrationsSSE)
}
