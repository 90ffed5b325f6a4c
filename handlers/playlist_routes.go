// handlers/playlist_routes.go
package handlers

import (
	"errors"

	"course-learning-system/middleware"
	"course-learning-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPlaylistRoutes(app *fiber.App, courseService *services.CourseService) {
	// 🔐 All playlist routes require user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/playlists", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Name        string   `json:"name" validate:"required,max=120"`
			Description string   `json:"description" validate:"max=500"`
			LessonIDs   []string `json:"lesson_ids" validate:"required,min=1,dive,uuid"`
		}
		var req Req
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

		playlist, err := courseService.CreatePlaylist(userID, req.Name, req.Description, req.LessonIDs)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create playlist",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(playlist)
	})

	secured.Get("/playlists", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		playlists, err := courseService.ListPlaylists(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list playlists",
				"cause": err.Error(),
			})
		}
		return c.JSON(playlists)
	})

	secured.Delete("/playlists/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := courseService.DeletePlaylist(userID, c.Params("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "playlist not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete playlist",
				"cause": err.Error(),
			})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
