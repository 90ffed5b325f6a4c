// handlers/note_routes.go
package handlers

import (
	"errors"

	"course-learning-system/middleware"
	"course-learning-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Notes are always personal, so the whole surface sits behind user context.
func SetupNoteRoutes(app *fiber.App, noteService *services.NoteService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/lessons/:id/notes", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		notes, err := noteService.ListNotes(userID, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list notes",
				"cause": err.Error(),
			})
		}
		return c.JSON(notes)
	})

	secured.Post("/lessons/:id/notes", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			CourseID         string `json:"course_id" validate:"required,uuid"`
			Content          string `json:"content" validate:"required,max=5000"`
			TimestampSeconds *int64 `json:"timestamp_seconds" validate:"omitempty,gte=0"`
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

		note, err := noteService.CreateNote(userID, req.CourseID, c.Params("id"), req.Content, req.TimestampSeconds)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create note",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(note)
	})

	secured.Put("/notes/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Content string `json:"content" validate:"required,max=5000"`
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

		note, err := noteService.UpdateNote(userID, c.Params("id"), req.Content)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "note not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update note",
				"cause": err.Error(),
			})
		}
		return c.JSON(note)
	})

	secured.Delete("/notes/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := noteService.DeleteNote(userID, c.Params("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "note not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete note",
				"cause": err.Error(),
			})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
