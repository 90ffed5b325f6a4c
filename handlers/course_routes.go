// handlers/course_routes.go
package handlers

import (
	"errors"

	"course-learning-system/middleware"
	"course-learning-system/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func SetupCourseRoutes(app *fiber.App, courseService *services.CourseService, youtubeService *services.YouTubeService) {
	// 🔓 Public routes — *no user context*, but **still require Gateway auth**.
	// X-User-ID is read when present so lists carry per-user progress.
	app.Get("/courses", func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		courses, err := courseService.ListCourses(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list courses",
				"cause": err.Error(),
			})
		}
		return c.JSON(courses)
	})

	app.Get("/courses/:id", func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		detail, err := courseService.GetCourse(c.Params("id"), userID)
		if err != nil {
			if errors.Is(err, services.ErrCourseNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "course not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch course",
				"cause": err.Error(),
			})
		}
		return c.JSON(detail)
	})

	// 🔐 Secured routes — require user context (userID, roles)
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/courses/import", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			URL string `json:"url" validate:"required,url"`
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

		course, err := youtubeService.ImportCourse(c.Context(), userID, req.URL)
		if err != nil {
			if errors.Is(err, services.ErrInvalidYouTubeURL) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "not a recognizable YouTube video or playlist URL",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "course import failed",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(course)
	})
}
