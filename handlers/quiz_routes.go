// handlers/quiz_routes.go
package handlers

import (
	"errors"

	"course-learning-system/middleware"
	"course-learning-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupQuizRoutes(app *fiber.App, quizService *services.QuizService) {
	// 🔓 Quiz listings ride the course detail pages (Gateway auth only)
	app.Get("/courses/:id/quizzes", func(c *fiber.Ctx) error {
		quizzes, err := quizService.ListQuizzes(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list quizzes",
				"cause": err.Error(),
			})
		}
		return c.JSON(quizzes)
	})

	// 🔐 Taking and authoring quizzes requires user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/quizzes", func(c *fiber.Ctx) error {
		type Req struct {
			CourseID    string                   `json:"course_id" validate:"required,uuid"`
			LessonID    *string                  `json:"lesson_id" validate:"omitempty,uuid"`
			Title       string                   `json:"title" validate:"required,max=200"`
			Description string                   `json:"description" validate:"max=1000"`
			Questions   []services.QuestionInput `json:"questions" validate:"required,min=1,dive"`
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

		quiz, err := quizService.CreateQuiz(req.CourseID, req.LessonID, req.Title, req.Description, req.Questions)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create quiz",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(quiz)
	})

	secured.Get("/quizzes/:id", func(c *fiber.Ctx) error {
		quiz, err := quizService.GetQuiz(c.Params("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "quiz not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch quiz",
				"cause": err.Error(),
			})
		}
		return c.JSON(quiz)
	})

	secured.Post("/quizzes/:id/attempts", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		attempt, err := quizService.StartAttempt(userID, c.Params("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "quiz not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to start attempt",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(attempt)
	})

	secured.Post("/attempts/:id/submit", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Answers []services.AnswerInput `json:"answers" validate:"required,dive"`
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

		attempt, err := quizService.SubmitAttempt(userID, c.Params("id"), req.Answers)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "attempt not found",
				})
			case errors.Is(err, services.ErrAttemptCompleted):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "attempt already submitted",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to submit attempt",
				"cause": err.Error(),
			})
		}
		return c.JSON(attempt)
	})

	secured.Get("/attempts/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		attempt, err := quizService.GetAttempt(userID, c.Params("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "attempt not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch attempt",
				"cause": err.Error(),
			})
		}
		return c.JSON(attempt)
	})
}
