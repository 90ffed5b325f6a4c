// handlers/profile_routes.go
package handlers

import (
	"strconv"

	"course-learning-system/middleware"
	"course-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, achievementService *services.AchievementService) {
	// 🔓 Leaderboard is public (Gateway auth only)
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		entries, err := profileService.GetLeaderboard(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	// 🔐 Secured routes — require user context (userID, roles)
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		profile, err := profileService.EnsureProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch profile",
				"cause": err.Error(),
			})
		}
		return c.JSON(profile)
	})

	secured.Get("/user/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := profileService.GetStats(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute stats",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	secured.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		achievements, err := achievementService.GetUserAchievements(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(achievements)
	})
}
