package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"course-learning-system/handlers"
	"course-learning-system/middleware"
	"course-learning-system/models"
	"course-learning-system/services"
	"course-learning-system/utils"
	"course-learning-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Session-Token, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// R2 is optional: without it, imports keep the original YouTube
	// thumbnail URLs instead of mirrored copies.
	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 not configured, thumbnail mirroring disabled: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Course{},
		&models.Lesson{},
		&models.Profile{},
		&models.LessonProgress{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.UserPlaylist{},
		&models.PlaylistLesson{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.QuizAttempt{},
		&models.UserAnswer{},
		&models.Note{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	courseService := services.NewCourseService(db)
	profileService := services.NewProfileService(db)
	achievementService := services.NewAchievementService(db)
	youtubeService := services.NewYouTubeService(db)
	quizService := services.NewQuizService(db)
	noteService := services.NewNoteService(db)
	hub := services.NewCelebrationHub()
	playbackService := services.NewPlaybackService(db, hub, nil)

	if err := achievementService.SeedAchievements(); err != nil {
		log.Fatal("failed to seed achievements:", err)
	}

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("COURSE_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("COURSE_SERVICE_TOKEN environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Profile identity mirror from the profile service (optional)
	if syncServiceURL := os.Getenv("SYNC_SERVICE_URL"); syncServiceURL != "" {
		syncWorker := workers.NewProfileSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", serviceToken)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  SYNC_SERVICE_URL not set, profile sync disabled")
	}

	workers.NewSessionReaper(playbackService.Registry).Start(ctx)
	profileService.StartStreakScheduler()

	// ✅ Setup routes — Gateway auth enforced globally
	handlers.SetupCourseRoutes(app, courseService, youtubeService)
	handlers.SetupProgressRoutes(app, playbackService, profileService, hub, authClient)
	handlers.SetupProfileRoutes(app, profileService, achievementService)
	handlers.SetupPlaylistRoutes(app, courseService)
	handlers.SetupQuizRoutes(app, quizService)
	handlers.SetupNoteRoutes(app, noteService)

	go func() {
		if err := app.Listen(":5100"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5100")
	log.Println("✅ Session Reaper running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
