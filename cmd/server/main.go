package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
	config "github.com/teampulse/api/configs"
	"github.com/teampulse/api/internal/api/handlers"
	"github.com/teampulse/api/internal/api/middleware"
	job "github.com/teampulse/api/internal/jobs"
	"github.com/teampulse/api/internal/queue"
	"github.com/teampulse/api/internal/repository"
	"github.com/teampulse/api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    25 * 1024 * 1024, // 25 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return origin == cfg.FrontendURL
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	postRepo := repository.NewPostRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	syncRunRepo := repository.NewSyncRunRepository(db)
	scheduledPostRepo := repository.NewScheduledPostRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	tokenService := service.NewTokenService(*cfg, credentialRepo)
	linkedInService := service.NewLinkedInService(*cfg, tokenService)
	syncService := service.NewSyncService(*cfg, tokenService, linkedInService, userRepo, postRepo, engagementRepo, syncRunRepo)
	r2Service := service.NewR2Service(*cfg)
	publishService := service.NewPublishService(*cfg, scheduledPostRepo, mediaAssetRepo, postRepo, tokenService, linkedInService, r2Service)
	leaderboardService := service.NewLeaderboardService(engagementRepo, postRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	linkedin := handlers.NewLinkedInHandler(*cfg, linkedInService)
	app.Get("/auth/linkedin", linkedin.Authorize)
	app.Get("/auth/linkedin/callback", linkedin.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/linkedin", user.LinkMemberURN)

	sync := handlers.NewSyncHandler(syncService)
	api.Post("/sync/trigger", sync.TriggerSync)
	api.Get("/sync/status", sync.GetSyncStatus)

	leaderboard := handlers.NewLeaderboardHandler(leaderboardService)
	api.Get("/leaderboard", leaderboard.GetLeaderboard)
	api.Get("/posts", leaderboard.ListPosts)

	post := handlers.NewPostHandler(publishService, client)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts/scheduled", post.ListScheduled)

	// cron jobs
	syncJob := job.NewSyncJob(syncService)

	// queue
	queueW := queue.NewQueue(publishService)

	c := cron.New()
	c.AddFunc("@daily", syncJob.Run)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 5,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
