package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"batch-scorer-server/handlers"
	"batch-scorer-server/middleware"
	"batch-scorer-server/services"

	_ "batch-scorer-server/docs"
)

// @title ScoreGate API
// @version 1.0
// @description Batch scoring service registration and job submission API
// @host localhost:8080
// @BasePath /api
func main() {
	// Config
	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort, _ := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	serverPort := getEnv("SERVER_PORT", "8080")

	// PostgreSQL Config
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	dbUser := getEnv("DB_USER", "scoregate")
	dbPassword := getEnv("DB_PASSWORD", "scoregate")
	dbName := getEnv("DB_NAME", "scoregate")

	// Storage Config
	storageType := getEnv("STORAGE_TYPE", "local")
	storagePath := getEnv("STORAGE_PATH", "/data/artifacts")

	// Initialize services
	dbService, err := services.NewDBService(dbHost, dbPort, dbUser, dbPassword, dbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbService.Close()

	// Initialize database schema
	if err := dbService.InitSchema(context.Background()); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}
	log.Println("Database schema initialized")

	// Initialize blob store
	blobStore, err := services.NewBlobStore(storageType, storagePath)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}
	log.Printf("Blob store initialized: %s (%s)", storageType, storagePath)

	// Initialize Redis service
	redisService := services.NewRedisService(redisHost, redisPort)

	// Initialize scoring service
	scoringService := services.NewScoringService(dbService, blobStore, redisService)

	// Initialize schedule service and runner
	scheduleService := services.NewScheduleService(dbService)
	scheduleRunner := services.NewScheduleRunner(scheduleService, scoringService)
	scheduleRunner.Start()
	defer scheduleRunner.Stop()

	// Initialize handlers
	serviceHandler := handlers.NewServiceHandler(scoringService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName: "ScoreGate",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(middleware.XRayMiddleware())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health endpoints
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "UP"})
	})

	// API routes
	api := app.Group("/api")

	// Scoring service routes
	api.Post("/services", serviceHandler.RegisterService)
	api.Get("/services", serviceHandler.ListServices)
	api.Get("/services/:id", serviceHandler.GetService)
	api.Post("/services/:id/score", serviceHandler.SubmitJob)
	api.Get("/services/:id/jobs", serviceHandler.ListJobs)
	api.Get("/services/:id/jobs/:jobId", serviceHandler.GetJobResult)

	// Scheduled run routes
	api.Post("/services/:id/schedules", scheduleHandler.CreateSchedule)
	api.Get("/services/:id/schedules", scheduleHandler.ListSchedules)
	api.Delete("/services/:id/schedules/:scheduleId", scheduleHandler.DeleteSchedule)

	log.Printf("ScoreGate Server starting on port %s", serverPort)
	log.Printf("Database: %s:%d/%s", dbHost, dbPort, dbName)
	log.Printf("Redis: %s:%d", redisHost, redisPort)
	log.Fatal(app.Listen(":" + serverPort))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
