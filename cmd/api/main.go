// @title AI Wiki Quiz Generator API
// @version 1.0.0
// @description Turns Wikipedia articles into multiple-choice quizzes and keeps a history of them.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8000
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"wikiquiz/internal/adapter"
	"wikiquiz/internal/adapter/quizgen"
	"wikiquiz/internal/adapter/scraper"
	"wikiquiz/internal/cache"
	"wikiquiz/internal/config"
	"wikiquiz/internal/database"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/handler"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/middleware"
	"wikiquiz/internal/repository"
	"wikiquiz/internal/service"

	_ "wikiquiz/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(db); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
		appLogger.Info("Database schema is up to date")
	}

	// Initialize store
	var quizStore domain.QuizStore = repository.NewQuizRecordRepository(db, repository.NewTransactionManagerAdapter(db))

	// Redis is optional; without it every lookup goes to the database.
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without quiz cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			quizStore = service.NewCachedQuizStore(quizStore, adapter.NewRedisCacheAdapter(redisClient), cfg.Cache.QuizTTL)
			appLogger.Info("Quiz cache enabled", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.Cache.QuizTTL))
		}
	}

	// Initialize pipeline stages
	extractor := scraper.NewWikipediaScraper(cfg.Scraper, appLogger)

	generator, err := quizgen.NewTextGenerator(context.Background(), cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	appLogger.Info("LLM client initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	synthesizer := quizgen.NewQuizSynthesizer(generator, cfg.LLM, appLogger)

	quizService := service.NewQuizService(extractor, synthesizer, quizStore)
	quizHandler := handler.NewQuizHandler(quizService, db.PingContext)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      handler.APIName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.SetupRoutes(app, quizHandler)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
