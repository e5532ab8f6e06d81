package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	movieDelivery "github.com/martinmanurung/cinevault/internal/domain/movies/delivery"
	movieRepository "github.com/martinmanurung/cinevault/internal/domain/movies/repository"
	movieUsecase "github.com/martinmanurung/cinevault/internal/domain/movies/usecase"
	peopleDelivery "github.com/martinmanurung/cinevault/internal/domain/people/delivery"
	peopleRepository "github.com/martinmanurung/cinevault/internal/domain/people/repository"
	peopleUsecase "github.com/martinmanurung/cinevault/internal/domain/people/usecase"
	"github.com/martinmanurung/cinevault/internal/domain/ratings"
	reviewDelivery "github.com/martinmanurung/cinevault/internal/domain/reviews/delivery"
	reviewRepository "github.com/martinmanurung/cinevault/internal/domain/reviews/repository"
	reviewUsecase "github.com/martinmanurung/cinevault/internal/domain/reviews/usecase"
	"github.com/martinmanurung/cinevault/internal/domain/users/delivery"
	"github.com/martinmanurung/cinevault/internal/domain/users/repository"
	"github.com/martinmanurung/cinevault/internal/domain/users/usecase"
	"github.com/martinmanurung/cinevault/internal/platform/config"
	"github.com/martinmanurung/cinevault/internal/platform/database"
	"github.com/martinmanurung/cinevault/internal/platform/queue"
	"github.com/martinmanurung/cinevault/internal/platform/storage"
	"github.com/martinmanurung/cinevault/pkg/jwt"
	"github.com/martinmanurung/cinevault/pkg/middleware"
	customValidator "github.com/martinmanurung/cinevault/pkg/validator"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// Setup zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	zlog.Info().Msg("Starting CineVault API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.InitMySQL(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()

	// Initialize MinIO
	minioClient, err := storage.InitMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}
	zlog.Info().Msg("MinIO initialized successfully")

	// Initialize Redis client
	redisAddr := cfg.Redis.Host + ":" + cfg.Redis.Port
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	zlog.Info().Msg("Redis initialized successfully")

	// Initialize services
	storageService := storage.NewStorageService(minioClient, cfg.MinIO.Bucket, cfg.MinIO.PublicBaseURL)
	queueService := queue.NewRedisQueue(redisClient)

	// Initialize Echo
	e := echo.New()
	e.Use(middleware.RequestID())
	e.HideBanner = false

	// Register validator
	e.Validator = customValidator.New()

	// Initialize JWT service
	tokenExpiry, err := time.ParseDuration(cfg.JWT.AccessTokenExpiry)
	if err != nil {
		tokenExpiry = 24 * time.Hour
	}
	jwtService := jwt.NewJWTService(cfg.JWT.SecretKey, tokenExpiry)

	// Initialize repositories
	userRepo := repository.NewUser(db)
	peopleRepo := peopleRepository.NewPeopleRepository(db)
	movieRepo := movieRepository.NewMovieRepository(db)
	reviewRepo := reviewRepository.NewReviewRepository(db)
	aggregator := ratings.NewAggregator(db)

	// Initialize use cases
	userUsecaseInstance := usecase.NewUsecase(userRepo, jwtService, queueService, cfg.Frontend.BaseURL)
	peopleUsecaseInstance := peopleUsecase.NewUsecase(peopleRepo, storageService)
	movieUsecaseInstance := movieUsecase.NewUsecase(movieRepo, storageService, aggregator, userRepo)
	reviewUsecaseInstance := reviewUsecase.NewUsecase(reviewRepo, userRepo, movieRepo)

	// Initialize handlers
	userHandler := delivery.NewHandler(ctx, userUsecaseInstance)
	peopleHandler := peopleDelivery.NewHandler(ctx, peopleUsecaseInstance)
	movieHandler := movieDelivery.NewHandler(ctx, movieUsecaseInstance)
	reviewHandler := reviewDelivery.NewHandler(ctx, reviewUsecaseInstance)

	// Setup routes
	setupRoutes(e, userHandler, peopleHandler, movieHandler, reviewHandler, jwtService)

	// Start server in goroutine
	go func() {
		port := cfg.Server.Port
		if port == "" {
			port = "8080"
		}

		zlog.Info().Str("port", port).Msg("Starting HTTP server")
		if err := e.Start(":" + port); err != nil {
			zlog.Info().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("Shutting down server...")

	// Gracefully shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	zlog.Info().Msg("Server exited successfully")
}
