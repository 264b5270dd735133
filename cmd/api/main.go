package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-go-api/internal/config"
	"github.com/noah-isme/lentera-go-api/internal/database"
	"github.com/noah-isme/lentera-go-api/internal/handler"
	"github.com/noah-isme/lentera-go-api/internal/middleware"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/repository"
	"github.com/noah-isme/lentera-go-api/internal/router"
	"github.com/noah-isme/lentera-go-api/internal/service"
	"github.com/noah-isme/lentera-go-api/pkg/events"
	"github.com/noah-isme/lentera-go-api/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Module{},
		&models.Lesson{},
		&models.Assignment{},
		&models.Submission{},
		&models.Grade{},
		&models.Discussion{},
		&models.Comment{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	tokens, err := token.New(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to initialise token service: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	publisher := events.NewPublisher(natsConn, "lentera.events", logger)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)

	authService := service.NewAuthService(userRepo, tokens, validate, cfg.BcryptCost, logger)
	courseService := service.NewCourseService(courseRepo, userRepo, redisClient, cfg.CatalogCacheTTL, publisher, validate, logger)
	moduleService := service.NewModuleService(moduleRepo, courseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, moduleRepo, courseRepo, publisher, validate, logger)
	discussionService := service.NewDiscussionService(discussionRepo, courseRepo, validate, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	moduleHandler := handler.NewModuleHandler(moduleService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	discussionHandler := handler.NewDiscussionHandler(discussionService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		CourseHandler:     courseHandler,
		ModuleHandler:     moduleHandler,
		SubmissionHandler: submissionHandler,
		DiscussionHandler: discussionHandler,
		Authenticate:      middleware.Authenticate(tokens, userRepo, logger),
		AuthLimiter:       middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
