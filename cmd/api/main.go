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

	"github.com/ratotecki/smartgridlab-api/internal/config"
	"github.com/ratotecki/smartgridlab-api/internal/database"
	"github.com/ratotecki/smartgridlab-api/internal/handler"
	"github.com/ratotecki/smartgridlab-api/internal/middleware"
	"github.com/ratotecki/smartgridlab-api/internal/models"
	"github.com/ratotecki/smartgridlab-api/internal/observability"
	"github.com/ratotecki/smartgridlab-api/internal/repository"
	"github.com/ratotecki/smartgridlab-api/internal/router"
	"github.com/ratotecki/smartgridlab-api/internal/service"
	cloud "github.com/ratotecki/smartgridlab-api/pkg/cloudinary"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.News{},
		&models.ContactMessage{},
		&models.WaitingListEntry{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer client.Close()
		redisClient = client
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer conn.Drain()
		natsConn = conn
	}

	var imageStorage service.FileStorage
	if cfg.CloudinaryCloudName != "" {
		storage, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		imageStorage = storage
	}

	observability.RegisterMetrics()

	validate := validator.New(validator.WithRequiredStructEnabled())
	sessions := service.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)

	userRepo := repository.NewUserRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	contactRepo := repository.NewContactRepository(db)
	waitingListRepo := repository.NewWaitingListRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	leads := service.NewNATSLeadPublisher(natsConn, "leads", logger)

	authService := service.NewAuthService(userRepo, sessions, activityService, logger)
	contactService := service.NewContactService(contactRepo, validate, activityService, leads, logger)
	waitingListService := service.NewWaitingListService(waitingListRepo, validate, activityService, leads, logger)
	newsService := service.NewNewsService(newsRepo, redisClient, cfg.NewsCacheTTL, validate, activityService, logger)
	imageService := service.NewNewsImageService(imageStorage, activityService, 10, logger)
	bootstrapService := service.NewBootstrapService(userRepo, validate, activityService, cfg.AdminBootstrapEnabled, logger)

	deps := router.Dependencies{
		HealthHandler:      handler.NewHealthHandler(cfg.AppName, version),
		AuthHandler:        handler.NewAuthHandler(authService, activityService, cfg.SessionCookieName, cfg.SessionTTL, cfg.IsProduction(), logger),
		ContactHandler:     handler.NewContactHandler(contactService, logger),
		WaitingListHandler: handler.NewWaitingListHandler(waitingListService, logger),
		NewsHandler:        handler.NewNewsHandler(newsService, imageService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		BootstrapHandler:   handler.NewBootstrapHandler(bootstrapService, logger),
		Recorder:           activityService,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Use(middleware.Session(sessions, cfg.SessionCookieName))
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("addr", cfg.HTTPAddress()).Msg("server started")
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
