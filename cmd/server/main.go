package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bellavista/bellavista-backend/config"
	"github.com/bellavista/bellavista-backend/internal/app/controller"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/db"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/bellavista/bellavista-backend/internal/router"
	"github.com/bellavista/bellavista-backend/internal/scheduler"
	"github.com/bellavista/bellavista-backend/internal/storage"
	"github.com/bellavista/bellavista-backend/internal/ws"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"github.com/bellavista/bellavista-backend/pkg/mailer"
	"github.com/bellavista/bellavista-backend/pkg/redis"
	"github.com/bellavista/bellavista-backend/pkg/twilio"
)

// whatsAppSink adapts the Twilio client to the notification sink interface.
type whatsAppSink struct {
	client *twilio.Client
}

func (s whatsAppSink) Enabled() bool {
	return s.client.Enabled()
}

func (s whatsAppSink) SendWhatsApp(ctx context.Context, body string) error {
	_, err := s.client.SendWhatsApp(ctx, body)
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:  logLevel,
		Format: "console", // use "json" for production
	})

	logger.Info("Starting Bella Vista Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional: without it, logout revocation and visitor counters
	// become no-ops.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without it", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	catalogRepo := repository.NewCatalogRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	discountRepo := repository.NewDiscountRepository(db.GetDB())
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	cityRepo := repository.NewCityRepository(db.GetDB())
	notifRepo := repository.NewNotificationRepository(db.GetDB())

	// Notification channels
	var emailSink service.EmailSink
	if cfg.SMTP.Host != "" {
		emailSink = mailer.New(cfg.SMTP)
	}
	var messageSink service.MessageSink
	twilioClient := twilio.NewClient(cfg.Twilio)
	if twilioClient.Enabled() {
		messageSink = whatsAppSink{client: twilioClient}
	}
	notificationService := service.NewNotificationService(
		notifRepo, emailSink, messageSink, cfg.Notify.OrderEmailTo)

	hub := ws.NewHub()

	// Services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	catalogService := service.NewCatalogService(catalogRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, catalogRepo, discountRepo, restaurantRepo)
	orderService := service.NewOrderService(
		db.GetDB(), orderRepo, cartRepo, discountRepo, restaurantRepo,
		addressRepo, cityRepo, notificationService, hub)
	discountService := service.NewDiscountService(discountRepo)
	cityService := service.NewCityService(cityRepo)
	addressService := service.NewAddressService(addressRepo, cityRepo)
	restaurantService := service.NewRestaurantService(restaurantRepo)
	adminService := service.NewAdminService(userRepo, cartRepo)
	reportService := service.NewReportService(orderRepo, cartRepo)

	// Controllers
	authController := controller.NewAuthController(authService)
	catalogController := controller.NewCatalogController(catalogService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	discountController := controller.NewDiscountController(discountService)
	cityController := controller.NewCityController(cityService)
	addressController := controller.NewAddressController(addressService)
	restaurantController := controller.NewRestaurantController(restaurantService)
	adminController := controller.NewAdminController(adminService, reportService)
	uploadController := controller.NewUploadController(storage.NewS3Storage(
		cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Background jobs
	cleanup := scheduler.NewCartCleanupScheduler(cartRepo)
	if err := cleanup.Start(); err != nil {
		logger.Error("Failed to start cart cleanup scheduler", err)
	}
	defer cleanup.Stop()

	r := router.NewRouter(
		authController,
		catalogController,
		cartController,
		orderController,
		discountController,
		cityController,
		addressController,
		restaurantController,
		adminController,
		uploadController,
		hub,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
