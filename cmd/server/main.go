package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vestra/vestra-backend/config"
	"github.com/vestra/vestra-backend/internal/app/controller"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/internal/app/service"
	"github.com/vestra/vestra-backend/internal/db"
	"github.com/vestra/vestra-backend/internal/middleware"
	"github.com/vestra/vestra-backend/internal/router"
	"github.com/vestra/vestra-backend/internal/scheduler"
	"github.com/vestra/vestra-backend/internal/storage"
	"github.com/vestra/vestra-backend/internal/websocket"
	"github.com/vestra/vestra-backend/pkg/logger"
	"github.com/vestra/vestra-backend/pkg/redis"
)

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
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Vestra Backend Server", map[string]interface{}{
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

	// Redis is optional; without it the product cache and token blacklist
	// are simply skipped.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	savedRepo := repository.NewSavedRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	chatRepo := repository.NewChatRepository(db.GetDB())
	themeRepo := repository.NewThemeRepository(db.GetDB())

	// WebSocket hub for chat push
	hub := websocket.NewHub()
	go hub.Run()

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, db.GetDB())
	reviewService := service.NewReviewService(reviewRepo, orderRepo, productRepo)
	savedService := service.NewSavedService(savedRepo, productRepo)
	chatService := service.NewChatService(chatRepo, hub)
	themeService := service.NewThemeService(themeRepo)

	// Storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService, cfg.JWT)
	productController := controller.NewProductController(productService, reviewService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	reviewController := controller.NewReviewController(reviewService)
	savedController := controller.NewSavedController(savedService)
	chatController := controller.NewChatController(chatService, hub)
	themeController := controller.NewThemeController(themeService)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly popularity recompute
	popularityScheduler := scheduler.NewPopularityScheduler(productRepo)
	if err := popularityScheduler.Start(); err != nil {
		logger.Warn("Failed to start popularity scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer popularityScheduler.Stop()

	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		reviewController,
		savedController,
		chatController,
		themeController,
		uploadController,
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
