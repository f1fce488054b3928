package main

import (
	"github.com/stagegear/inventory/internal/config"
	"github.com/stagegear/inventory/internal/handlers"
	"github.com/stagegear/inventory/internal/middleware"
	"github.com/stagegear/inventory/internal/models"
	"github.com/stagegear/inventory/internal/services"
	"github.com/stagegear/inventory/internal/utils"
	"github.com/stagegear/inventory/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds the initialized services and handlers needed by the application.
type appServices struct {
	cfg          *config.Config
	authService  *services.AuthService
	loginLimiter *middleware.RateLimiter

	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	equipmentHandler    *handlers.EquipmentHandler
	notificationHandler *handlers.NotificationHandler
	healthHandler       *handlers.HealthHandler
}

// bootstrap connects and migrates the database, seeds the demo data when
// enabled and builds every service.
func bootstrap(cfg *config.Config) *appServices {
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if cfg.Seed.Enabled {
		if err := models.SeedDefaultData(models.GetDB()); err != nil {
			logger.Warn().Err(err).Msg("Failed to seed default data")
		}
	}

	return newAppServices(models.GetDB(), cfg)
}

func newAppServices(db *gorm.DB, cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.Session.Secret)

	sessions := services.NewSessionStore(db, &cfg.Redis)
	notificationService := services.NewNotificationService(db)
	authService := services.NewAuthService(db, sessions, &cfg.Session)

	return &appServices{
		cfg:                 cfg,
		authService:         authService,
		loginLimiter:        middleware.NewRateLimiter(30, 10),
		authHandler:         handlers.NewAuthHandler(authService, &cfg.Session),
		userHandler:         handlers.NewUserHandler(services.NewUserService(db, sessions)),
		equipmentHandler:    handlers.NewEquipmentHandler(services.NewEquipmentService(db, notificationService)),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		healthHandler:       handlers.NewHealthHandler(db),
	}
}
