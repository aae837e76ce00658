package app

import (
	"context"
	"errors"
	"fmt"

	"safespace_backend/database"
	"safespace_backend/internal/auth"
	"safespace_backend/internal/config"
	"safespace_backend/internal/email"
	"safespace_backend/internal/handlers"
	"safespace_backend/internal/logger"
	"safespace_backend/internal/middleware"
	"safespace_backend/internal/models"
	"safespace_backend/internal/otp"
	"safespace_backend/internal/repositories"
	"safespace_backend/internal/routes"
	"safespace_backend/internal/services"
	"safespace_backend/internal/sms"
	"safespace_backend/internal/token"
	"safespace_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("AutoMigrate failed", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Redis unavailable", "error", err, "addr", cfg.Redis.Addr)
	}
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)

	roleRepo := repositories.NewRoleRepository()
	if err := roleRepo.EnsureDefaults(gormDB); err != nil {
		logger.Fatal("Failed to seed roles", "error", err)
	}
	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, rdb)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the fully wired gin engine. Tests call it directly
// against a test database and miniredis.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, rdb *redis.Client) *gin.Engine {
	serviceContainer := initializeServices(cfg, rdb)
	appHandlers := handlers.NewAppHandlers(cfg, serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, serviceContainer.Tokens, serviceContainer.Users, serviceContainer.Roles, rdb)
	return ginRouter
}

func initializeServices(cfg *config.Config, rdb *redis.Client) *services.ServiceContainer {
	tokens := token.NewService(token.Config{
		AccessSecret:  []byte(cfg.JWT.AccessSecret),
		RefreshSecret: []byte(cfg.JWT.RefreshSecret),
		ResetSecret:   []byte(cfg.JWT.ResetSecret),
		AccessTTL:     cfg.AccessTokenTTL(),
		RefreshTTL:    cfg.RefreshTokenTTL(),
		ResetTTL:      cfg.ResetTokenTTL(),
		OpTimeout:     cfg.RedisOpTimeout(),
	}, rdb)

	otpStore := otp.NewStore(rdb, cfg.RedisOpTimeout())

	var mailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		mailProvider = email.NewSMTPProvider(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	} else {
		logger.Warn("SMTP is not configured, outgoing mail is logged only")
		mailProvider = &LogEmailProvider{}
	}

	var smsProvider sms.Provider
	if cfg.SMS.Provider == "gateway" {
		smsProvider = sms.NewGatewayProvider(cfg.SMS.GatewayURL, cfg.SMS.APIKey, cfg.SMS.SenderID)
	} else {
		smsProvider = sms.NewLogProvider()
	}

	mailWorker := workers.NewMailWorker(mailProvider)
	mailWorker.Start(context.Background())

	return services.NewServiceContainer(cfg, tokens, otpStore, mailProvider, smsProvider, mailWorker)
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.FrontendURL))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin creates the bootstrap admin account from config. A second
// run is a no-op.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         "admin",
		IsVerified:   true,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
