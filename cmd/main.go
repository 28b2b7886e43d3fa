package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	configs "github.com/translationhub/server/config"
	"github.com/translationhub/server/internal/handler"
	"github.com/translationhub/server/internal/middleware"
	"github.com/translationhub/server/internal/repository"
	"github.com/translationhub/server/internal/router"
	"github.com/translationhub/server/internal/service"
	"github.com/translationhub/server/pkg/database"
	"github.com/translationhub/server/pkg/docx"
	"github.com/translationhub/server/pkg/logger"
	"github.com/translationhub/server/pkg/openai"
	"github.com/translationhub/server/pkg/redis"
	"github.com/translationhub/server/pkg/validation"
)

const version = "1.0.0"

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", version),
	)

	if err := validation.RegisterLangCode(); err != nil {
		logger.GetLogger().Fatal("Failed to register validators", zap.Error(err))
	}

	dbConfig := database.DefaultConfig()
	dbConfig.Host = config.Database.Host
	dbConfig.Port = config.Database.Port
	dbConfig.User = config.Database.User
	dbConfig.Password = config.Database.Password
	dbConfig.Database = config.Database.Name
	dbConfig.SSLMode = config.Database.SSLMode
	dbConfig.MaxIdleConns = config.Database.MaxIdleConns
	dbConfig.MaxOpenConns = config.Database.MaxOpenConns
	dbConfig.ConnMaxLifetime = config.Database.ConnMaxLifetime
	dbConfig.ConnMaxIdleTime = config.Database.ConnMaxIdleTime

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	translationRepo := repository.NewTranslationRepository(db)

	// Services
	tokenCodec := service.NewTokenCodec(config.Auth.Secret, config.Auth.TokenTTL)
	sessionManager := service.NewSessionManager(userRepo, sessionRepo, tokenCodec, config.Auth.BcryptCost)
	userService := service.NewUserService(userRepo)
	translationService := service.NewTranslationService(translationRepo)

	aiClient := openai.NewClient(openai.Config{
		APIKey:          config.OpenAI.APIKey,
		BaseURL:         config.OpenAI.BaseURL,
		ChatModel:       config.OpenAI.ChatModel,
		SpeechModel:     config.OpenAI.SpeechModel,
		TranscribeModel: config.OpenAI.TranscribeModel,
		Voice:           config.OpenAI.Voice,
		Timeout:         config.OpenAI.Timeout,
		MaxRetries:      config.OpenAI.MaxRetries,
	}, logger.GetLogger())

	docBuilder, err := docx.NewBuilder(config.App.Name)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize document builder", zap.Error(err))
	}

	translationCache := service.NewTranslationCache(redisClient, config.Redis.CacheTTL)
	toolsService := service.NewToolsService(aiClient, translationCache, docBuilder)
	languageCatalog := service.NewLanguageCatalog()

	// Handlers
	authHandler := handler.NewAuthHandler(sessionManager)
	userHandler := handler.NewUserHandler(userService)
	translationHandler := handler.NewTranslationHandler(translationService)
	toolsHandler := handler.NewToolsHandler(toolsService)
	languageHandler := handler.NewLanguageHandler(languageCatalog)
	healthHandler := handler.NewHealthHandler(db, redisClient, version)

	authMiddleware := middleware.NewAuthMiddleware(sessionManager)

	r := router.NewRouter(
		authHandler,
		userHandler,
		translationHandler,
		toolsHandler,
		languageHandler,
		healthHandler,

		authMiddleware,
		config,
	).SetupRoutes()

	// Periodic purge of expired session rows.
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go func() {
		cleanupLog := logger.WithFields(zap.String("component", "session_cleanup"))
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if _, err := sessionManager.PurgeExpired(cleanupCtx); err != nil {
					cleanupLog.Warn("Session cleanup failed", zap.Error(err))
				}
			}
		}
	}()

	go func() {
		logger.GetSugarLogger().Infof("Server listening on :%s", config.App.Port)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
