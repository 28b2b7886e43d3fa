package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/translationhub/server/config"
	"github.com/translationhub/server/internal/handler"
	"github.com/translationhub/server/internal/middleware"
)

type Router struct {
	authHandler        *handler.AuthHandler
	userHandler        *handler.UserHandler
	translationHandler *handler.TranslationHandler
	toolsHandler       *handler.ToolsHandler
	languageHandler    *handler.LanguageHandler
	healthHandler      *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	translation *handler.TranslationHandler,
	tools *handler.ToolsHandler,
	language *handler.LanguageHandler,
	health *handler.HealthHandler,

	authMw *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:        auth,
		userHandler:        user,
		translationHandler: translation,
		toolsHandler:       tools,
		languageHandler:    language,
		healthHandler:      health,

		authMw: authMw,
		Config: cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.BasicHealth)
		api.GET("/health/full", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.authRoutes(v1)
			r.translationRoutes(v1)
			r.toolsRoutes(v1)
		}
	}

	return router
}
