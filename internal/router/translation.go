package router

import (
	"github.com/gin-gonic/gin"

	"github.com/translationhub/server/internal/constants"
)

func (r *Router) translationRoutes(version *gin.RouterGroup) {
	translations := version.Group("/translations")
	translations.Use(r.authMw.RequireAuth())
	{
		translations.POST("/text", r.translationHandler.Save(constants.TranslationKindText))
		translations.GET("/text", r.translationHandler.List(constants.TranslationKindText))
		translations.DELETE("/text", r.translationHandler.Clear(constants.TranslationKindText))

		translations.POST("/voice", r.translationHandler.Save(constants.TranslationKindVoice))
		translations.GET("/voice", r.translationHandler.List(constants.TranslationKindVoice))
		translations.DELETE("/voice", r.translationHandler.Clear(constants.TranslationKindVoice))

		translations.DELETE("/:id", r.translationHandler.Delete)
		translations.DELETE("", r.translationHandler.Clear(""))
	}

	protected := version.Group("")
	protected.Use(r.authMw.RequireAuth())
	{
		protected.GET("/statistics", r.translationHandler.Stats)
		protected.GET("/audit-logs", r.translationHandler.AuditLogs)
	}
}
