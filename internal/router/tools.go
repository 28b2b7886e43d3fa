package router

import "github.com/gin-gonic/gin"

func (r *Router) toolsRoutes(version *gin.RouterGroup) {
	tools := version.Group("/tools")
	{
		// Live translation and document conversion work without an
		// account; a valid token still attaches the user for logs.
		tools.Use(r.authMw.OptionalAuth())

		tools.POST("/translate", r.toolsHandler.Translate)
		tools.POST("/detect-language", r.toolsHandler.DetectLanguage)
		tools.POST("/recognize-text", r.toolsHandler.RecognizeText)
		tools.POST("/recognize-asl", r.toolsHandler.RecognizeASL)
		tools.POST("/text-to-speech", r.toolsHandler.TextToSpeech)
		tools.POST("/speech-to-text", r.toolsHandler.SpeechToText)
		tools.POST("/extract-text", r.toolsHandler.ExtractText)
		tools.POST("/generate-docx", r.toolsHandler.GenerateDocx)
		tools.GET("/languages", r.languageHandler.List)
	}
}
