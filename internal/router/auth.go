package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/logout", r.authHandler.Logout)
		auth.GET("/validate-session", r.authHandler.ValidateSession)

		// Protected routes (session authentication required)
		protected := auth.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.GET("/me", r.authHandler.Me)
		}
	}

	// Aliases kept for older clients.
	session := version.Group("/session")
	{
		session.GET("/validate", r.authHandler.ValidateSession)
		session.POST("/logout", r.authHandler.Logout)
	}

	preferences := version.Group("/preferences")
	preferences.Use(r.authMw.RequireAuth())
	{
		preferences.POST("", r.userHandler.UpdatePreferences)
	}

	version.GET("/languages", r.languageHandler.List)
}
