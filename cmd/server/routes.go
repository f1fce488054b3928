package main

import (
	"github.com/gin-gonic/gin"
	"github.com/stagegear/inventory/internal/middleware"
	"github.com/stagegear/inventory/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS(svc.cfg.CORS.AllowOrigins))

	api := r.Group("/api")
	api.Use(middleware.LoadSession(svc.authService, svc.cfg.Session.CookieName))
	{
		api.GET("/health", svc.healthHandler.CheckHealth)

		// Public
		api.POST("/auth/login", svc.loginLimiter.Middleware(), svc.authHandler.Login)
		api.GET("/auth/me", svc.authHandler.Me)
		api.GET("/equipment", svc.equipmentHandler.List)

		// Any logged-in user
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/auth/logout", svc.authHandler.Logout)

			protected.POST("/equipment", svc.equipmentHandler.Create)
			protected.PUT("/equipment/:id", svc.equipmentHandler.Update)
			protected.PUT("/equipment/:id/status", svc.equipmentHandler.SetStatus)
			protected.POST("/equipment/:id/logs", svc.equipmentHandler.ReportProblem)
			protected.POST("/equipment/:id/resolve", svc.equipmentHandler.ResolveProblem)

			protected.GET("/notifications", svc.notificationHandler.List)
			protected.POST("/notifications/read-all", svc.notificationHandler.MarkAllRead)
			protected.POST("/notifications/:id/read", svc.notificationHandler.MarkRead)
		}

		// Admin only. Anonymous callers get 403 here, not 401.
		admin := api.Group("")
		admin.Use(middleware.AdminRequired(), middleware.AuditLog())
		{
			admin.GET("/admin/users", svc.userHandler.List)
			admin.POST("/admin/users", svc.userHandler.Create)
			admin.DELETE("/admin/users/:id", svc.userHandler.Delete)
			admin.DELETE("/equipment/:id", svc.equipmentHandler.Delete)
		}
	}
}
