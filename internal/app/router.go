package app

import (
	"leaflow_checkin/internal/config"
	"leaflow_checkin/internal/middleware"
	"leaflow_checkin/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/dashboard", c.dashboard.GetDashboard)

		accounts := authGroup.Group("/accounts")
		{
			accounts.GET("", c.account.List)
			accounts.POST("", c.account.Create)
			accounts.PUT("/:id", c.account.Update)
			accounts.DELETE("/:id", c.account.Delete)
			accounts.GET("/:id/history", c.account.History)
		}

		authGroup.POST("/checkin/manual/:id", c.checkin.ManualTrigger)

		notification := authGroup.Group("/notification")
		{
			notification.GET("", c.notification.GetSettings)
			notification.PUT("", c.notification.UpdateSettings)
			notification.POST("/test", c.notification.SendTest)
		}
	}
}
