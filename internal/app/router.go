package app

import (
	"academy_backend/docs"
	"academy_backend/internal/config"
	"academy_backend/internal/middleware"
	"academy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	public.Use(middleware.VisitorMiddleware())
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Content routes resolve access per request. Auth is optional here:
		// logged-in premium users get FULL, anonymous visitors get whatever
		// their flags and free weeks allow.
		content := public.Group("/")
		content.Use(middleware.TryAuthMiddleware(cfg))
		{
			content.GET("/curriculum", c.curriculum.GetCurriculum)
			content.GET("/weeks", c.curriculum.ListWeeks)
			content.GET("/weeks/:number", c.curriculum.GetWeek)
			content.GET("/appendices", c.curriculum.ListAppendices)
			content.GET("/appendices/:letter", c.curriculum.GetAppendix)
			content.GET("/access/:number", c.curriculum.GetAccess)
		}

		public.POST("/subscribe", c.subscribe.Subscribe)
		public.POST("/subscribe/skip", c.subscribe.SkipGate)
		public.POST("/subscribe/dismiss", c.subscribe.DismissBanner)

		public.POST("/checkout", c.payment.CreateCheckout)
		public.GET("/verify-order", c.payment.VerifyOrder)
	}

	// Webhooks carry their own authentication (the signature) and no visitor
	// cookie, so they sit outside the public group.
	router.POST("/api/webhooks/payment", c.webhook.HandlePayment)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		authGroup.GET("/progress", c.progress.GetProgress)
		authGroup.POST("/progress/weeks/:number/toggle", c.progress.ToggleWeek)
		authGroup.GET("/certificate", c.progress.GetCertificate)
	}
}
