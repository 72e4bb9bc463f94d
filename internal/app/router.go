package app

import (
	"sat_practice_backend/docs"
	"sat_practice_backend/internal/config"
	"sat_practice_backend/internal/middleware"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. public catalog
	a.registerPublicRoutes(router, c)

	// 2. caller-scoped routes; anonymous callers get empty results
	a.registerMeRoutes(router, c, cfg)

	// 3. authenticated writes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		authGroup.POST("/attempts", c.attempt.RecordAttempt)
		authGroup.POST("/questions/:questionId/submit", c.question.SubmitAnswer)
	}

	// 4. admin
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/taxonomy", c.question.GetTaxonomy)

		public.GET("/questions", c.question.ListQuestions)
		public.GET("/questions/count", c.question.CountQuestions)
		public.GET("/questions/:questionId", c.question.GetQuestion)

		public.GET("/catalog/ws", c.catalogWS.Subscribe)
	}
}

func (a *App) registerMeRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	me := router.Group("/api/me")
	me.Use(middleware.TryAuthMiddleware(cfg.JWT.Secret))
	{
		me.GET("", c.attempt.Me)
		me.GET("/attempts", c.attempt.ListMyAttempts)
		me.GET("/attempts/page", c.attempt.ListMyAttemptsPage)
		me.GET("/stats", c.attempt.Stats)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.Admin))
	{
		questions := admin.Group("/questions")
		questions.POST("/activate", c.admin.ActivateQuestions)
		questions.POST("/deactivate", c.admin.DeactivateQuestions)
		questions.POST("/deactivate-all", c.admin.DeactivateAllQuestions)
		questions.GET("/needing-update", c.admin.CountNeedingUpdate)
		questions.POST("/import", c.admin.ImportQuestions)
		questions.DELETE("", c.admin.ResetQuestions)
	}
}
