// Package routes defines HTTP routes for the academia service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/docs"
	"github.com/my-academia/academia-service/internal/handlers"
	"github.com/my-academia/academia-service/internal/metrics"
	"github.com/my-academia/academia-service/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Modules    *handlers.ModuleHandler
	Coursework *handlers.CourseworkHandler
	Health     *handlers.HealthHandler
}

// Options holds the cross-cutting pieces of the router.
type Options struct {
	Authenticator    *middleware.Authenticator
	LoginRateLimiter *middleware.RateLimiter
	Metrics          *metrics.Metrics
	CORS             middleware.CORSConfig
	SwaggerHost      string
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, opts Options) {
	router.Use(middleware.CORS(opts.CORS))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	requireIdentity := opts.Authenticator.Require

	api := router.Group("/api")
	api.GET("/health", h.Health.Check)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", opts.LoginRateLimiter.Handler(), h.Auth.Login)
		auth.GET("/me", requireIdentity(h.Auth.Me))
	}

	modules := api.Group("/modules")
	{
		modules.GET("", requireIdentity(h.Modules.List))
		modules.POST("", requireIdentity(h.Modules.Create))
		modules.GET("/:id", requireIdentity(h.Modules.Get))
		modules.PUT("/:id", requireIdentity(h.Modules.Update))
		modules.DELETE("/:id", requireIdentity(h.Modules.Delete))

		modules.GET("/:id/assignments", requireIdentity(h.Coursework.ListAssignments))
		modules.POST("/:id/assignments", requireIdentity(h.Coursework.CreateAssignment))
		modules.PUT("/:id/assignments/:assignmentId", requireIdentity(h.Coursework.UpdateAssignment))
		modules.DELETE("/:id/assignments/:assignmentId", requireIdentity(h.Coursework.DeleteAssignment))

		modules.GET("/:id/labs", requireIdentity(h.Coursework.ListLabs))
		modules.POST("/:id/labs", requireIdentity(h.Coursework.CreateLab))
		modules.PUT("/:id/labs/:labId", requireIdentity(h.Coursework.UpdateLab))
		modules.DELETE("/:id/labs/:labId", requireIdentity(h.Coursework.DeleteLab))
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if opts.SwaggerHost != "" {
		docs.SwaggerInfo.Host = opts.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
