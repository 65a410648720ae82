// Package app wires repositories, services and handlers into a gin engine.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/config"
	"github.com/my-academia/academia-service/internal/handlers"
	"github.com/my-academia/academia-service/internal/logger"
	"github.com/my-academia/academia-service/internal/metrics"
	"github.com/my-academia/academia-service/internal/middleware"
	"github.com/my-academia/academia-service/internal/repository"
	"github.com/my-academia/academia-service/internal/routes"
	"github.com/my-academia/academia-service/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the external resources the router is built on.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Config  *config.Config
	Log     *logrus.Logger
	Metrics *metrics.Metrics

	// AuthOptions are passed to the auth service. Tests lower the bcrypt cost.
	AuthOptions []service.AuthOption
}

// NewRouter builds the complete HTTP handler.
func NewRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	userRepo := repository.NewUserRepository(deps.DB)
	moduleRepo := repository.NewModuleRepository(deps.DB)
	courseworkRepo := repository.NewCourseworkRepository(deps.DB)

	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}
	authService := service.NewAuthService(userRepo, jwtService, deps.AuthOptions...)
	gate := service.NewAccessGate(jwtService, userRepo)
	moduleService := service.NewModuleService(moduleRepo)
	courseworkService := service.NewCourseworkService(moduleRepo, courseworkRepo)

	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	pingRedis := func(ctx context.Context) error {
		return deps.Redis.Ping(ctx).Err()
	}
	checks := map[string]handlers.CheckFunc{
		"database": sqlDB.PingContext,
		"redis":    pingRedis,
	}

	router := gin.New()
	// X-Forwarded-For is only honoured from these peers; the login limiter keys on ClientIP.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to configure trusted proxies: %w", err)
	}
	router.Use(gin.Recovery(), logger.Middleware(deps.Log))

	routes.Setup(router, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, deps.Log, m),
		Modules:    handlers.NewModuleHandler(moduleService, deps.Log),
		Coursework: handlers.NewCourseworkHandler(courseworkService, deps.Log),
		Health:     handlers.NewHealthHandler(checks, deps.Log),
	}, routes.Options{
		Authenticator:    middleware.NewAuthenticator(gate, deps.Log, m),
		LoginRateLimiter: middleware.LoginRateLimiter(deps.Redis, cfg.LoginRateLimit, cfg.LoginRateWindow, deps.Log, m),
		Metrics:          m,
		CORS:             middleware.DefaultCORSConfig(cfg.AllowedOrigins),
		SwaggerHost:      cfg.SwaggerHost,
	})

	return router, nil
}
