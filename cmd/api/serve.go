package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/my-academia/academia-service/docs"
	"github.com/my-academia/academia-service/internal/app"
	"github.com/my-academia/academia-service/internal/database"
	"github.com/my-academia/academia-service/internal/metrics"
	"github.com/my-academia/academia-service/pkg/redis"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		migrate         bool
		shutdownTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !cfg.IsDevelopment() {
				gin.SetMode(gin.ReleaseMode)
			}

			// Initialize database
			db, err := database.Connect(postgresConfig(), log)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("failed to get sql.DB: %w", err)
			}
			defer sqlDB.Close()

			if migrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}

			// Initialize Redis
			redisClient, err := redis.NewClient(ctx, redis.Config{
				Host:     cfg.RedisHost,
				Port:     cfg.RedisPort,
				Password: cfg.RedisPassword,
			})
			if err != nil {
				return err
			}
			defer redisClient.Close()

			router, err := app.NewRouter(app.Deps{
				DB:      db,
				Redis:   redisClient,
				Config:  cfg,
				Log:     log,
				Metrics: metrics.New(),
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			serverErrors := make(chan error, 1)
			go func() {
				log.WithField("port", cfg.Port).Info("starting academia service")
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
				log.Info("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "Migrate the schema before serving")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "Time allowed for in-flight requests on shutdown")
	return cmd
}
