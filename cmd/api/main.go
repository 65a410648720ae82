// Package main is the entry point for the academia service.
package main

import (
	"fmt"
	"os"

	"github.com/my-academia/academia-service/internal/config"
	"github.com/my-academia/academia-service/internal/database"
	"github.com/my-academia/academia-service/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logrus.Logger
)

// @title my Academia API
// @version 1.0
// @description Student accounts, sessions and module attendance tracking
// @host localhost:5001
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "academia",
		Short: "my Academia API server",
		Long: `academia serves the my Academia REST API: student registration and login,
and per-student module, assignment and lab tracking.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log = logger.New(cfg.LogLevel, cfg.Environment, nil)
			return nil
		},
	}

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newMigrateCmd())
	return root
}

func postgresConfig() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		TimeZone: "UTC",
	}
}
