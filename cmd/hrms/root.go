package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/peoplehub/hrms-api/internal/infrastructure/config"
	"github.com/peoplehub/hrms-api/pkg/logger"
)

const serviceName = "hrms-api"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hrms",
		Short: "Identity and access service for the HR dashboard.",
		Long: `hrms serves registration, login and role-based navigation for the HR
dashboard, and offers operator commands for managing accounts.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newCreateUserCmd(), newHashPasswordCmd())
	return root
}

// setup loads configuration and initialises the process logger.
func setup(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})
	return cfg, log, nil
}
