package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peoplehub/hrms-api/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, err := setup(ctx)
			if err != nil {
				return err
			}

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("failed to start")
				return err
			}
			return a.Run(ctx)
		},
	}
}
