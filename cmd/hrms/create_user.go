package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peoplehub/hrms-api/internal/app"
	"github.com/peoplehub/hrms-api/internal/core/domain"
)

func newCreateUserCmd() *cobra.Command {
	var name, role, pass string

	cmd := &cobra.Command{
		Use:     "create-user [email]",
		Short:   "Create an account with any role.",
		Long:    "Create an account directly in the configured store. Unlike self-registration, any role may be assigned.",
		Example: "hrms create-user ana@example.com --name Ana --role hr --password 's3cret!'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, log, err := setup(ctx)
			if err != nil {
				return err
			}
			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			user, err := a.Users().CreateUser(ctx, args[0], pass, name, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", user.Email, user.Role, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(domain.DefaultRole), "one of: admin hr manager employee")
	cmd.Flags().StringVar(&pass, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
