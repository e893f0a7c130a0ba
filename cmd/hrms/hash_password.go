package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peoplehub/hrms-api/internal/pkg/password"
)

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [plaintext]",
		Short: "Print a bcrypt digest for seeding stores by hand.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args[0]) > password.MaxLength {
				return fmt.Errorf("password must be at most %d bytes", password.MaxLength)
			}
			hash, err := password.NewHasher(cost).Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", password.DefaultCost, "bcrypt cost")
	return cmd
}
