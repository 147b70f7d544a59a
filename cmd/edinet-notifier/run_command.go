package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(boot bootstrapFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one disclosure check and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			res := a.checks.Run(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if !res.OK() {
				return fmt.Errorf("check failed: %w", res.Err)
			}
			return nil
		},
	}
}
