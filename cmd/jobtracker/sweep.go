package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/listing"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Close every active job whose deadline has passed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWithSignals(cmd, func(ctx context.Context, a *app) error {
			n, err := listing.NewSweeper(a.repo, time.Local, a.log).SweepAll(ctx)
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "closed %d expired job(s)\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
