package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the documents table and change trigger",
	Long:  `Apply the database schema. Opening the store already migrates; this command does only that and exits.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWithSignals(cmd, func(_ context.Context, a *app) error {
			if a.cfg.Store != config.StorePostgres {
				return fmt.Errorf("migrate needs STORE=postgres, got %q", a.cfg.Store)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
