// Command jobtracker runs the job tracker API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "jobtracker",
	Short:         "Job board API for recruiters and appliers",
	Long:          "jobtracker serves the job board API: recruiters post and manage jobs, appliers browse, save and apply, and both get role dashboards.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON config file applied before the environment")
}

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "jobtracker:", err)
		os.Exit(1)
	}
}
