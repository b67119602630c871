package main

import (
	"fmt"
	"os"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/logging"

	"github.com/spf13/cobra"
)

var (
	configDir string
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Workout tracker API server",
	Long: `Workout tracker API server.

Without a subcommand the HTTP API is served. Settings come from config.yaml
in --config and may be overridden by environment variables such as
DATABASE_DRIVER or JWT_SECRET.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

// @title Workout Tracker API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(browseCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	cfg = c

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	return nil
}
