package main

import (
	"fmt"

	"alcyxob/workout-tracker/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres schema or the MongoDB indexes",
	Long: `Create the tables, constraints and indexes of the configured store.

Both backends enforce one session per user and day and one share per
program and recipient. Running migrate twice is harmless.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.Database.Driver == config.DriverMemory {
		log.Info("The memory driver has nothing to migrate")
		return nil
	}
	_, closeStore, err := openStore(cmd.Context(), cfg.Database, true)
	if err != nil {
		return err
	}
	closeStore()
	fmt.Fprintf(cmd.OutOrStdout(), "%s store is up to date\n", cfg.Database.Driver)
	return nil
}
