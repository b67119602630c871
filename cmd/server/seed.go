package main

import (
	"fmt"

	"alcyxob/workout-tracker/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <catalog.yaml>",
	Short: "Upsert an exercise catalog from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	catalog, err := seed.LoadFile(args[0])
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd.Context(), cfg.Database, false)
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := seed.Apply(cmd.Context(), store.Exercises, catalog)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d exercises\n", n)
	return nil
}
