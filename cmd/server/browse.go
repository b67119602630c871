package main

import (
	"context"
	"encoding/json"
	"time"

	"alcyxob/workout-tracker/internal/catalog"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/seed"
	"alcyxob/workout-tracker/internal/service"

	"github.com/spf13/cobra"
)

var (
	browseCatalogFile string
	browseCategory    string
	browseEquipment   string
	browseMuscles     string
	browseText        string
	browsePage        int
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Filter and page through the exercise catalog",
	Long: `Filter the exercise catalog the way the catalog screen does and print the
selected page as JSON. Equipment and muscle groups take comma-separated tags
that must all match. --catalog reads a seed file instead of the store.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseCatalogFile, "catalog", "", "Browse a catalog YAML file instead of the store")
	browseCmd.Flags().StringVar(&browseCategory, "category", "", "Category, e.g. chest")
	browseCmd.Flags().StringVar(&browseEquipment, "equipment", "", "Comma-separated equipment tags")
	browseCmd.Flags().StringVar(&browseMuscles, "muscle-group", "", "Comma-separated muscle group tags")
	browseCmd.Flags().StringVarP(&browseText, "query", "q", "", "Text matched against name or muscle group")
	browseCmd.Flags().IntVar(&browsePage, "page", 1, "1-based page number, clamped into range")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	load, closeFn, err := browseLoader(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	changed := make(chan catalog.View, 1)
	b := catalog.NewBrowser(load,
		catalog.WithPageSize(cfg.Catalog.PageSize),
		catalog.WithDebounce(cfg.Catalog.SearchDebounce),
		catalog.OnChange(func(v catalog.View) {
			select {
			case <-changed:
			default:
			}
			changed <- v
		}),
	)
	defer b.Close()

	if err := b.Refresh(ctx); err != nil {
		return err
	}
	if browseCategory != "" {
		b.SetCategory(domain.Category(browseCategory))
	}
	if browseEquipment != "" {
		b.SetEquipment(catalog.SplitTags(browseEquipment))
	}
	if browseMuscles != "" {
		b.SetMuscleGroups(catalog.SplitTags(browseMuscles))
	}
	if browseText != "" {
		// Drain earlier views so the next one carries the debounced text.
		for len(changed) > 0 {
			<-changed
		}
		b.SetText(browseText)
		select {
		case <-changed:
		case <-time.After(cfg.Catalog.SearchDebounce + time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	b.SetPage(browsePage)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(b.View())
}

func browseLoader(ctx context.Context) (catalog.Loader, func(), error) {
	if browseCatalogFile != "" {
		c, err := seed.LoadFile(browseCatalogFile)
		if err != nil {
			return nil, nil, err
		}
		return func(context.Context) ([]domain.Exercise, error) {
			return c.Exercises, nil
		}, func() {}, nil
	}

	store, closeStore, err := openStore(ctx, cfg.Database, false)
	if err != nil {
		return nil, nil, err
	}
	exercises := service.NewExerciseService(store.Exercises, cfg.Catalog.PageSize)
	return exercises.List, closeStore, nil
}
