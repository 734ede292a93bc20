package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/config"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/curation"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/pipeline"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/schemas"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Build curated views from a scored product snapshot",
	Long:  "Reads scored products and assembles the named views (trending, weekly_top, dark_horses, rising_stars) with diversification quotas and freshness rules applied.",
	RunE:  runViews,
}

var (
	viewsConfigPath string
	viewsInput      string
	viewsName       string
	viewsOutDir     string
)

func init() {
	viewsCmd.Flags().StringVar(&viewsConfigPath, "config", "", "Path to config.yaml file")
	viewsCmd.Flags().StringVarP(&viewsInput, "input", "i", "", "Path to scored products JSON file (required)")
	viewsCmd.Flags().StringVar(&viewsName, "view", "", "Build only this view (default: all views)")
	viewsCmd.Flags().StringVarP(&viewsOutDir, "out", "o", "out", "Directory for view JSON files")

	if err := viewsCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(viewsCmd)
}

func runViews(_ *cobra.Command, _ []string) error {
	// 1. Load configuration and the scored snapshot
	cfg, err := config.Load(viewsConfigPath)
	if err != nil {
		return err
	}
	products, err := readProducts(viewsInput)
	if err != nil {
		return err
	}

	// 2. Build the requested views
	builder := curation.NewBuilder(pipeline.ViewConfig(cfg))

	var views []*types.ViewOutput
	if viewsName != "" {
		view, err := builder.BuildView(&types.ViewRequest{Name: viewsName}, products)
		if err != nil {
			return fmt.Errorf("failed to build view %s: %w", viewsName, err)
		}
		views = []*types.ViewOutput{view}
	} else {
		views, err = builder.BuildAll(products)
		if err != nil {
			return fmt.Errorf("failed to build views: %w", err)
		}
	}

	// 3. Write one file per view and validate against the shipped schema
	schemaPath := schemas.ResolveSchemaPath(schemas.ViewSchema)
	for _, view := range views {
		path := filepath.Join(viewsOutDir, view.Name+".json")
		if err := writeJSON(path, view); err != nil {
			return err
		}
		if schemaPath != "" {
			if err := schemas.ValidateJSON(schemaPath, path); err != nil {
				// Output validation is a safety check, not a requirement
				_, _ = fmt.Fprintf(os.Stderr, "Warning: Output validation failed for %s: %v\n", view.Name, err)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "Built %d view(s) from %d products under %s\n", len(views), len(products), viewsOutDir)
	return nil
}
