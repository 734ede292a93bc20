package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/canonical"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/ingestion"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge candidate records into canonical products",
	Long:  "Loads candidate JSON files, validates them against the candidates schema, folds duplicates into canonical products, and writes the merged product list.",
	RunE:  runMerge,
}

var (
	mergeInput  string
	mergeOutput string
)

func init() {
	mergeCmd.Flags().StringVarP(&mergeInput, "input", "i", "", "Path to candidate JSON file or directory (required)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "out", "o", "", "Path to output products JSON file (default: stdout)")

	if err := mergeCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(_ *cobra.Command, _ []string) error {
	// 1. Load and validate candidate files
	loaded, err := ingestion.LoadCandidates(mergeInput)
	if err != nil {
		return fmt.Errorf("failed to load candidates: %w", err)
	}
	if loaded.NoIdentity > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d candidate(s) have neither name nor website and will be dropped\n", loaded.NoIdentity)
	}

	// 2. Fold duplicates
	merged := canonical.Merge(loaded.Candidates)

	// 3. Write merged products
	if err := writeJSON(mergeOutput, merged.Products); err != nil {
		return err
	}

	if mergeOutput != "" && mergeOutput != "-" {
		fmt.Fprintf(os.Stdout, "Merged %d candidates into %d products (%d dropped) to %s\n",
			len(loaded.Candidates), len(merged.Products), merged.Dropped, mergeOutput)
	}
	return nil
}
