package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/ingestion"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Fetch a product page and report its extracted content",
	Long:  "Fetches a URL, detects the hosting platform, extracts the main text with platform-specific selectors, and reports what a scraper would see. Useful for debugging thin candidate records.",
	RunE:  runInspect,
}

var (
	inspectURL        string
	inspectUseBrowser bool
	inspectOutput     string
	inspectVerbose    bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectURL, "url", "u", "", "URL of the product page (required)")
	inspectCmd.Flags().BoolVar(&inspectUseBrowser, "use-browser", false, "Fall back to headless browser rendering for thin pages (requires Chrome)")
	inspectCmd.Flags().StringVarP(&inspectOutput, "out", "o", "", "Path to output report JSON file (default: stdout)")
	inspectCmd.Flags().BoolVarP(&inspectVerbose, "verbose", "v", false, "Print detailed fetch and extraction progress")

	if err := inspectCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	report, err := ingestion.InspectSite(ctx, inspectURL, inspectUseBrowser, inspectVerbose)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", inspectURL, err)
	}

	return writeJSON(inspectOutput, report)
}
