package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/config"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/demand"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/pipeline"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Collect demand signals for a single product",
	Long:  "Queries Hacker News, X, and GitHub for one product, aggregates the results into a demand score and tier, and writes the payload as JSON.",
	RunE:  runSignals,
}

var (
	signalsConfigPath string
	signalsName       string
	signalsWebsite    string
	signalsRepo       string
	signalsOutput     string
	signalsWindowDays int
	signalsVerdict    bool
)

func init() {
	signalsCmd.Flags().StringVar(&signalsConfigPath, "config", "", "Path to config.yaml file")
	signalsCmd.Flags().StringVarP(&signalsName, "name", "n", "", "Product name (required)")
	signalsCmd.Flags().StringVarP(&signalsWebsite, "website", "w", "", "Product website URL")
	signalsCmd.Flags().StringVar(&signalsRepo, "repo", "", "GitHub repository as owner/name")
	signalsCmd.Flags().StringVarP(&signalsOutput, "out", "o", "", "Path to output payload JSON file (default: stdout)")
	signalsCmd.Flags().IntVar(&signalsWindowDays, "window-days", 0, "Lookback window in days (overrides config)")
	signalsCmd.Flags().BoolVar(&signalsVerdict, "verdict", false, "Attach a community verdict to the payload")

	if err := signalsCmd.MarkFlagRequired("name"); err != nil {
		panic(fmt.Sprintf("failed to mark name flag as required: %v", err))
	}

	rootCmd.AddCommand(signalsCmd)
}

func runSignals(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Load(signalsConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("window-days") {
		cfg.SignalWindowDays = signalsWindowDays
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	product := &types.Product{
		Name:       signalsName,
		Website:    signalsWebsite,
		GitHubRepo: signalsRepo,
	}

	collector, err := pipeline.BuildCollector(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build signal collector: %w", err)
	}

	payload := collector.Collect(ctx, product)
	demand.Aggregate(payload)

	if signalsVerdict {
		client := pipeline.BuildLLMClient(ctx, cfg)
		summarizer := demand.NewSummarizer(client, demand.SummarizerOptions{})
		payload.Verdict = summarizer.Summarize(ctx, product.Name, payload)
		if client != nil {
			_ = client.Close()
		}
	}

	return writeJSON(signalsOutput, payload)
}
