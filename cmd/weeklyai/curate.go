package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/config"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/observability"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/pipeline"
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Run the full curation pipeline end-to-end",
	Long: `Orchestrates the entire curation process: load -> merge -> score -> signals -> demand -> guardrail -> views.

Configuration can be loaded from a YAML file using --config. Environment variables override file values, and command-line flags override both.`,
	RunE: runCurate,
}

var (
	curateConfigPath    string
	curateInput         string
	curateOutDir        string
	curateSignals       bool
	curateGuardrailMode string
	curateDatabaseURL   string
	curateMetricsAddr   string
	curateVerbose       bool
)

func init() {
	curateCmd.Flags().StringVar(&curateConfigPath, "config", "", "Path to config.yaml file (values can be overridden by other flags)")
	curateCmd.Flags().StringVarP(&curateInput, "input", "i", "", "Path to candidate JSON file or directory (required)")
	curateCmd.Flags().StringVarP(&curateOutDir, "out", "o", "out", "Directory for product snapshot and view outputs")
	curateCmd.Flags().BoolVar(&curateSignals, "signals", false, "Collect live demand signals (HN, X, GitHub)")
	curateCmd.Flags().StringVar(&curateGuardrailMode, "guardrail-mode", "", "Guardrail mode: conservative, medium, or aggressive")
	curateCmd.Flags().StringVar(&curateDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	curateCmd.Flags().StringVar(&curateMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run (e.g. :9090)")
	curateCmd.Flags().BoolVarP(&curateVerbose, "verbose", "v", false, "Print detailed summaries for each stage")

	if err := curateCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// 1. Load config file plus environment
	cfg, err := config.Load(curateConfigPath)
	if err != nil {
		return err
	}

	// 2. Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("guardrail-mode") {
		cfg.GuardrailMode = curateGuardrailMode
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = curateDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = curateVerbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Verbose {
		printConfigSummary(cfg)
	}

	// 3. Metrics, optionally scrapeable during long signal runs
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	if curateMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: curateMetricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "Warning: metrics server stopped: %v\n", err)
			}
		}()
		defer func() { _ = server.Shutdown(context.Background()) }()
	}

	// 4. Run the pipeline
	result, err := pipeline.RunPipeline(ctx, pipeline.RunOptions{
		InputPath:      curateInput,
		Config:         cfg,
		CollectSignals: curateSignals,
		Metrics:        metrics,
	})
	if err != nil {
		return err
	}

	// 5. Write the product snapshot and one file per view
	if err := writeJSON(filepath.Join(curateOutDir, "products.json"), result.Products); err != nil {
		return err
	}
	for _, view := range result.Views {
		if err := writeJSON(filepath.Join(curateOutDir, view.Name+".json"), view); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Curated %d products into %d views under %s\n", len(result.Products), len(result.Views), curateOutDir)
	if result.RunID != "" {
		fmt.Fprintf(os.Stdout, "Run recorded as %s\n", result.RunID)
	}
	return nil
}

func printConfigSummary(cfg *config.Config) {
	summary := cfg.LogSummary()
	keys := make([]string, 0, len(summary))
	for key := range summary {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Println("Configuration:")
	for _, key := range keys {
		fmt.Printf("  %s: %s\n", key, summary[key])
	}
}
