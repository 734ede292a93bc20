// Package pipeline provides the high-level orchestration for the weekly
// curation run: loading candidate files, merging duplicates, scoring,
// demand signals, guardrail reconciliation, and curated view assembly.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/canonical"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/config"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/curation"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/db"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/demand"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/guardrail"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/ingestion"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/llm"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/observability"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/pipeline/steps"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/schemas"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/scoring"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/signals"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// totalSteps is the number of numbered stages printed during a run.
const totalSteps = 7

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	InputPath      string
	Config         *config.Config
	CollectSignals bool
	Metrics        *observability.Metrics
	OnProgress     ProgressCallback
}

// RunResult holds the outputs of a finished pipeline run.
type RunResult struct {
	RunID      string
	Candidates int
	Dropped    int
	Upgraded   int
	Downgraded int
	Products   []*types.Product
	Views      []*types.ViewOutput
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID uuid.UUID, step, message string, content any) {
	if opts.OnProgress == nil {
		return
	}
	event := ProgressEvent{
		Step:     step,
		Category: steps.Registry[step].Category,
		Message:  message,
		Content:  content,
	}
	if runID != uuid.Nil {
		event.RunID = runID.String()
	}
	opts.OnProgress(event)
}

// RunPipeline orchestrates the full curation pipeline. Database persistence
// and metrics are both optional; a run without either still produces its full
// result.
func RunPipeline(ctx context.Context, opts RunOptions) (*RunResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	// Initialize observability printer for verbose output
	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else if err := database.EnsureSchema(ctx); err != nil {
			fmt.Printf("Warning: Failed to prepare database schema: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database.Close()
			database = nil
		} else {
			defer database.Close()
			if cfg.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	result := &RunResult{}

	// Step 1: Load candidate files
	fmt.Printf("Step 1/%d: Loading candidates from %s...\n", totalSteps, opts.InputPath)
	stepStart := time.Now()
	loaded, err := ingestion.LoadCandidates(opts.InputPath)
	if err != nil {
		abortRun(ctx, database, runID, opts.Metrics)
		return nil, fmt.Errorf("loading candidates failed: %w", err)
	}
	if loaded.NoIdentity > 0 {
		fmt.Printf("Warning: %d candidate(s) have neither name nor website and will be dropped during merge\n", loaded.NoIdentity)
	}
	result.Candidates = len(loaded.Candidates)
	observeStep(opts.Metrics, observability.StepLoad, stepStart)

	// Create the run record once the input is known to be readable
	if database != nil {
		runID, err = database.CreateRun(ctx, opts.InputPath)
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
			runID = uuid.Nil
		} else {
			result.RunID = runID.String()
			if cfg.Verbose {
				fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
			}
			_ = database.SaveArtifact(ctx, runID, db.StepCandidates, db.CategoryIngestion, loaded.Candidates)
		}
	}
	emitProgress(&opts, runID, steps.LoadCandidates,
		fmt.Sprintf("Loaded %d candidates from %d file(s)", len(loaded.Candidates), len(loaded.Files)), nil)

	// Step 2: Merge duplicates into canonical products
	fmt.Printf("Step 2/%d: Merging duplicate candidates...\n", totalSteps)
	stepStart = time.Now()
	merged := canonical.Merge(loaded.Candidates)
	products := merged.Products
	result.Dropped = merged.Dropped
	if cfg.Verbose {
		printer.PrintMergeSummary(len(loaded.Candidates), len(products), merged.Dropped)
	}
	observeStep(opts.Metrics, observability.StepMerge, stepStart)
	if database != nil && runID != uuid.Nil {
		_ = database.UpdateRunCounts(ctx, runID, len(loaded.Candidates), len(products))
		_ = database.SaveArtifact(ctx, runID, db.StepMergedProducts, db.CategoryCuration, products)
	}
	emitProgress(&opts, runID, steps.MergeCandidates,
		fmt.Sprintf("Merged %d candidates into %d products (%d dropped)", len(loaded.Candidates), len(products), merged.Dropped), nil)

	// Step 3: Score products
	fmt.Printf("Step 3/%d: Scoring products...\n", totalSteps)
	stepStart = time.Now()
	stats := scoring.BuildSourceStats(products)
	engine := scoring.NewEngine(scoring.DefaultWeights(), time.Now().Year(), stats)
	engine.ScoreAll(products)
	if cfg.Verbose {
		printer.PrintScoreSummary(products)
	}
	observeStep(opts.Metrics, observability.StepScore, stepStart)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepScoredProducts, db.CategoryCuration, products)
	}
	emitProgress(&opts, runID, steps.ScoreProducts,
		fmt.Sprintf("Scored %d products", len(products)), nil)

	// Step 4: Collect demand signals (optional)
	signalsRan := false
	if opts.CollectSignals {
		fmt.Printf("Step 4/%d: Collecting demand signals...\n", totalSteps)
		stepStart = time.Now()
		collector, err := BuildCollector(ctx, cfg)
		if err != nil {
			fmt.Printf("Warning: Failed to build signal collector: %v\n", err)
			fmt.Printf("Continuing without demand signals...\n")
		} else {
			collector.CollectAll(ctx, products)
			recordSignalOutcomes(opts.Metrics, products)
			signalsRan = true
			emitProgress(&opts, runID, steps.CollectSignals,
				fmt.Sprintf("Collected demand signals for %d products", len(products)), nil)
		}
		observeStep(opts.Metrics, observability.StepSignals, stepStart)
	} else {
		fmt.Printf("Step 4/%d: Skipping signal collection (not requested)\n", totalSteps)
	}

	// Step 5: Aggregate demand and write community verdicts
	if signalsRan {
		fmt.Printf("Step 5/%d: Aggregating demand and community verdicts...\n", totalSteps)
		stepStart = time.Now()
		demand.AggregateAll(products)

		client := BuildLLMClient(ctx, cfg)
		summarizer := demand.NewSummarizer(client, demand.SummarizerOptions{})
		summarizer.SummarizeAll(ctx, products)
		if client != nil {
			_ = client.Close()
		}

		if cfg.Verbose {
			printer.PrintDemandSummary(products)
		}
		observeStep(opts.Metrics, observability.StepDemand, stepStart)
		if database != nil && runID != uuid.Nil {
			_ = database.SaveArtifact(ctx, runID, db.StepDemandPayloads, db.CategorySignals, demandPayloads(products))
		}
		emitProgress(&opts, runID, steps.AggregateDemand, "Aggregated demand scores and verdicts", nil)
	} else {
		fmt.Printf("Step 5/%d: Skipping demand aggregation (no signals collected)\n", totalSteps)
	}

	// Step 6: Reconcile editorial scores against observed demand
	if signalsRan {
		fmt.Printf("Step 6/%d: Applying demand guardrail (%s)...\n", totalSteps, cfg.GuardrailMode)
		stepStart = time.Now()
		mode := guardrail.ParseMode(cfg.GuardrailMode)
		upgraded, downgraded := guardrail.ApplyAll(products, mode)
		result.Upgraded = upgraded
		result.Downgraded = downgraded
		if opts.Metrics != nil {
			opts.Metrics.AddGuardrailMoves("upgraded", upgraded)
			opts.Metrics.AddGuardrailMoves("downgraded", downgraded)
		}
		if cfg.Verbose {
			printer.PrintGuardrailSummary(upgraded, downgraded, len(products))
		}
		observeStep(opts.Metrics, observability.StepGuardrail, stepStart)
		if database != nil && runID != uuid.Nil {
			_ = database.SaveArtifact(ctx, runID, db.StepGuardrailMoves, db.CategoryCuration,
				map[string]int{"upgraded": upgraded, "downgraded": downgraded})
		}
		emitProgress(&opts, runID, steps.ApplyGuardrail,
			fmt.Sprintf("Guardrail upgraded %d and downgraded %d products", upgraded, downgraded), nil)
	} else {
		fmt.Printf("Step 6/%d: Skipping guardrail (no demand data)\n", totalSteps)
	}

	// Step 7: Build curated views
	fmt.Printf("Step 7/%d: Building curated views...\n", totalSteps)
	stepStart = time.Now()
	builder := curation.NewBuilder(ViewConfig(cfg))
	views, err := builder.BuildAll(products)
	if err != nil {
		abortRun(ctx, database, runID, opts.Metrics)
		return nil, fmt.Errorf("building views failed: %w", err)
	}
	validateViews(views)
	if cfg.Verbose {
		for _, view := range views {
			printer.PrintViewOutput(view)
		}
	}
	observeStep(opts.Metrics, observability.StepViews, stepStart)

	if database != nil && runID != uuid.Nil {
		if err := database.SaveProductSnapshots(ctx, runID, products); err != nil {
			fmt.Printf("Warning: Failed to save product snapshots: %v\n", err)
		}
		for _, view := range views {
			if err := database.SaveViewOutput(ctx, runID, view); err != nil {
				fmt.Printf("Warning: Failed to save view %s: %v\n", view.Name, err)
			}
			_ = database.SaveArtifact(ctx, runID, db.ViewStep(view.Name), db.CategoryViews, view)
		}
		_ = database.CompleteRun(ctx, runID, db.RunStatusCompleted)
	}
	emitProgress(&opts, runID, steps.BuildViews,
		fmt.Sprintf("Built %d curated views", len(views)), views)

	if opts.Metrics != nil {
		opts.Metrics.IncRunsTotal(observability.StatusSuccess)
		opts.Metrics.SetProductsProcessed(len(products))
	}

	fmt.Printf("Done! %d products curated into %d views.\n", len(products), len(views))

	result.Products = products
	result.Views = views
	return result, nil
}

// abortRun records a failed run in metrics and the database before the
// pipeline returns its error.
func abortRun(ctx context.Context, database *db.DB, runID uuid.UUID, metrics *observability.Metrics) {
	if metrics != nil {
		metrics.IncRunsTotal(observability.StatusFailure)
	}
	if database != nil && runID != uuid.Nil {
		_ = database.CompleteRun(ctx, runID, db.RunStatusFailed)
	}
}

func observeStep(metrics *observability.Metrics, step string, start time.Time) {
	if metrics == nil {
		return
	}
	metrics.ObserveStepDuration(step, time.Since(start).Seconds())
}

// BuildCollector assembles the signal collector from run configuration.
// GitHub App credentials win over a static token when both are present.
func BuildCollector(ctx context.Context, cfg *config.Config) (*signals.Collector, error) {
	opts := signals.Options{
		WindowDays:    cfg.SignalWindowDays,
		Workers:       cfg.SignalWorkers,
		CacheTTL:      time.Duration(cfg.SignalCacheTTLMin) * time.Minute,
		PacingDelay:   time.Duration(cfg.SignalPacingMS) * time.Millisecond,
		SearchAPIKey:  cfg.SearchAPIKey,
		SearchCX:      cfg.SearchCX,
		DomainHandles: cfg.DomainHandles,
		NameHandles:   cfg.NameHandles,
	}

	switch {
	case cfg.GitHubAppID != "" && cfg.GitHubInstallID != "" && cfg.GitHubAppKeyFile != "":
		pemKey, err := os.ReadFile(cfg.GitHubAppKeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading GitHub App key failed: %w", err)
		}
		source, err := signals.NewAppTokenSource(cfg.GitHubAppID, cfg.GitHubInstallID, pemKey, nil)
		if err != nil {
			return nil, fmt.Errorf("building GitHub App token source failed: %w", err)
		}
		opts.GitHubTokens = source
	case cfg.GitHubToken != "":
		opts.GitHubTokens = signals.StaticToken(cfg.GitHubToken)
	}

	return signals.NewCollector(ctx, opts)
}

// BuildLLMClient returns a client for the configured provider, or nil when no
// key is set or the client cannot be built. A nil client downgrades verdicts
// to the keyword path.
func BuildLLMClient(ctx context.Context, cfg *config.Config) llm.Client {
	llmCfg := llm.DefaultConfig()
	if cfg.LLMProvider != "" {
		llmCfg = llm.ConfigForProvider(llm.Provider(cfg.LLMProvider))
	}
	apiKey := cfg.GeminiAPIKey
	if llmCfg.Provider == llm.ProviderOpenAI {
		apiKey = cfg.OpenAIAPIKey
	}
	if apiKey == "" {
		return nil
	}
	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		fmt.Printf("Warning: Failed to initialize LLM client: %v\n", err)
		fmt.Printf("Falling back to keyword verdicts...\n")
		return nil
	}
	return client
}

// recordSignalOutcomes bumps the per-collector outcome counters after a
// collection pass.
func recordSignalOutcomes(metrics *observability.Metrics, products []*types.Product) {
	if metrics == nil {
		return
	}
	for _, p := range products {
		if p.Demand == nil {
			continue
		}
		metrics.IncSignalRequests("hn", string(p.Demand.HN.Status))
		metrics.IncSignalRequests("x", string(p.Demand.X.Status))
		metrics.IncSignalRequests("github", string(p.Demand.GitHub.Status))
	}
}

// demandPayloads keys each product's payload by product ID for artifact
// storage.
func demandPayloads(products []*types.Product) map[string]*types.DemandPayload {
	payloads := make(map[string]*types.DemandPayload, len(products))
	for _, p := range products {
		if p.Demand != nil {
			payloads[p.ID] = p.Demand
		}
	}
	return payloads
}

// ViewConfig maps run configuration onto the view builder's knobs.
func ViewConfig(cfg *config.Config) curation.Config {
	return curation.Config{
		Limit:                  cfg.ViewLimit,
		MaxPerCategory:         cfg.MaxPerCategory,
		MaxPerSource:           cfg.MaxPerSource,
		MaxPerHardwareCategory: cfg.MaxPerHardwareCategory,
		HardwareRatio:          cfg.HardwareRatio,
		FreshDays:              cfg.FreshDays,
		StickyDays:             cfg.StickyDays,
	}
}

// validateViews checks each serialized view against the shipped schema.
// Failures are warnings: the views are still returned to the caller.
func validateViews(views []*types.ViewOutput) {
	schemaPath := schemas.ResolveSchemaPath(schemas.ViewSchema)
	if schemaPath == "" {
		fmt.Printf("Warning: view schema not found, skipping output validation\n")
		return
	}
	for _, view := range views {
		doc, err := json.Marshal(view)
		if err != nil {
			fmt.Printf("Warning: Failed to serialize view %s: %v\n", view.Name, err)
			continue
		}
		if err := schemas.ValidateBytes(schemaPath, doc); err != nil {
			fmt.Printf("Warning: View %s failed schema validation: %v\n", view.Name, err)
		}
	}
}
