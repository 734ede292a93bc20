package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/config"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/observability"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/pipeline/steps"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// writeCandidateDir writes a realistic candidate batch to a temp directory:
// two records for the same product, two distinct products, and one record
// with no identity.
func writeCandidateDir(t *testing.T) string {
	t.Helper()

	recent := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	older := time.Now().AddDate(0, 0, -40).Format("2006-01-02")

	candidates := []types.Candidate{
		{
			Name:          "Perplexity",
			Website:       "https://perplexity.ai",
			Source:        "producthunt",
			Categories:    []string{"productivity"},
			Description:   "Answer engine with cited sources.",
			WeeklyUsers:   90000,
			TrendingScore: 88,
			Rating:        4.6,
			LLMScore:      4,
			FoundedYear:   2022,
			FirstSeen:     recent,
		},
		{
			Name:        "perplexity",
			Website:     "https://www.perplexity.ai",
			Source:      "technews",
			LatestNews:  "Raised a new round to expand the answer engine.",
			WeeklyUsers: 120000,
			FirstSeen:   recent,
		},
		{
			Name:        "Hume Voice",
			Website:     "https://hume.ai",
			Source:      "github",
			Categories:  []string{"voice"},
			GitHubRepo:  "humeai/voice",
			LLMScore:    5,
			FoundedYear: 2024,
			FirstSeen:   recent,
		},
		{
			Name:             "Atlas Wearable",
			Website:          "https://atlaswear.com",
			Source:           "kickstarter",
			Categories:       []string{"hardware"},
			IsHardware:       true,
			HardwareCategory: "wearable",
			WeeklyUsers:      4000,
			FirstSeen:        older,
		},
		{
			Source: "rss",
		},
	}

	content, err := json.MarshalIndent(candidates, "", "  ")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "batch.json"), content, 0o644))
	return dir
}

func TestRunPipeline_EndToEnd(t *testing.T) {
	dir := writeCandidateDir(t)

	metrics := observability.NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	var events []ProgressEvent
	opts := RunOptions{
		InputPath: dir,
		Config:    config.Default(),
		Metrics:   metrics,
		OnProgress: func(event ProgressEvent) {
			events = append(events, event)
		},
	}

	result, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 5, result.Candidates)
	assert.Equal(t, 1, result.Dropped)
	assert.Len(t, result.Products, 3)
	assert.Empty(t, result.RunID, "no database configured")

	// Scores are attached in place
	maxHot := 0
	for _, product := range result.Products {
		assert.GreaterOrEqual(t, product.HotScore, 0)
		assert.LessOrEqual(t, product.HotScore, 100)
		if product.HotScore > maxHot {
			maxHot = product.HotScore
		}
	}
	assert.Positive(t, maxHot, "at least one product should score above zero")

	// All four views, in the canonical order
	require.Len(t, result.Views, len(types.AllViews))
	for i, view := range result.Views {
		assert.Equal(t, types.AllViews[i], view.Name)
		assert.NotEmpty(t, view.GeneratedAt)
		assert.LessOrEqual(t, len(view.Products), config.Default().ViewLimit)
	}

	// Signals were not requested, so their steps never report progress
	var seen []string
	for _, event := range events {
		seen = append(seen, event.Step)
		assert.NotEmpty(t, event.Category)
		assert.Empty(t, event.RunID)
	}
	assert.Equal(t, []string{
		steps.LoadCandidates,
		steps.MergeCandidates,
		steps.ScoreProducts,
		steps.BuildViews,
	}, seen)

	assertCounterValue(t, reg, observability.MetricPipelineRunsTotal, map[string]string{"status": observability.StatusSuccess}, 1)
}

func TestRunPipeline_MissingInputFails(t *testing.T) {
	metrics := observability.NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	opts := RunOptions{
		InputPath: filepath.Join(t.TempDir(), "nope"),
		Config:    config.Default(),
		Metrics:   metrics,
	}

	result, err := RunPipeline(context.Background(), opts)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "loading candidates failed")

	assertCounterValue(t, reg, observability.MetricPipelineRunsTotal, map[string]string{"status": observability.StatusFailure}, 1)
}

func TestRunPipeline_NilConfigUsesDefaults(t *testing.T) {
	dir := writeCandidateDir(t)

	result, err := RunPipeline(context.Background(), RunOptions{InputPath: dir})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Views, len(types.AllViews))
}

func TestRunPipeline_GuardrailSkippedWithoutSignals(t *testing.T) {
	dir := writeCandidateDir(t)

	result, err := RunPipeline(context.Background(), RunOptions{
		InputPath: dir,
		Config:    config.Default(),
	})
	require.NoError(t, err)

	assert.Zero(t, result.Upgraded)
	assert.Zero(t, result.Downgraded)
	for _, product := range result.Products {
		assert.Nil(t, product.Demand)
	}
}

// assertCounterValue walks the gathered families for one labeled counter.
func assertCounterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string, want float64) {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := true
			for _, pair := range metric.GetLabel() {
				if expected, ok := labels[pair.GetName()]; ok && expected != pair.GetValue() {
					matched = false
					break
				}
			}
			if !matched {
				continue
			}
			assert.Equal(t, want, metric.GetCounter().GetValue())
			return
		}
	}
	t.Errorf("counter %s with labels %v not found", name, labels)
}
