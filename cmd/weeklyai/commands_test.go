package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"curate", "merge", "score", "signals", "views", "inspect"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

// writeScoredSnapshot writes a small scored product file for the score and
// views commands.
func writeScoredSnapshot(t *testing.T, scored bool) string {
	t.Helper()

	recent := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	products := []*types.Product{
		{
			ID:           "1",
			CanonicalKey: "perplexity|perplexity.ai",
			Name:         "Perplexity",
			Website:      "https://perplexity.ai",
			Source:       "producthunt",
			Categories:   []string{"productivity"},
			WeeklyUsers:  120000,
			FirstSeen:    recent,
		},
		{
			ID:           "2",
			CanonicalKey: "hume voice|hume.ai",
			Name:         "Hume Voice",
			Website:      "https://hume.ai",
			Source:       "github",
			Categories:   []string{"voice"},
			LLMScore:     5,
			FirstSeen:    recent,
		},
	}
	if scored {
		products[0].HotScore = 88
		products[0].TopScore = 80
		products[0].TreasureScore = 35
		products[0].FinalScore = 80
		products[1].HotScore = 55
		products[1].TopScore = 62
		products[1].TreasureScore = 70
		products[1].FinalScore = 62
	}

	content, err := json.MarshalIndent(products, "", "  ")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestMergeCommand_WritesProducts(t *testing.T) {
	dir := t.TempDir()
	candidates := `[
		{"name": "Perplexity", "website": "https://perplexity.ai", "source": "producthunt", "weekly_users": 90000},
		{"name": "perplexity", "website": "https://www.perplexity.ai", "source": "technews", "weekly_users": 120000},
		{"name": "Hume Voice", "website": "https://hume.ai", "source": "github"}
	]`
	input := filepath.Join(dir, "candidates.json")
	require.NoError(t, os.WriteFile(input, []byte(candidates), 0o644))

	output := filepath.Join(dir, "merged.json")
	mergeInput = input
	mergeOutput = output

	require.NoError(t, runMerge(mergeCmd, nil))

	products, err := readProducts(output)
	require.NoError(t, err)
	require.Len(t, products, 2, "duplicate perplexity records should fold")
	assert.Equal(t, float64(90000), products[0].WeeklyUsers, "first non-zero user count wins the fold")
	assert.ElementsMatch(t, []string{"producthunt", "technews"}, products[0].Sources)
}

func TestMergeCommand_MissingInputFails(t *testing.T) {
	mergeInput = filepath.Join(t.TempDir(), "absent")
	mergeOutput = ""

	err := runMerge(mergeCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load candidates")
}

func TestScoreCommand_AttachesScores(t *testing.T) {
	input := writeScoredSnapshot(t, false)
	output := filepath.Join(t.TempDir(), "scored.json")

	scoreInput = input
	scoreOutput = output
	scoreTop = 0

	require.NoError(t, runScore(scoreCmd, nil))

	scored, err := readProducts(output)
	require.NoError(t, err)
	require.Len(t, scored, 2)

	maxHot := 0
	for _, product := range scored {
		assert.GreaterOrEqual(t, product.HotScore, 0)
		assert.LessOrEqual(t, product.HotScore, 100)
		if product.HotScore > maxHot {
			maxHot = product.HotScore
		}
	}
	assert.Positive(t, maxHot)
}

func TestViewsCommand_WritesAllViews(t *testing.T) {
	input := writeScoredSnapshot(t, true)
	outDir := t.TempDir()

	viewsConfigPath = ""
	viewsInput = input
	viewsName = ""
	viewsOutDir = outDir

	require.NoError(t, runViews(viewsCmd, nil))

	for _, name := range types.AllViews {
		path := filepath.Join(outDir, name+".json")
		content, err := os.ReadFile(path)
		require.NoError(t, err, "view file %s should exist", name)

		var view types.ViewOutput
		require.NoError(t, json.Unmarshal(content, &view))
		assert.Equal(t, name, view.Name)
		assert.NotEmpty(t, view.GeneratedAt)
	}
}

func TestViewsCommand_SingleView(t *testing.T) {
	input := writeScoredSnapshot(t, true)
	outDir := t.TempDir()

	viewsConfigPath = ""
	viewsInput = input
	viewsName = types.ViewTrending
	viewsOutDir = outDir

	require.NoError(t, runViews(viewsCmd, nil))

	_, err := os.Stat(filepath.Join(outDir, "trending.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "weekly_top.json"))
	assert.True(t, os.IsNotExist(err), "only the requested view should be written")
}

func TestViewsCommand_UnknownViewFails(t *testing.T) {
	input := writeScoredSnapshot(t, true)

	viewsConfigPath = ""
	viewsInput = input
	viewsName = "weekly_flop"
	viewsOutDir = t.TempDir()

	err := runViews(viewsCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly_flop")
}
