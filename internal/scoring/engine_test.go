package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// fixedNow pins the clock so recency buckets are deterministic.
var fixedNow = time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestEngine(products []*types.Product) *Engine {
	e := NewEngine(DefaultWeights(), 2025, BuildSourceStats(products))
	e.Now = func() time.Time { return fixedNow }
	return e
}

func TestScore_BoundsForAllChannels(t *testing.T) {
	products := []*types.Product{
		{Name: "Nothing Known"},
		{
			Name:          "Everything Maxed LLM Agent",
			Source:        "ycombinator",
			Description:   "generative ai llm agent foundation model multimodal transformer copilot",
			Categories:    []string{"robotics"},
			IsHardware:    true,
			WeeklyUsers:   50_000_000,
			Rating:        5.0,
			TrendingScore: 100,
			FundingTotal:  "$2B",
			NewsUpdatedAt: "2025-08-19",
			DarkHorseIndex: 5,
			FoundedYear:    2024,
			Extra: map[string]any{
				"stars":      250000.0,
				"forks":      40000.0,
				"votes":      9000.0,
				"likes":      120000.0,
				"prev_stars": 100.0,
			},
		},
	}

	engine := newTestEngine(products)
	for _, p := range products {
		scores := engine.Score(p)
		assert.GreaterOrEqual(t, scores.Hot, 0, "%s hot", p.Name)
		assert.LessOrEqual(t, scores.Hot, 100, "%s hot", p.Name)
		assert.GreaterOrEqual(t, scores.Top, 0, "%s top", p.Name)
		assert.LessOrEqual(t, scores.Top, 100, "%s top", p.Name)
		assert.GreaterOrEqual(t, scores.Treasure, 0, "%s treasure", p.Name)
		assert.LessOrEqual(t, scores.Treasure, 100, "%s treasure", p.Name)
	}
}

func TestScore_HotFavorsMomentum(t *testing.T) {
	mover := &types.Product{
		Name:          "Mover",
		TrendingScore: 95,
		NewsUpdatedAt: "2025-08-18",
	}
	sleeper := &types.Product{
		Name:          "Sleeper",
		TrendingScore: 5,
		NewsUpdatedAt: "2025-03-01",
	}

	engine := newTestEngine([]*types.Product{mover, sleeper})
	assert.Greater(t, engine.Score(mover).Hot, engine.Score(sleeper).Hot)
}

func TestScore_TopFavorsVolumeAndQuality(t *testing.T) {
	heavyweight := &types.Product{
		Name:        "Heavyweight",
		Source:      "appstore",
		WeeklyUsers: 2_000_000,
		Rating:      4.8,
	}
	upstart := &types.Product{
		Name:        "Upstart",
		Source:      "appstore",
		WeeklyUsers: 1_500,
		Rating:      3.0,
	}

	engine := newTestEngine([]*types.Product{heavyweight, upstart})
	assert.Greater(t, engine.Score(heavyweight).Top, engine.Score(upstart).Top)
}

func TestScore_TreasureFavorsSmallCredibleProducts(t *testing.T) {
	hidden := &types.Product{
		Name:           "Hidden Gem",
		Source:         "ycombinator",
		WeeklyUsers:    400,
		FundingTotal:   "$35M",
		DarkHorseIndex: 4,
		FoundedYear:    2024,
		Categories:     []string{"robotics"},
		Description:    "llm foundation model for robotics",
		NewsUpdatedAt:  "2025-08-17",
	}
	giant := &types.Product{
		Name:          "Giant",
		Source:        "appstore",
		WeeklyUsers:   80_000_000,
		NewsUpdatedAt: "2025-08-17",
	}

	engine := newTestEngine([]*types.Product{hidden, giant})
	assert.Greater(t, engine.Score(hidden).Treasure, engine.Score(giant).Treasure)
}

func TestScore_RecencyBuckets(t *testing.T) {
	engine := newTestEngine(nil)

	cases := []struct {
		date string
		want float64
	}{
		{"2025-08-15", 1.0},  // 5 days
		{"2025-08-01", 0.85}, // 19 days
		{"2025-06-15", 0.7},  // ~66 days
		{"2025-03-15", 0.6},  // ~158 days
		{"2024-10-01", 0.5},  // ~323 days
		{"2023-01-01", 0.4},  // years ago
	}
	for _, tc := range cases {
		p := &types.Product{DiscoveredAt: tc.date}
		assert.Equal(t, tc.want, engine.recencyScore(p), "date %s", tc.date)
	}
}

func TestScore_RecencyYearGapFallback(t *testing.T) {
	engine := newTestEngine(nil)

	assert.Equal(t, 0.8, engine.recencyScore(&types.Product{FoundedYear: 2025}))
	assert.Equal(t, 0.65, engine.recencyScore(&types.Product{FoundedYear: 2024}))
	assert.Equal(t, 0.5, engine.recencyScore(&types.Product{FoundedYear: 2023}))
	assert.Equal(t, 0.4, engine.recencyScore(&types.Product{FoundedYear: 2020}))
	// No date signal at all is neutral.
	assert.Equal(t, 0.5, engine.recencyScore(&types.Product{}))
}

func TestScore_EngagementRenormalizesPresentWeights(t *testing.T) {
	// Only stars present: a source-max product should reach full engagement.
	p := &types.Product{
		Name:   "Stars Only",
		Source: "github_trending",
		Extra:  map[string]any{"stars": 50000.0},
	}
	engine := newTestEngine([]*types.Product{p})
	assert.InDelta(t, 1.0, engine.engagementScore(p), 0.001)

	// No engagement metrics at all.
	empty := &types.Product{Name: "Empty"}
	assert.Equal(t, 0.0, engine.engagementScore(empty))
}

func TestScore_PreViralBuckets(t *testing.T) {
	cases := []struct {
		users float64
		want  float64
	}{
		{0, 1.0},
		{999, 1.0},
		{5_000, 0.8},
		{30_000, 0.5},
		{90_000, 0.3},
		{500_000, 0.1},
	}
	for _, tc := range cases {
		p := &types.Product{WeeklyUsers: tc.users}
		assert.Equal(t, tc.want, preViralScore(p), "users %v", tc.users)
	}
}

func TestScore_SourceBonusClampedAndPenalized(t *testing.T) {
	engine := newTestEngine(nil)

	// Irrelevant product takes the low-relevance penalty.
	dull := &types.Product{Name: "Spreadsheet Tool", Source: "unknown"}
	assert.InDelta(t, -0.05, engine.sourceBonus(dull, 0.0), 0.001)

	// Relevant hardware from a boosted source stacks bonuses.
	hw := &types.Product{Name: "Robot", Source: "ycombinator", IsHardware: true}
	assert.InDelta(t, 0.13, engine.sourceBonus(hw, 0.9), 0.001)
}

func TestScoreAll_SetsFinalScoreAndCriteria(t *testing.T) {
	products := []*types.Product{
		{
			Name:          "Funded Fresh LLM",
			Description:   "llm foundation model generative ai agent multimodal",
			FundingTotal:  "$120M",
			TrendingScore: 90,
			NewsUpdatedAt: "2025-08-19",
			IsHardware:    true,
		},
	}

	engine := newTestEngine(products)
	engine.ScoreAll(products)

	p := products[0]
	assert.Equal(t, p.TopScore, p.FinalScore)
	assert.Contains(t, p.CriteriaMet, CriterionWellFunded)
	assert.Contains(t, p.CriteriaMet, CriterionFresh)
	assert.Contains(t, p.CriteriaMet, CriterionAICore)
	assert.Contains(t, p.CriteriaMet, CriterionHardware)

	// Scoring twice must not duplicate tags.
	engine.ScoreAll(products)
	seen := map[string]int{}
	for _, tag := range p.CriteriaMet {
		seen[tag]++
		assert.Equal(t, 1, seen[tag], "tag %s duplicated", tag)
	}
}

func TestBuildSourceStats_TracksMaximaPerSource(t *testing.T) {
	products := []*types.Product{
		{Source: "github_trending", Extra: map[string]any{"stars": 1000.0}},
		{Source: "github_trending", Extra: map[string]any{"stars": 90000.0}},
		{Source: "producthunt", WeeklyUsers: 40000, Extra: map[string]any{"votes": 800.0}},
	}

	stats := BuildSourceStats(products)
	require.NotNil(t, stats["github_trending"])
	assert.Equal(t, 90000.0, stats["github_trending"].Stars)
	require.NotNil(t, stats["producthunt"])
	assert.Equal(t, 40000.0, stats["producthunt"].Volume)
	assert.Equal(t, 800.0, stats["producthunt"].Votes)
}

func TestLogScale(t *testing.T) {
	assert.Equal(t, 0.0, LogScale(0, 6))
	assert.Equal(t, 0.0, LogScale(-5, 6))
	assert.InDelta(t, 0.5, LogScale(999, 6), 0.001)
	assert.Equal(t, 1.0, LogScale(10_000_000, 6))
}

func TestRelativeLog(t *testing.T) {
	assert.Equal(t, 0.0, RelativeLog(0, 1000))
	assert.Equal(t, 0.0, RelativeLog(10, 0))
	assert.Equal(t, 1.0, RelativeLog(1000, 1000))
	assert.Greater(t, RelativeLog(500, 1000), 0.8)
}

func TestAIRelevance_WeightsAndCap(t *testing.T) {
	assert.Equal(t, 0.0, aiRelevance("plain spreadsheet software"))
	assert.InDelta(t, 0.4, aiRelevance("an llm for lawyers"), 0.001)
	assert.InDelta(t, 0.15, aiRelevance("chatbot for support"), 0.001)
	assert.InDelta(t, 0.05, aiRelevance("smart scheduling"), 0.001)
	// Many hits cap at 1.0.
	assert.Equal(t, 1.0, aiRelevance("llm gpt ai agent foundation model transformer multimodal generative ai"))
}
