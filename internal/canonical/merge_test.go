package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

func TestMerge_DedupeByDomain(t *testing.T) {
	candidates := []types.Candidate{
		{
			Name:        "Foo Assistant",
			Website:     "https://www.Foo.ai/app",
			Description: "short",
		},
		{
			Name:        "Foo App",
			Website:     "foo.ai/app/extra",
			Description: "a much longer description that should win the merge",
		},
	}

	result := Merge(candidates)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 1, result.Folded)
	assert.Equal(t, 0, result.Dropped)

	p := result.Products[0]
	assert.Equal(t, "foo.ai/app", p.CanonicalKey)
	assert.Equal(t, "a much longer description that should win the merge", p.Description)
	assert.Equal(t, "Foo Assistant", p.Name)
	assert.Equal(t, "1", p.ID)
}

func TestMerge_NameTierMatch(t *testing.T) {
	candidates := []types.Candidate{
		{Name: "Perplexity", Website: "https://perplexity.ai"},
		{Name: "Perplexity AI"},
	}

	result := Merge(candidates)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "perplexity.ai", result.Products[0].CanonicalKey)
}

func TestMerge_CoreTokenTierMatch(t *testing.T) {
	candidates := []types.Candidate{
		{Name: "Rabbit R1 Device", Website: "https://rabbit.tech"},
		{Name: "Rabbit R1 AI Device Pro"},
	}

	result := Merge(candidates)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 1, result.Folded)
}

func TestMerge_DistinctProductsStaySeparate(t *testing.T) {
	candidates := []types.Candidate{
		{Name: "Perplexity", Website: "https://perplexity.ai"},
		{Name: "Anthropic", Website: "https://anthropic.com"},
		{Name: "Mistral", Website: "https://mistral.ai"},
	}

	result := Merge(candidates)
	require.Len(t, result.Products, 3)
	assert.Equal(t, "1", result.Products[0].ID)
	assert.Equal(t, "2", result.Products[1].ID)
	assert.Equal(t, "3", result.Products[2].ID)
}

func TestMerge_DropsIdentitylessCandidates(t *testing.T) {
	candidates := []types.Candidate{
		{Description: "who am I"},
		{Name: "Runway", Website: "https://runwayml.com"},
		{Source: "hn"},
	}

	result := Merge(candidates)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 2, result.Dropped)
}

func TestMerge_FieldPolicies(t *testing.T) {
	candidates := []types.Candidate{
		{
			Name:           "Groq",
			Website:        "https://groq.com",
			Source:         "hn",
			FundingTotal:   "$300M",
			DarkHorseIndex: 2,
			Rating:         4.1,
			DiscoveredAt:   "2025-08-10",
			WhyMatters:     "fast inference",
		},
		{
			Name:           "Groq Inc",
			Website:        "groq.com",
			Source:         "techcrunch",
			FundingTotal:   "around $640M",
			DarkHorseIndex: 4,
			Rating:         3.9,
			DiscoveredAt:   "2025-08-18",
			WhyMatters:     "fastest LPU inference on the market today",
			WeeklyUsers:    120000,
		},
		{
			Name:         "Groq",
			FundingTotal: "undisclosed",
			DiscoveredAt: "not a date",
		},
	}

	result := Merge(candidates)
	require.Len(t, result.Products, 1)

	p := result.Products[0]
	assert.Equal(t, 4, p.DarkHorseIndex)
	assert.Equal(t, 4.1, p.Rating)
	// Larger parsed funding wins; unparsable never overwrites.
	assert.Equal(t, "around $640M", p.FundingTotal)
	// Later parseable date wins.
	assert.Equal(t, "2025-08-18", p.DiscoveredAt)
	// Longer narrative wins.
	assert.Equal(t, "fastest LPU inference on the market today", p.WhyMatters)
	// First writer wins for source; all sources accumulate.
	assert.Equal(t, "hn", p.Source)
	assert.Equal(t, []string{"hn", "techcrunch"}, p.Sources)
	// Fill-if-empty numerics.
	assert.Equal(t, 120000.0, p.WeeklyUsers)
}

func TestMerge_ExtraFillsMissingKeysOnly(t *testing.T) {
	candidates := []types.Candidate{
		{Name: "LangChain", Website: "https://langchain.com", Extra: map[string]any{"stars": 90000.0}},
		{Name: "LangChain", Extra: map[string]any{"stars": 10.0, "forks": 14000.0}},
	}

	result := Merge(candidates)
	require.Len(t, result.Products, 1)

	p := result.Products[0]
	stars, ok := p.ExtraNumber("stars")
	require.True(t, ok)
	assert.Equal(t, 90000.0, stars)
	forks, ok := p.ExtraNumber("forks")
	require.True(t, ok)
	assert.Equal(t, 14000.0, forks)
}

func TestMerge_Idempotent(t *testing.T) {
	candidates := []types.Candidate{
		{Name: "Foo Assistant", Website: "https://www.foo.ai/app", Description: "short"},
		{Name: "Foo App", Website: "foo.ai/app/extra", Description: "longer description"},
		{Name: "Perplexity", Website: "https://perplexity.ai"},
		{Name: "Perplexity AI"},
		{Name: "Anthropic", Website: "https://anthropic.com"},
	}

	first := Merge(candidates)
	second := Merge(productsToCandidates(first.Products))

	require.Equal(t, len(first.Products), len(second.Products))
	assert.Equal(t, 0, second.Folded)
	for i := range first.Products {
		assert.Equal(t, first.Products[i].CanonicalKey, second.Products[i].CanonicalKey)
		assert.Equal(t, first.Products[i].Name, second.Products[i].Name)
		assert.Equal(t, first.Products[i].ID, second.Products[i].ID)
	}
}

// productsToCandidates rebuilds a candidate list from merged products, as a
// re-ingestion of the pipeline's own output would.
func productsToCandidates(products []*types.Product) []types.Candidate {
	out := make([]types.Candidate, 0, len(products))
	for _, p := range products {
		out = append(out, types.Candidate{
			Name:           p.Name,
			Website:        p.Website,
			Source:         p.Source,
			Categories:     p.Categories,
			Description:    p.Description,
			WhyMatters:     p.WhyMatters,
			LatestNews:     p.LatestNews,
			FundingTotal:   p.FundingTotal,
			DarkHorseIndex: p.DarkHorseIndex,
			Rating:         p.Rating,
			DiscoveredAt:   p.DiscoveredAt,
			Extra:          p.Extra,
		})
	}
	return out
}
