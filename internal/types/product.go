// Package types provides type definitions for structured data used throughout the weeklyai curation pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// Product is the canonical catalog entity produced by merging one or more
// candidates that resolve to the same canonical key.
type Product struct {
	// ID is a sequential string ("1", "2", ...) assigned after each merge
	// pass. IDs are positional, not stable across runs.
	ID string `json:"id"`
	// CanonicalKey is the identity key the product was merged under. It is
	// derived once and never changes as fields are folded in.
	CanonicalKey string `json:"canonical_key"`

	Name             string   `json:"name"`
	Website          string   `json:"website,omitempty"`
	Source           string   `json:"source,omitempty"`
	Sources          []string `json:"sources,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	Description      string   `json:"description,omitempty"`
	WhyMatters       string   `json:"why_matters,omitempty"`
	LatestNews       string   `json:"latest_news,omitempty"`
	IsHardware       bool     `json:"is_hardware,omitempty"`
	HardwareCategory string   `json:"hardware_category,omitempty"`

	FundingTotal string `json:"funding_total,omitempty"`
	Valuation    string `json:"valuation,omitempty"`

	WeeklyUsers   float64 `json:"weekly_users,omitempty"`
	Downloads     float64 `json:"downloads,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	TrendingScore float64 `json:"trending_score,omitempty"`

	DarkHorseIndex int    `json:"dark_horse_index,omitempty"`
	LLMScore       int    `json:"llm_score,omitempty"`
	FoundedYear    int    `json:"founded_year,omitempty"`
	GitHubRepo     string `json:"github_repo,omitempty"`

	DiscoveredAt  string `json:"discovered_at,omitempty"`
	FirstSeen     string `json:"first_seen,omitempty"`
	PublishedAt   string `json:"published_at,omitempty"`
	NewsUpdatedAt string `json:"news_updated_at,omitempty"`

	// Composite scores on the 0-100 integer scale. FinalScore mirrors
	// TopScore once scoring has run.
	HotScore      int `json:"hot_score"`
	TopScore      int `json:"top_score"`
	TreasureScore int `json:"treasure_score"`
	FinalScore    int `json:"final_score"`

	// CriteriaMet lists the scoring criteria tags that fired for this
	// product (e.g. "high_momentum", "well_funded").
	CriteriaMet []string `json:"criteria_met,omitempty"`

	// Demand holds collected community-demand signals, when signal
	// collection ran for this product.
	Demand *DemandPayload `json:"demand,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// ExtraNumber reads a numeric value from the Extra map, tolerating the
// float64/int/string variants JSON decoding and upstream sources produce.
// The second return reports whether a usable number was present.
func (p *Product) ExtraNumber(key string) (float64, bool) {
	if p.Extra == nil {
		return 0, false
	}
	return numberFromAny(p.Extra[key])
}

// ExtraString reads a string value from the Extra map.
func (p *Product) ExtraString(key string) (string, bool) {
	if p.Extra == nil {
		return "", false
	}
	s, ok := p.Extra[key].(string)
	return s, ok
}

func numberFromAny(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
