// Package types provides type definitions for structured data used throughout the weeklyai curation pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Candidate represents a raw product or company record discovered by an
// upstream source, before dedup and merging. All fields are optional; a
// record needs at least a name or a website to survive ingestion.
type Candidate struct {
	Name             string   `json:"name,omitempty"`
	Website          string   `json:"website,omitempty"`
	Source           string   `json:"source,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	Description      string   `json:"description,omitempty"`
	WhyMatters       string   `json:"why_matters,omitempty"`
	LatestNews       string   `json:"latest_news,omitempty"`
	IsHardware       bool     `json:"is_hardware,omitempty"`
	HardwareCategory string   `json:"hardware_category,omitempty"`

	// Funding and valuation are kept as free text ("$1.5B", "Series A, $12M")
	// and parsed defensively at scoring time.
	FundingTotal string `json:"funding_total,omitempty"`
	Valuation    string `json:"valuation,omitempty"`

	WeeklyUsers   float64 `json:"weekly_users,omitempty"`
	Downloads     float64 `json:"downloads,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	TrendingScore float64 `json:"trending_score,omitempty"`

	// Scores a source may already carry from a previous run or an upstream
	// ranker; the merge keeps the best value seen.
	HotScore   int `json:"hot_score,omitempty"`
	FinalScore int `json:"final_score,omitempty"`

	// DarkHorseIndex is an upstream 0-5 obscurity/potential rating.
	DarkHorseIndex int `json:"dark_horse_index,omitempty"`
	// LLMScore is the upstream research model's 1-5 quality score, subject
	// to guardrail reconciliation against demand evidence.
	LLMScore    int      `json:"llm_score,omitempty"`
	FoundedYear int      `json:"founded_year,omitempty"`
	GitHubRepo  string   `json:"github_repo,omitempty"`
	CriteriaMet []string `json:"criteria_met,omitempty"`

	// Temporal fields are free-form date strings (RFC3339 or YYYY-MM-DD)
	// parsed defensively wherever they are consumed.
	DiscoveredAt  string `json:"discovered_at,omitempty"`
	FirstSeen     string `json:"first_seen,omitempty"`
	PublishedAt   string `json:"published_at,omitempty"`
	NewsUpdatedAt string `json:"news_updated_at,omitempty"`

	// Extra carries source-specific payload that has no dedicated field,
	// including engagement counters (stars, forks, votes, likes) and
	// previous-period metric values under "prev_" keys.
	Extra map[string]any `json:"extra,omitempty"`
}

// HasIdentity reports whether the candidate carries enough identity to be
// merged (a non-empty name or website).
func (c *Candidate) HasIdentity() bool {
	return c.Name != "" || c.Website != ""
}
