// Package types provides type definitions for structured data used throughout the weeklyai curation pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SignalStatus describes the outcome of one collector for one product.
type SignalStatus string

// Collector outcomes. A skipped or errored collector contributes zero
// evidence but never fails the batch.
const (
	SignalOK      SignalStatus = "ok"
	SignalSkipped SignalStatus = "skipped"
	SignalError   SignalStatus = "error"
)

// DemandTier buckets the aggregate demand score.
type DemandTier string

// Demand tiers, from the aggregate demand score.
const (
	DemandLow    DemandTier = "low"
	DemandMedium DemandTier = "medium"
	DemandHigh   DemandTier = "high"
)

// GuardrailAction records what the guardrail reconciler did to the LLM score.
type GuardrailAction string

// Guardrail outcomes.
const (
	GuardrailNone       GuardrailAction = "none"
	GuardrailUpgraded   GuardrailAction = "upgraded"
	GuardrailDowngraded GuardrailAction = "downgraded"
)

// Sentiment classifies the community verdict.
type Sentiment string

// Verdict sentiments.
const (
	SentimentPositive Sentiment = "positive"
	SentimentMixed    Sentiment = "mixed"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// HNSignal holds Hacker News evidence for a product over the signal window.
type HNSignal struct {
	StoryCount           int          `json:"story_count"`
	Points               int          `json:"points"`
	Comments             int          `json:"comments"`
	EngagementDepthRatio float64      `json:"engagement_depth_ratio"`
	IsControversial      bool         `json:"is_controversial"`
	SampleComments       []string     `json:"sample_comments,omitempty"`
	Status               SignalStatus `json:"status"`
	SkippedReason        string       `json:"skipped_reason,omitempty"`
}

// XSignal holds X (Twitter) mention evidence excluding the official handle.
type XSignal struct {
	OfficialHandle        string       `json:"official_handle,omitempty"`
	NonOfficialMentions7d int          `json:"non_official_mentions_7d"`
	UniqueAuthors7d       int          `json:"unique_authors_7d"`
	SampleStatusURLs      []string     `json:"sample_status_urls,omitempty"`
	Status                SignalStatus `json:"status"`
	SkippedReason         string       `json:"skipped_reason,omitempty"`
}

// GitHubSignal holds repository traction evidence.
type GitHubSignal struct {
	Repo                string       `json:"repo,omitempty"`
	StarsTotal          int          `json:"stars_total"`
	Stars7dDelta        int          `json:"stars_7d_delta"`
	StarsVelocityPerDay float64      `json:"stars_velocity_per_day"`
	IsOpenSource        bool         `json:"is_open_source"`
	Status              SignalStatus `json:"status"`
	SkippedReason       string       `json:"skipped_reason,omitempty"`
}

// CommunityVerdict is a three-sentence summary of community reception.
type CommunityVerdict struct {
	// Summary always contains exactly three sentences; the generator pads
	// or truncates to hold that shape.
	Summary    string    `json:"summary"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	// Source is "llm" when a model produced the summary, "keyword" for the
	// deterministic fallback.
	Source string `json:"source"`
}

// DemandPayload bundles all demand evidence and derived values for a product.
type DemandPayload struct {
	HN     HNSignal     `json:"hn"`
	X      XSignal      `json:"x"`
	GitHub GitHubSignal `json:"github"`

	// ScoreRaw is the aggregate demand score in [0,1].
	ScoreRaw float64    `json:"score_raw"`
	Tier     DemandTier `json:"tier"`

	Verdict *CommunityVerdict `json:"verdict,omitempty"`

	GuardrailApplied GuardrailAction `json:"guardrail_applied,omitempty"`
	GuardrailReason  string          `json:"guardrail_reason,omitempty"`

	CollectedAt string `json:"collected_at,omitempty"`
}

// HasEvidence reports whether any collector produced non-zero evidence.
func (d *DemandPayload) HasEvidence() bool {
	if d == nil {
		return false
	}
	return d.HN.StoryCount > 0 || d.HN.Comments > 0 || d.HN.Points > 0 ||
		d.X.NonOfficialMentions7d > 0 || d.GitHub.Stars7dDelta > 0
}
