// Package scoring computes the hot/top/treasure composite scores for
// canonical products from volume, engagement, quality, momentum, recency,
// and AI-relevance sub-scores.
package scoring

// WeightsVersion identifies the current default weight set. Bump when any
// default constant changes so persisted runs can be compared.
const WeightsVersion = "2025-08"

// Default composite weights. Each channel's weights sum to 1; the source
// bonus rides on top.
const (
	hotMomentumWeight   = 0.50
	hotRecencyWeight    = 0.20
	hotEngagementWeight = 0.12
	hotQualityWeight    = 0.08
	hotVolumeWeight     = 0.10

	topVolumeWeight     = 0.35
	topQualityWeight    = 0.22
	topEngagementWeight = 0.18
	topMomentumWeight   = 0.15
	topRecencyWeight    = 0.10

	treasurePreViralWeight    = 0.30
	treasureGrowthWeight      = 0.25
	treasureRecencyWeight     = 0.20
	treasureCredibilityWeight = 0.15
	treasureInnovationWeight  = 0.10

	engagementStarsWeight = 0.45
	engagementForksWeight = 0.15
	engagementVotesWeight = 0.25
	engagementLikesWeight = 0.15

	momentumTrendingWeight = 0.65
	momentumGrowthWeight   = 0.35
)

// ChannelWeights are the five sub-score weights for the hot and top channels.
type ChannelWeights struct {
	Momentum   float64 `json:"momentum"`
	Recency    float64 `json:"recency"`
	Engagement float64 `json:"engagement"`
	Quality    float64 `json:"quality"`
	Volume     float64 `json:"volume"`
}

// TreasureWeights are the sub-score weights for the hidden-treasure channel.
type TreasureWeights struct {
	PreViral    float64 `json:"pre_viral"`
	Growth      float64 `json:"growth"`
	Recency     float64 `json:"recency"`
	Credibility float64 `json:"credibility"`
	Innovation  float64 `json:"innovation"`
}

// EngagementWeights blend the four engagement counters. Weights for absent
// counters are excluded and the rest renormalized.
type EngagementWeights struct {
	Stars float64 `json:"stars"`
	Forks float64 `json:"forks"`
	Votes float64 `json:"votes"`
	Likes float64 `json:"likes"`
}

// Weights centralizes every scoring constant so a run can carry an explicit,
// versioned weight set.
type Weights struct {
	Version string `json:"version"`

	Hot      ChannelWeights    `json:"hot"`
	Top      ChannelWeights    `json:"top"`
	Treasure TreasureWeights   `json:"treasure"`

	Engagement EngagementWeights `json:"engagement"`

	MomentumTrending float64 `json:"momentum_trending"`
	MomentumGrowth   float64 `json:"momentum_growth"`
	// GrowthLogDivisor scales log10(1+sum of positive deltas) into [0,1].
	GrowthLogDivisor float64 `json:"growth_log_divisor"`
	// VolumeLogCap is the absolute log-scale cap used when a source has no
	// recorded maxima to normalize against.
	VolumeLogCap float64 `json:"volume_log_cap"`

	HardwareBonus       float64 `json:"hardware_bonus"`
	LowRelevancePenalty float64 `json:"low_relevance_penalty"`
	LowRelevanceFloor   float64 `json:"low_relevance_floor"`
	BonusMin            float64 `json:"bonus_min"`
	BonusMax            float64 `json:"bonus_max"`

	// SourceBias is a small additive per-source adjustment.
	SourceBias map[string]float64 `json:"source_bias"`
	// TrustedSources feed the treasure credibility sub-score.
	TrustedSources []string `json:"trusted_sources"`
}

// DefaultWeights returns the standard weight set.
func DefaultWeights() Weights {
	return Weights{
		Version: WeightsVersion,
		Hot: ChannelWeights{
			Momentum:   hotMomentumWeight,
			Recency:    hotRecencyWeight,
			Engagement: hotEngagementWeight,
			Quality:    hotQualityWeight,
			Volume:     hotVolumeWeight,
		},
		Top: ChannelWeights{
			Momentum:   topMomentumWeight,
			Recency:    topRecencyWeight,
			Engagement: topEngagementWeight,
			Quality:    topQualityWeight,
			Volume:     topVolumeWeight,
		},
		Treasure: TreasureWeights{
			PreViral:    treasurePreViralWeight,
			Growth:      treasureGrowthWeight,
			Recency:     treasureRecencyWeight,
			Credibility: treasureCredibilityWeight,
			Innovation:  treasureInnovationWeight,
		},
		Engagement: EngagementWeights{
			Stars: engagementStarsWeight,
			Forks: engagementForksWeight,
			Votes: engagementVotesWeight,
			Likes: engagementLikesWeight,
		},
		MomentumTrending:    momentumTrendingWeight,
		MomentumGrowth:      momentumGrowthWeight,
		GrowthLogDivisor:    4.0,
		VolumeLogCap:        6.0,
		HardwareBonus:       0.03,
		LowRelevancePenalty: 0.05,
		LowRelevanceFloor:   0.3,
		BonusMin:            -0.05,
		BonusMax:            0.18,
		SourceBias: map[string]float64{
			"ycombinator":     0.10,
			"techcrunch":      0.06,
			"producthunt":     0.05,
			"github_trending": 0.05,
			"huggingface":     0.05,
			"hackernews":      0.04,
			"appstore":        0.02,
			"playstore":       0.02,
		},
		TrustedSources: []string{
			"ycombinator",
			"techcrunch",
			"producthunt",
			"theinformation",
		},
	}
}
