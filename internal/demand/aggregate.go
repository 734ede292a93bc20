// Package demand turns collected community signals into a blended demand
// score, a tier, and a short community verdict. Supply-side hype (funding
// announcements, press) says what a company raised; demand evidence says
// whether anyone actually wants the product.
package demand

import (
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// Blend weights. The HN terms dominate because forum discussion is the
// hardest signal to fake; the GitHub term is a separate additive boost.
const (
	weightHNRatio    = 0.35
	weightHNComments = 0.25
	weightXMentions  = 0.25
	weightXAuthors   = 0.15
	weightGitHub     = 0.10
)

// Saturation points: evidence at or beyond these levels reads as max signal.
const (
	hnRatioSaturation        = 1.5
	hnCommentsSaturation     = 200.0
	xMentionsSaturation      = 50.0
	xAuthorsSaturation       = 30.0
	githubVelocitySaturation = 50.0
)

// Tier cutoffs on the aggregate score.
const (
	tierHighCutoff   = 0.70
	tierMediumCutoff = 0.35
)

// AggregateScore blends the collected signals into a [0,1] demand score and
// its tier. Skipped or errored collectors hold zero-valued fields, so they
// naturally contribute nothing.
func AggregateScore(payload *types.DemandPayload) (float64, types.DemandTier) {
	if payload == nil {
		return 0, types.DemandLow
	}

	score := weightHNRatio*saturate(payload.HN.EngagementDepthRatio, hnRatioSaturation) +
		weightHNComments*saturate(float64(payload.HN.Comments), hnCommentsSaturation) +
		weightXMentions*saturate(float64(payload.X.NonOfficialMentions7d), xMentionsSaturation) +
		weightXAuthors*saturate(float64(payload.X.UniqueAuthors7d), xAuthorsSaturation)

	// Star acceleration only counts when the repo lookup actually ran.
	if payload.GitHub.Status == types.SignalOK {
		score += weightGitHub * saturate(payload.GitHub.StarsVelocityPerDay, githubVelocitySaturation)
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score, TierFor(score)
}

// Aggregate computes the demand score and writes it back onto the payload.
func Aggregate(payload *types.DemandPayload) {
	if payload == nil {
		return
	}
	payload.ScoreRaw, payload.Tier = AggregateScore(payload)
}

// AggregateAll scores every product that carries a demand payload.
func AggregateAll(products []*types.Product) {
	for _, p := range products {
		if p != nil && p.Demand != nil {
			Aggregate(p.Demand)
		}
	}
}

// TierFor buckets a demand score.
func TierFor(score float64) types.DemandTier {
	switch {
	case score >= tierHighCutoff:
		return types.DemandHigh
	case score >= tierMediumCutoff:
		return types.DemandMedium
	default:
		return types.DemandLow
	}
}

// saturate maps v linearly onto [0,1], flat above the saturation point.
func saturate(v, saturation float64) float64 {
	if v <= 0 || saturation <= 0 {
		return 0
	}
	r := v / saturation
	if r > 1 {
		return 1
	}
	return r
}
