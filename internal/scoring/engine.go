package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/parsing"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// Criteria tags attached to products when the corresponding sub-score fires.
const (
	CriterionHighMomentum     = "high_momentum"
	CriterionStrongEngagement = "strong_engagement"
	CriterionWellFunded       = "well_funded"
	CriterionFresh            = "fresh"
	CriterionAICore           = "ai_core"
	CriterionPreViral         = "pre_viral"
	CriterionCredible         = "credible"
	CriterionHardware         = "hardware"
)

// wellFundedMillions is the funding level that earns the well_funded tag.
const wellFundedMillions = 50.0

// Scores holds the three composite channel scores for one product, each an
// integer in [0,100].
type Scores struct {
	Hot      int
	Top      int
	Treasure int
	// CriteriaMet lists the criteria tags that fired during scoring.
	CriteriaMet []string
}

// Engine scores products against a weight set and a source-stats pre-pass.
type Engine struct {
	weights     Weights
	currentYear int
	stats       SourceStats

	// Now is overridable for deterministic recency in tests.
	Now func() time.Time
}

// NewEngine builds a scoring engine. currentYear feeds the year-gap recency
// fallback; pass 0 to derive it from the clock.
func NewEngine(weights Weights, currentYear int, stats SourceStats) *Engine {
	e := &Engine{
		weights:     weights,
		currentYear: currentYear,
		stats:       stats,
		Now:         time.Now,
	}
	if e.stats == nil {
		e.stats = make(SourceStats)
	}
	return e
}

// Score computes the hot, top, and treasure scores for one product.
func (e *Engine) Score(p *types.Product) Scores {
	w := e.weights

	volume := e.volumeScore(p)
	engagement := e.engagementScore(p)
	quality := clamp01(p.Rating / 5.0)
	growth := e.growthScore(p)
	momentum := e.momentumScore(p, growth)
	recency := e.recencyScore(p)
	relevance := aiRelevance(relevanceCorpus(p))
	bonus := e.sourceBonus(p, relevance)

	hot := w.Hot.Momentum*momentum +
		w.Hot.Recency*recency +
		w.Hot.Engagement*engagement +
		w.Hot.Quality*quality +
		w.Hot.Volume*volume +
		bonus

	top := w.Top.Volume*volume +
		w.Top.Quality*quality +
		w.Top.Engagement*engagement +
		w.Top.Momentum*momentum +
		w.Top.Recency*recency +
		bonus

	preViral := preViralScore(p)
	credibility := e.credibilityScore(p)
	innovation := 0.7*relevance + 0.3*nicheBonus(p.Categories)
	growthSignal := clamp01(growth * 1.5)

	treasure := w.Treasure.PreViral*preViral +
		w.Treasure.Growth*growthSignal +
		w.Treasure.Recency*recency +
		w.Treasure.Credibility*credibility +
		w.Treasure.Innovation*innovation

	return Scores{
		Hot:      toScale(hot),
		Top:      toScale(top),
		Treasure: toScale(treasure),
		CriteriaMet: criteriaFor(p, momentum, engagement, recency,
			relevance, preViral, credibility),
	}
}

// ScoreAll scores every product in place, setting the composite scores,
// final_score, and accumulated criteria tags.
func (e *Engine) ScoreAll(products []*types.Product) {
	for _, p := range products {
		scores := e.Score(p)
		p.HotScore = scores.Hot
		p.TopScore = scores.Top
		p.TreasureScore = scores.Treasure
		// The top channel is the catalog's final score by convention.
		p.FinalScore = scores.Top
		for _, tag := range scores.CriteriaMet {
			if !containsTag(p.CriteriaMet, tag) {
				p.CriteriaMet = append(p.CriteriaMet, tag)
			}
		}
	}
}

func (e *Engine) volumeScore(p *types.Product) float64 {
	v, ok := volumeMetric(p)
	if !ok {
		return 0
	}
	if maxima := e.stats[normalizeSource(p.Source)]; maxima != nil && maxima.Volume > 0 {
		return RelativeLog(v, maxima.Volume)
	}
	return LogScale(v, e.weights.VolumeLogCap)
}

// engagementScore blends the engagement counters that are actually present,
// renormalizing by the weights of present counters.
func (e *Engine) engagementScore(p *types.Product) float64 {
	maxima := e.stats[normalizeSource(p.Source)]

	type counter struct {
		key       string
		weight    float64
		sourceMax float64
	}
	counters := []counter{
		{"stars", e.weights.Engagement.Stars, maximaField(maxima, "stars")},
		{"forks", e.weights.Engagement.Forks, maximaField(maxima, "forks")},
		{"votes", e.weights.Engagement.Votes, maximaField(maxima, "votes")},
		{"likes", e.weights.Engagement.Likes, maximaField(maxima, "likes")},
	}

	weighted := 0.0
	presentWeight := 0.0
	for _, c := range counters {
		v, ok := p.ExtraNumber(c.key)
		if !ok {
			continue
		}
		presentWeight += c.weight
		if c.sourceMax > 0 {
			weighted += c.weight * RelativeLog(v, c.sourceMax)
		} else {
			weighted += c.weight * LogScale(v, e.weights.VolumeLogCap)
		}
	}
	if presentWeight == 0 {
		return 0
	}
	return clamp01(weighted / presentWeight)
}

// growthScore turns the sum of positive period-over-period metric deltas
// into [0,1] on a log scale.
func (e *Engine) growthScore(p *types.Product) float64 {
	sum := 0.0
	for _, key := range []string{"stars", "votes", "likes", "weekly_users", "downloads"} {
		cur, curOK := currentMetric(p, key)
		prev, prevOK := p.ExtraNumber("prev_" + key)
		if !curOK || !prevOK {
			continue
		}
		if delta := cur - prev; delta > 0 {
			sum += delta
		}
	}
	if sum <= 0 {
		return 0
	}
	return clamp01(math.Log10(1+sum) / e.weights.GrowthLogDivisor)
}

func (e *Engine) momentumScore(p *types.Product, growth float64) float64 {
	trending := clamp01(p.TrendingScore / 100.0)
	return clamp01(e.weights.MomentumTrending*trending + e.weights.MomentumGrowth*growth)
}

// recencyScore buckets the days since the product's most recent activity
// date. Products with no parseable date fall back to a founding-year gap.
func (e *Engine) recencyScore(p *types.Product) float64 {
	latest, ok := parsing.LatestDate(p.NewsUpdatedAt, p.DiscoveredAt, p.FirstSeen, p.PublishedAt)
	if ok {
		days := parsing.DaysBetween(latest, e.Now())
		switch {
		case days <= 7:
			return 1.0
		case days <= 30:
			return 0.85
		case days <= 90:
			return 0.7
		case days <= 180:
			return 0.6
		case days <= 365:
			return 0.5
		default:
			return 0.4
		}
	}

	if p.FoundedYear <= 0 {
		return 0.5
	}
	year := e.currentYear
	if year == 0 {
		year = e.Now().Year()
	}
	switch gap := year - p.FoundedYear; {
	case gap <= 0:
		return 0.8
	case gap == 1:
		return 0.65
	case gap == 2:
		return 0.5
	default:
		return 0.4
	}
}

// sourceBonus sums the per-source bias, hardware bonus, and low-relevance
// penalty, clamped to the configured bonus range.
func (e *Engine) sourceBonus(p *types.Product, relevance float64) float64 {
	bonus := e.weights.SourceBias[normalizeSource(p.Source)]
	if p.IsHardware {
		bonus += e.weights.HardwareBonus
	}
	if relevance < e.weights.LowRelevanceFloor {
		bonus -= e.weights.LowRelevancePenalty
	}
	return clampRange(bonus, e.weights.BonusMin, e.weights.BonusMax)
}

// preViralScore inverts volume: the less usage a product has, the more
// undiscovered upside remains.
func preViralScore(p *types.Product) float64 {
	v, _ := volumeMetric(p)
	switch {
	case v < 1_000:
		return 1.0
	case v < 10_000:
		return 0.8
	case v < 50_000:
		return 0.5
	case v < 100_000:
		return 0.3
	default:
		return 0.1
	}
}

func (e *Engine) credibilityScore(p *types.Product) float64 {
	score := 0.0
	if funding, ok := parsing.FundingMillions(p.FundingTotal); ok && funding > 0 {
		score += 0.4
	}
	if p.DarkHorseIndex >= 3 {
		score += 0.3
	}
	if e.isTrustedSource(p) {
		score += 0.2
	}
	if p.FoundedYear > 0 {
		score += 0.1
	}
	return clamp01(score)
}

func (e *Engine) isTrustedSource(p *types.Product) bool {
	for _, trusted := range e.weights.TrustedSources {
		if normalizeSource(p.Source) == trusted {
			return true
		}
		for _, s := range p.Sources {
			if normalizeSource(s) == trusted {
				return true
			}
		}
	}
	return false
}

func criteriaFor(p *types.Product, momentum, engagement, recency, relevance, preViral, credibility float64) []string {
	var tags []string
	if momentum >= 0.7 {
		tags = append(tags, CriterionHighMomentum)
	}
	if engagement >= 0.6 {
		tags = append(tags, CriterionStrongEngagement)
	}
	if parsing.ParseFunding(p.FundingTotal) >= wellFundedMillions {
		tags = append(tags, CriterionWellFunded)
	}
	if recency >= 0.85 {
		tags = append(tags, CriterionFresh)
	}
	if relevance >= 0.7 {
		tags = append(tags, CriterionAICore)
	}
	if preViral >= 0.8 {
		tags = append(tags, CriterionPreViral)
	}
	if credibility >= 0.6 {
		tags = append(tags, CriterionCredible)
	}
	if p.IsHardware {
		tags = append(tags, CriterionHardware)
	}
	return tags
}

// currentMetric reads the present-period value for a growth-delta key,
// preferring the dedicated struct fields over the extra map.
func currentMetric(p *types.Product, key string) (float64, bool) {
	switch key {
	case "weekly_users":
		if p.WeeklyUsers > 0 {
			return p.WeeklyUsers, true
		}
	case "downloads":
		if p.Downloads > 0 {
			return p.Downloads, true
		}
	}
	return p.ExtraNumber(key)
}

// relevanceCorpus concatenates the text fields scanned for AI keywords.
func relevanceCorpus(p *types.Product) string {
	parts := []string{p.Name, p.Description, p.WhyMatters, p.LatestNews}
	parts = append(parts, p.Categories...)
	return strings.Join(parts, " ")
}

// toScale converts a [0,1] composite into the integer [0,100] scale.
func toScale(v float64) int {
	scaled := int(math.Round(v * 100))
	if scaled < 0 {
		return 0
	}
	if scaled > 100 {
		return 100
	}
	return scaled
}

func maximaField(m *SourceMaxima, key string) float64 {
	if m == nil {
		return 0
	}
	switch key {
	case "stars":
		return m.Stars
	case "forks":
		return m.Forks
	case "votes":
		return m.Votes
	case "likes":
		return m.Likes
	default:
		return 0
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
