package scoring

import (
	"math"
	"strings"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// LogScale maps a raw count into [0,1] on an absolute log10 scale. cap is
// the exponent that saturates the scale (6.0 ⇒ one million reaches 1.0).
func LogScale(v, cap float64) float64 {
	if v <= 0 || cap <= 0 {
		return 0
	}
	scaled := math.Log10(1+v) / cap
	if scaled > 1 {
		return 1
	}
	return scaled
}

// RelativeLog maps a raw count into [0,1] relative to the largest value
// observed in the same source, so one high-volume source cannot dominate
// every ranking. Falls back to 0 when the source maximum is unusable.
func RelativeLog(v, maxInSource float64) float64 {
	if v <= 0 || maxInSource <= 0 {
		return 0
	}
	denom := math.Log10(1 + maxInSource)
	if denom <= 0 {
		return 0
	}
	scaled := math.Log10(1+v) / denom
	if scaled > 1 {
		return 1
	}
	return scaled
}

// SourceMaxima holds the largest metric values observed for one source.
type SourceMaxima struct {
	Volume float64
	Stars  float64
	Forks  float64
	Votes  float64
	Likes  float64
}

// SourceStats maps a normalized source name to its observed maxima. Built
// once per scoring pass, before any product is scored.
type SourceStats map[string]*SourceMaxima

// BuildSourceStats runs the pre-pass over all products and records each
// source's maxima for relative normalization.
func BuildSourceStats(products []*types.Product) SourceStats {
	stats := make(SourceStats)
	for _, p := range products {
		source := normalizeSource(p.Source)
		maxima := stats[source]
		if maxima == nil {
			maxima = &SourceMaxima{}
			stats[source] = maxima
		}

		if v, ok := volumeMetric(p); ok && v > maxima.Volume {
			maxima.Volume = v
		}
		if v, ok := p.ExtraNumber("stars"); ok && v > maxima.Stars {
			maxima.Stars = v
		}
		if v, ok := p.ExtraNumber("forks"); ok && v > maxima.Forks {
			maxima.Forks = v
		}
		if v, ok := p.ExtraNumber("votes"); ok && v > maxima.Votes {
			maxima.Votes = v
		}
		if v, ok := p.ExtraNumber("likes"); ok && v > maxima.Likes {
			maxima.Likes = v
		}
	}
	return stats
}

// volumeMetric returns the product's usage volume: weekly users when
// reported (sources ship it as weekly_users or plain users), downloads
// otherwise.
func volumeMetric(p *types.Product) (float64, bool) {
	if p.WeeklyUsers > 0 {
		return p.WeeklyUsers, true
	}
	if p.Downloads > 0 {
		return p.Downloads, true
	}
	for _, key := range []string{"weekly_users", "users", "downloads"} {
		if v, ok := p.ExtraNumber(key); ok && v > 0 {
			return v, true
		}
	}
	return 0, false
}

func normalizeSource(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
