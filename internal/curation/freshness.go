// Package curation assembles the named product views: per-view ranking,
// fresh/sticky time-window policy, and quota-bounded diversification.
package curation

import (
	"sort"
	"time"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/parsing"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// Default window sizes, in days.
const (
	DefaultFreshDays  = 5
	DefaultStickyDays = 10
)

// Freshness applies the fresh/sticky window policy to a time-sensitive view.
// Items inside the fresh window are current; the single top-ranked item is
// additionally retained through the longer sticky window.
type Freshness struct {
	FreshDays  int
	StickyDays int

	// Now is overridable for deterministic windows in tests.
	Now func() time.Time
}

// NewFreshness builds a Freshness policy, substituting defaults for
// non-positive day counts.
func NewFreshness(freshDays, stickyDays int) *Freshness {
	if freshDays <= 0 {
		freshDays = DefaultFreshDays
	}
	if stickyDays <= 0 {
		stickyDays = DefaultStickyDays
	}
	return &Freshness{
		FreshDays:  freshDays,
		StickyDays: stickyDays,
		Now:        time.Now,
	}
}

// EffectiveDate is the product's freshness clock: the later of its most
// recent news update and its discovery date. A news update resets the clock
// even when the product was first discovered long ago. The second return is
// false when no date field parses.
func (f *Freshness) EffectiveDate(p *types.Product) (time.Time, bool) {
	discovery, discoveryOK := firstParseableDate(p.DiscoveredAt, p.FirstSeen, p.PublishedAt)
	news, newsOK := parsing.ParseFlexibleDate(p.NewsUpdatedAt)

	switch {
	case discoveryOK && newsOK:
		if news.After(discovery) {
			return news, true
		}
		return discovery, true
	case newsOK:
		return news, true
	case discoveryOK:
		return discovery, true
	default:
		return time.Time{}, false
	}
}

// Curate orders candidates for a time-sensitive view. Products inside the
// fresh window survive, plus the top-ranked product while it is inside the
// sticky window. When nothing survives the windows, the full input is
// returned sorted purely by quality so the view is never empty.
func (f *Freshness) Curate(products []*types.Product) []*types.Product {
	if len(products) == 0 {
		return nil
	}

	now := f.now()
	freshCutoff := now.AddDate(0, 0, -f.FreshDays)
	stickyCutoff := now.AddDate(0, 0, -f.StickyDays)
	sticky := f.stickyCandidate(products)

	kept := make([]*types.Product, 0, len(products))
	for _, p := range products {
		date, ok := f.EffectiveDate(p)
		if ok && !date.Before(freshCutoff) {
			kept = append(kept, p)
			continue
		}
		if p == sticky && ok && !date.Before(stickyCutoff) {
			kept = append(kept, p)
		}
	}

	// Widen rather than return an empty view: all candidates, quality order.
	stale := false
	if len(kept) == 0 {
		kept = append(kept, products...)
		stale = true
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return qualityKeyLess(kept[i], kept[j], stale)
	})
	return kept
}

// stickyCandidate picks the single product eligible for sticky retention:
// the best by (dark-horse index, parsed funding) descending.
func (f *Freshness) stickyCandidate(products []*types.Product) *types.Product {
	var best *types.Product
	bestFunding := 0.0
	for _, p := range products {
		funding := parsing.ParseFunding(p.FundingTotal)
		if best == nil ||
			p.DarkHorseIndex > best.DarkHorseIndex ||
			(p.DarkHorseIndex == best.DarkHorseIndex && funding > bestFunding) {
			best = p
			bestFunding = funding
		}
	}
	return best
}

func (f *Freshness) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// qualityKeyLess orders two products for a curated view: dark-horse index,
// then parsed funding, then parsed valuation, all descending. The staleness
// axis is constant within one Curate result (all current, or all widened),
// so the quality key decides.
func qualityKeyLess(a, b *types.Product, _ bool) bool {
	if a.DarkHorseIndex != b.DarkHorseIndex {
		return a.DarkHorseIndex > b.DarkHorseIndex
	}
	fa, fb := parsing.ParseFunding(a.FundingTotal), parsing.ParseFunding(b.FundingTotal)
	if fa != fb {
		return fa > fb
	}
	va, vb := parsing.ParseFunding(a.Valuation), parsing.ParseFunding(b.Valuation)
	if va != vb {
		return va > vb
	}
	return a.FinalScore > b.FinalScore
}

// firstParseableDate returns the first value that parses as a date.
func firstParseableDate(values ...string) (time.Time, bool) {
	for _, v := range values {
		if t, ok := parsing.ParseFlexibleDate(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
