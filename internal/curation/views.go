package curation

import (
	"fmt"
	"sort"
	"time"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/selection"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// Config carries the curation knobs supplied by the configuration layer.
type Config struct {
	Limit                  int
	MaxPerCategory         int
	MaxPerSource           int
	MaxPerHardwareCategory int
	HardwareRatio          float64
	FreshDays              int
	StickyDays             int
}

// DefaultConfig returns the stock view configuration.
func DefaultConfig() Config {
	return Config{
		Limit:                  10,
		MaxPerCategory:         3,
		MaxPerSource:           4,
		MaxPerHardwareCategory: 2,
		HardwareRatio:          0.3,
		FreshDays:              DefaultFreshDays,
		StickyDays:             DefaultStickyDays,
	}
}

// Builder assembles named views from a scored product set.
type Builder struct {
	Config Config
	Fresh  *Freshness
	Now    func() time.Time
}

// NewBuilder builds a view builder with the given configuration.
func NewBuilder(cfg Config) *Builder {
	return &Builder{
		Config: cfg,
		Fresh:  NewFreshness(cfg.FreshDays, cfg.StickyDays),
		Now:    time.Now,
	}
}

// BuildView produces one named view. The request may tighten quota fields;
// unset fields fall back to the builder's configuration.
//
// View rankings:
//
//	trending     - hot score descending (recent momentum)
//	weekly_top   - top score descending (the week's strongest overall)
//	dark_horses  - fresh/sticky curation over dark-horse quality
//	rising_stars - treasure score descending (undervalued upside)
func (b *Builder) BuildView(req *types.ViewRequest, products []*types.Product) (*types.ViewOutput, error) {
	if req == nil {
		return nil, fmt.Errorf("build view: nil request")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("build view %q: %w", req.Name, err)
	}

	var ranked []*types.Product
	switch req.Name {
	case types.ViewTrending:
		ranked = sortedByScore(products, func(p *types.Product) int { return p.HotScore })
	case types.ViewWeeklyTop:
		ranked = sortedByScore(products, func(p *types.Product) int { return p.TopScore })
	case types.ViewDarkHorses:
		ranked = b.Fresh.Curate(products)
	case types.ViewRisingStars:
		ranked = sortedByScore(products, func(p *types.Product) int { return p.TreasureScore })
	default:
		return nil, fmt.Errorf("build view: unknown view %q", req.Name)
	}

	quota := selection.FromViewRequest(req, b.defaultQuota())
	return &types.ViewOutput{
		Name:        req.Name,
		GeneratedAt: b.now().UTC().Format(time.RFC3339),
		Products:    selection.Diversify(ranked, quota),
	}, nil
}

// BuildAll produces every defined view with the builder's default quotas.
func (b *Builder) BuildAll(products []*types.Product) ([]*types.ViewOutput, error) {
	views := make([]*types.ViewOutput, 0, len(types.AllViews))
	for _, name := range types.AllViews {
		view, err := b.BuildView(&types.ViewRequest{Name: name}, products)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (b *Builder) defaultQuota() selection.Quota {
	return selection.Quota{
		Limit:                  b.Config.Limit,
		MaxPerCategory:         b.Config.MaxPerCategory,
		MaxPerSource:           b.Config.MaxPerSource,
		MaxPerHardwareCategory: b.Config.MaxPerHardwareCategory,
		HardwareRatio:          b.Config.HardwareRatio,
	}
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// sortedByScore returns a copy sorted by the key descending. The sort is
// stable so equal scores keep their merge order.
func sortedByScore(products []*types.Product, key func(*types.Product) int) []*types.Product {
	ranked := make([]*types.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i]) > key(ranked[j])
	})
	return ranked
}
