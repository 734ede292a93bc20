// Package selection picks bounded, balanced product subsets for the curated
// views. Callers sort by their ranking key; this package only enforces the
// quota constraints.
package selection

import (
	"math"
	"strings"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// defaultCategory buckets products with no category under one shared cap.
const defaultCategory = "other"

// Quota configures one diversification pass. Zero caps mean "no cap" for
// that dimension; HardwareRatio 0 disables the hardware/software split.
type Quota struct {
	Limit                  int
	MaxPerCategory         int
	MaxPerSource           int
	MaxPerHardwareCategory int
	// HardwareRatio is the share of the limit reserved for hardware
	// products, in (0,1). The complement is the software budget.
	HardwareRatio float64
}

// FromViewRequest builds a quota from a view request, filling unset fields
// from the defaults.
func FromViewRequest(req *types.ViewRequest, defaults Quota) Quota {
	q := defaults
	if req == nil {
		return q
	}
	if req.Limit > 0 {
		q.Limit = req.Limit
	}
	if req.MaxPerCategory > 0 {
		q.MaxPerCategory = req.MaxPerCategory
	}
	if req.MaxPerSource > 0 {
		q.MaxPerSource = req.MaxPerSource
	}
	if req.MaxPerHardwareCategory > 0 {
		q.MaxPerHardwareCategory = req.MaxPerHardwareCategory
	}
	if req.HardwareRatio > 0 {
		q.HardwareRatio = req.HardwareRatio
	}
	return q
}

// Diversify selects up to q.Limit products from the pre-sorted input,
// keeping any single category, source, or hardware subcategory from
// dominating. The input order is the caller's ranking; selection preserves
// it.
//
// Two passes: a constrained forward pass that skips anything violating a
// cap, then a relaxation pass that refills from the original order ignoring
// all caps. The relaxation guarantees min(limit, len(input)) results even
// under caps too tight to fill the quota - a full list beats a pure one.
func Diversify(products []*types.Product, q Quota) []*types.Product {
	if q.Limit <= 0 || len(products) == 0 {
		return nil
	}

	hwLimit := 0
	swLimit := q.Limit
	if q.HardwareRatio > 0 && q.HardwareRatio < 1 {
		hwLimit = int(math.Floor(float64(q.Limit) * q.HardwareRatio))
		swLimit = q.Limit - hwLimit
	} else if q.HardwareRatio >= 1 {
		hwLimit = q.Limit
		swLimit = 0
	}

	selected := make([]*types.Product, 0, q.Limit)
	taken := make(map[*types.Product]bool, q.Limit)
	perCategory := make(map[string]int)
	perSource := make(map[string]int)
	perHWCategory := make(map[string]int)
	hwCount := 0
	swCount := 0

	for _, p := range products {
		if len(selected) >= q.Limit {
			break
		}

		if p.IsHardware {
			if q.HardwareRatio > 0 && hwCount >= hwLimit {
				continue
			}
			hwCat := normalizeBucket(p.HardwareCategory)
			if q.MaxPerHardwareCategory > 0 && perHWCategory[hwCat] >= q.MaxPerHardwareCategory {
				continue
			}
			if q.MaxPerSource > 0 && perSource[normalizeBucket(p.Source)] >= q.MaxPerSource {
				continue
			}
			perHWCategory[hwCat]++
			hwCount++
		} else {
			if q.HardwareRatio > 0 && swCount >= swLimit {
				continue
			}
			category := primaryCategory(p)
			if q.MaxPerCategory > 0 && perCategory[category] >= q.MaxPerCategory {
				continue
			}
			if q.MaxPerSource > 0 && perSource[normalizeBucket(p.Source)] >= q.MaxPerSource {
				continue
			}
			perCategory[category]++
			swCount++
		}

		perSource[normalizeBucket(p.Source)]++
		selected = append(selected, p)
		taken[p] = true
	}

	// Relaxation: refill from the original order, caps ignored, so tight
	// quotas never shrink the view below min(limit, len(input)).
	if len(selected) < q.Limit {
		for _, p := range products {
			if len(selected) >= q.Limit {
				break
			}
			if taken[p] {
				continue
			}
			selected = append(selected, p)
			taken[p] = true
		}
	}

	return selected
}

// primaryCategory is the first listed category, or the shared default.
func primaryCategory(p *types.Product) string {
	if len(p.Categories) > 0 {
		if c := normalizeBucket(p.Categories[0]); c != "" {
			return c
		}
	}
	return defaultCategory
}

func normalizeBucket(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return defaultCategory
	}
	return s
}
