// Package types provides type definitions for structured data used throughout the weeklyai curation pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// View names served by the curation layer.
const (
	ViewTrending    = "trending"
	ViewWeeklyTop   = "weekly_top"
	ViewDarkHorses  = "dark_horses"
	ViewRisingStars = "rising_stars"
)

// AllViews lists every defined view name in presentation order.
var AllViews = []string{ViewTrending, ViewWeeklyTop, ViewDarkHorses, ViewRisingStars}

// ViewRequest asks the curation layer for one named view over a scored
// product set. Zero quota fields fall back to configured defaults.
type ViewRequest struct {
	Name                   string  `json:"name" validate:"required,oneof=trending weekly_top dark_horses rising_stars"`
	Limit                  int     `json:"limit" validate:"gte=0"`
	MaxPerCategory         int     `json:"max_per_category,omitempty" validate:"gte=0"`
	MaxPerSource           int     `json:"max_per_source,omitempty" validate:"gte=0"`
	MaxPerHardwareCategory int     `json:"max_per_hardware_category,omitempty" validate:"gte=0"`
	HardwareRatio          float64 `json:"hardware_ratio,omitempty" validate:"gte=0,lte=1"`
}

// ViewOutput is one curated view ready for serialization.
type ViewOutput struct {
	Name        string     `json:"name"`
	GeneratedAt string     `json:"generated_at"`
	Products    []*Product `json:"products"`
}

// Validate validates the ViewRequest using the validator.
func (r *ViewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
