// Package guardrail reconciles LLM-assigned quality scores against collected
// demand evidence. It nudges a score by at most one step per pass: up when the
// community shows real demand the model underrated, down when a top score has
// no demand backing and no strong supply-side signal to excuse it.
package guardrail

import (
	"fmt"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// Mode selects how eager the guardrail is to intervene.
type Mode string

// Guardrail modes, from least to most interventionist.
const (
	ModeConservative Mode = "conservative"
	ModeMedium       Mode = "medium"
	ModeAggressive   Mode = "aggressive"
)

// Thresholds hold the demand-score cutoffs for one mode. Upgrade fires at or
// above Upgrade; downgrade fires strictly below Downgrade.
type Thresholds struct {
	Upgrade   float64
	Downgrade float64
}

var modeThresholds = map[Mode]Thresholds{
	ModeConservative: {Upgrade: 0.80, Downgrade: 0.15},
	ModeMedium:       {Upgrade: 0.75, Downgrade: 0.20},
	ModeAggressive:   {Upgrade: 0.65, Downgrade: 0.25},
}

// Thresholds returns the cutoffs for the mode, falling back to medium for an
// unrecognized value.
func (m Mode) Thresholds() Thresholds {
	if t, ok := modeThresholds[m]; ok {
		return t
	}
	return modeThresholds[ModeMedium]
}

// ParseMode normalizes a configured mode string, defaulting to medium.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeConservative, ModeMedium, ModeAggressive:
		return Mode(s)
	default:
		return ModeMedium
	}
}

// Decision is the outcome of one guardrail evaluation.
type Decision struct {
	Score  int
	Action types.GuardrailAction
	Reason string
}

// Apply evaluates the guardrail for one LLM score against the demand payload.
//
// The two branches are deliberately asymmetric: an upgrade only needs some
// non-zero community evidence plus a demand score over the threshold, while a
// downgrade additionally requires both the HN and X collectors to have
// completed ok. Missing collector data must never read as "no demand" - a
// score is left alone, with an insufficient-data reason, rather than punished
// for evidence nobody gathered.
func Apply(llmScore int, demand *types.DemandPayload, strongSupply bool, mode Mode) Decision {
	score := clampScore(llmScore)
	if demand == nil {
		return Decision{
			Score:  score,
			Action: types.GuardrailNone,
			Reason: "insufficient_demand_data: no demand payload",
		}
	}
	t := mode.Thresholds()

	if score <= 3 {
		if !demand.HasEvidence() {
			return Decision{
				Score:  score,
				Action: types.GuardrailNone,
				Reason: "insufficient_demand_data: no demand evidence collected",
			}
		}
		if demand.ScoreRaw >= t.Upgrade {
			upgraded := score + 1
			if upgraded > 5 {
				upgraded = 5
			}
			return Decision{
				Score:  upgraded,
				Action: types.GuardrailUpgraded,
				Reason: fmt.Sprintf("demand %.2f >= %.2f with community evidence", demand.ScoreRaw, t.Upgrade),
			}
		}
		return Decision{
			Score:  score,
			Action: types.GuardrailNone,
			Reason: fmt.Sprintf("demand %.2f below upgrade threshold %.2f", demand.ScoreRaw, t.Upgrade),
		}
	}

	if score == 5 {
		if demand.HN.Status != types.SignalOK || demand.X.Status != types.SignalOK {
			return Decision{
				Score:  score,
				Action: types.GuardrailNone,
				Reason: "insufficient_demand_data: collectors did not both complete ok",
			}
		}
		if strongSupply {
			return Decision{
				Score:  score,
				Action: types.GuardrailNone,
				Reason: "strong supply signal overrides weak demand",
			}
		}
		if demand.ScoreRaw < t.Downgrade {
			return Decision{
				Score:  4,
				Action: types.GuardrailDowngraded,
				Reason: fmt.Sprintf("demand %.2f < %.2f with both collectors ok and no strong supply signal", demand.ScoreRaw, t.Downgrade),
			}
		}
		return Decision{
			Score:  score,
			Action: types.GuardrailNone,
			Reason: fmt.Sprintf("demand %.2f meets downgrade threshold %.2f", demand.ScoreRaw, t.Downgrade),
		}
	}

	return Decision{
		Score:  score,
		Action: types.GuardrailNone,
		Reason: "score not in guardrail range",
	}
}

// ApplyToProduct runs the guardrail against a product's dark-horse index and
// writes the decision back onto the product and its demand payload. Products
// without a demand payload or without an LLM assignment are left untouched.
func ApplyToProduct(p *types.Product, mode Mode) Decision {
	if p == nil || p.Demand == nil {
		return Decision{Action: types.GuardrailNone, Reason: "insufficient_demand_data: no demand payload"}
	}

	score := p.DarkHorseIndex
	if score == 0 {
		score = p.LLMScore
	}
	if score == 0 {
		p.Demand.GuardrailApplied = types.GuardrailNone
		p.Demand.GuardrailReason = "no llm score assigned"
		return Decision{Action: types.GuardrailNone, Reason: p.Demand.GuardrailReason}
	}

	decision := Apply(score, p.Demand, StrongSupplySignal(p), mode)
	p.DarkHorseIndex = decision.Score
	p.Demand.GuardrailApplied = decision.Action
	p.Demand.GuardrailReason = decision.Reason
	return decision
}

// ApplyAll runs the guardrail over every product that carries a demand
// payload, returning how many scores moved.
func ApplyAll(products []*types.Product, mode Mode) (upgraded, downgraded int) {
	for _, p := range products {
		switch ApplyToProduct(p, mode).Action {
		case types.GuardrailUpgraded:
			upgraded++
		case types.GuardrailDowngraded:
			downgraded++
		}
	}
	return upgraded, downgraded
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}
