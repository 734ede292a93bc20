package guardrail

import (
	"strings"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/parsing"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// strongSupplyFundingMillions is the funding level that counts as a strong
// supply-side signal on its own.
const strongSupplyFundingMillions = 30.0

// supplyKeywords mark top-tier investor or founder pedigree mentions. Any hit
// in the product's narrative text blocks a demand-based downgrade.
var supplyKeywords = []string{
	"sequoia",
	"a16z",
	"andreessen horowitz",
	"benchmark capital",
	"greylock",
	"accel",
	"lightspeed",
	"founders fund",
	"khosla",
	"kleiner perkins",
	"index ventures",
	"general catalyst",
	"ex-openai",
	"former openai",
	"ex-deepmind",
	"former deepmind",
	"ex-google brain",
	"openai alum",
	"deepmind alum",
}

// StrongSupplySignal reports whether the product carries supply-side evidence
// strong enough to protect a top score from a demand downgrade: substantial
// disclosed funding, or a top-tier investor/founder pedigree mention.
func StrongSupplySignal(p *types.Product) bool {
	if p == nil {
		return false
	}
	if funding, ok := parsing.FundingMillions(p.FundingTotal); ok && funding >= strongSupplyFundingMillions {
		return true
	}

	corpus := strings.ToLower(strings.Join([]string{
		p.Description, p.WhyMatters, p.LatestNews, p.FundingTotal,
	}, " "))
	if investors, ok := p.ExtraString("investors"); ok {
		corpus += " " + strings.ToLower(investors)
	}
	for _, kw := range supplyKeywords {
		if strings.Contains(corpus, kw) {
			return true
		}
	}
	return false
}
