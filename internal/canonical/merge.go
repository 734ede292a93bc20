package canonical

import (
	"strconv"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/parsing"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// MergeResult is the outcome of one merge pass.
type MergeResult struct {
	Products []*types.Product
	// Dropped counts candidates discarded for having neither name nor website.
	Dropped int
	// Folded counts candidates absorbed into an existing product.
	Folded int
}

// Merge deduplicates candidates into canonical products. Matching runs in
// three tiers per candidate: exact canonical key, exact normalized name,
// then loose core-token name. First match wins; no match creates a new
// product. Output order is first-appearance order, with sequential string
// IDs reassigned at the end.
func Merge(candidates []types.Candidate) *MergeResult {
	result := &MergeResult{}

	byKey := make(map[string]*types.Product)
	byName := make(map[string]*types.Product)
	byCore := make(map[string]*types.Product)

	for i := range candidates {
		cand := &candidates[i]
		if !cand.HasIdentity() {
			result.Dropped++
			continue
		}

		key := deriveKey(cand, i)
		nameKey, hasNameKey := NameKey(cand.Name)
		coreKey, hasCoreKey := CoreTokenKey(cand.Name)

		existing := byKey[key]
		if existing == nil && hasNameKey {
			existing = byName[nameKey]
		}
		if existing == nil && hasCoreKey {
			existing = byCore[coreKey]
		}

		if existing != nil {
			foldInto(existing, cand)
			result.Folded++
		} else {
			existing = newProduct(cand, key)
			result.Products = append(result.Products, existing)
		}

		// Register every identity the candidate carries so later
		// candidates sharing any of them fold into the same product.
		if byKey[key] == nil {
			byKey[key] = existing
		}
		if hasNameKey && byName[nameKey] == nil {
			byName[nameKey] = existing
		}
		if hasCoreKey && byCore[coreKey] == nil {
			byCore[coreKey] = existing
		}
	}

	for i, p := range result.Products {
		p.ID = strconv.Itoa(i + 1)
	}
	return result
}

// deriveKey picks the canonical key for a candidate: website-based when a
// usable domain exists, then name-based, then a positional fallback that
// never matches anything else.
func deriveKey(cand *types.Candidate, position int) string {
	if key, ok := KeyFromWebsite(cand.Website); ok {
		return key
	}
	if key, ok := NameKey(cand.Name); ok {
		return key
	}
	return "anon:" + strconv.Itoa(position)
}

// newProduct starts a canonical product from its first candidate. The
// canonical key is fixed here and never changes as duplicates fold in.
func newProduct(cand *types.Candidate, key string) *types.Product {
	p := &types.Product{
		CanonicalKey:     key,
		Name:             cand.Name,
		Website:          cand.Website,
		Source:           cand.Source,
		Categories:       append([]string(nil), cand.Categories...),
		Description:      cand.Description,
		WhyMatters:       cand.WhyMatters,
		LatestNews:       cand.LatestNews,
		IsHardware:       cand.IsHardware,
		HardwareCategory: cand.HardwareCategory,
		FundingTotal:     cand.FundingTotal,
		Valuation:        cand.Valuation,
		WeeklyUsers:      cand.WeeklyUsers,
		Downloads:        cand.Downloads,
		Rating:           cand.Rating,
		TrendingScore:    cand.TrendingScore,
		DarkHorseIndex:   cand.DarkHorseIndex,
		LLMScore:         cand.LLMScore,
		FoundedYear:      cand.FoundedYear,
		GitHubRepo:       cand.GitHubRepo,
		CriteriaMet:      append([]string(nil), cand.CriteriaMet...),
		DiscoveredAt:     cand.DiscoveredAt,
		FirstSeen:        cand.FirstSeen,
		PublishedAt:      cand.PublishedAt,
		NewsUpdatedAt:    cand.NewsUpdatedAt,
		HotScore:         cand.HotScore,
		FinalScore:       cand.FinalScore,
	}
	if cand.Source != "" {
		p.Sources = []string{cand.Source}
	}
	if len(cand.Extra) > 0 {
		p.Extra = make(map[string]any, len(cand.Extra))
		for k, v := range cand.Extra {
			p.Extra[k] = v
		}
	}
	return p
}

// foldInto merges a duplicate candidate into an existing product using the
// per-field-class policies: max for score-like numerics, larger parsed value
// for funding text, later date for temporal fields, longer string for
// narrative text, first-writer-wins for everything else.
func foldInto(p *types.Product, cand *types.Candidate) {
	// Score-like numerics keep the best value seen.
	if cand.DarkHorseIndex > p.DarkHorseIndex {
		p.DarkHorseIndex = cand.DarkHorseIndex
	}
	if cand.FinalScore > p.FinalScore {
		p.FinalScore = cand.FinalScore
	}
	if cand.HotScore > p.HotScore {
		p.HotScore = cand.HotScore
	}
	if cand.TrendingScore > p.TrendingScore {
		p.TrendingScore = cand.TrendingScore
	}
	if cand.Rating > p.Rating {
		p.Rating = cand.Rating
	}

	p.FundingTotal = betterFunding(p.FundingTotal, cand.FundingTotal)
	p.Valuation = betterFunding(p.Valuation, cand.Valuation)

	p.DiscoveredAt = laterDate(p.DiscoveredAt, cand.DiscoveredAt)
	p.FirstSeen = laterDate(p.FirstSeen, cand.FirstSeen)
	p.PublishedAt = laterDate(p.PublishedAt, cand.PublishedAt)
	p.NewsUpdatedAt = laterDate(p.NewsUpdatedAt, cand.NewsUpdatedAt)

	p.Description = longerText(p.Description, cand.Description)
	p.WhyMatters = longerText(p.WhyMatters, cand.WhyMatters)
	p.LatestNews = longerText(p.LatestNews, cand.LatestNews)

	// Everything else fills only when currently empty.
	if p.Name == "" {
		p.Name = cand.Name
	}
	if p.Website == "" {
		p.Website = cand.Website
	}
	if p.Source == "" {
		p.Source = cand.Source
	}
	if len(p.Categories) == 0 {
		p.Categories = append([]string(nil), cand.Categories...)
	}
	if !p.IsHardware && cand.IsHardware {
		p.IsHardware = true
	}
	if p.HardwareCategory == "" {
		p.HardwareCategory = cand.HardwareCategory
	}
	if p.WeeklyUsers == 0 {
		p.WeeklyUsers = cand.WeeklyUsers
	}
	if p.Downloads == 0 {
		p.Downloads = cand.Downloads
	}
	if p.LLMScore == 0 {
		p.LLMScore = cand.LLMScore
	}
	if p.FoundedYear == 0 {
		p.FoundedYear = cand.FoundedYear
	}
	if p.GitHubRepo == "" {
		p.GitHubRepo = cand.GitHubRepo
	}
	if len(p.CriteriaMet) == 0 {
		p.CriteriaMet = append([]string(nil), cand.CriteriaMet...)
	}

	if cand.Source != "" && !containsString(p.Sources, cand.Source) {
		p.Sources = append(p.Sources, cand.Source)
	}

	for k, v := range cand.Extra {
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		if _, ok := p.Extra[k]; !ok {
			p.Extra[k] = v
		}
	}
}

// betterFunding keeps whichever funding string parses to the larger value.
// An unparsable incoming value never overwrites a parsed one.
func betterFunding(current, incoming string) string {
	if incoming == "" {
		return current
	}
	if current == "" {
		return incoming
	}
	curValue, curOK := parsing.FundingMillions(current)
	incValue, incOK := parsing.FundingMillions(incoming)
	if !incOK {
		return current
	}
	if !curOK {
		return incoming
	}
	if incValue > curValue {
		return incoming
	}
	return current
}

// laterDate keeps the later parseable date string.
func laterDate(current, incoming string) string {
	if incoming == "" {
		return current
	}
	if current == "" {
		return incoming
	}
	curTime, curOK := parsing.ParseFlexibleDate(current)
	incTime, incOK := parsing.ParseFlexibleDate(incoming)
	if !incOK {
		return current
	}
	if !curOK {
		return incoming
	}
	if incTime.After(curTime) {
		return incoming
	}
	return current
}

func longerText(current, incoming string) string {
	if len(incoming) > len(current) {
		return incoming
	}
	return current
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
