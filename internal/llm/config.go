// Package llm abstracts the hosted language models behind one small client
// interface so the verdict summarizer never cares which provider answers.
package llm

// ModelTier selects how much model a call pays for. The pipeline's LLM work
// is short summarization and classification, which the cheap tier covers;
// the larger tiers allow prompt experiments without code changes.
type ModelTier string

const (
	// TierLite serves short summaries and classification.
	TierLite ModelTier = "lite"
	// TierStandard serves structured extraction over longer inputs.
	TierStandard ModelTier = "standard"
	// TierAdvanced serves multi-step reasoning prompts.
	TierAdvanced ModelTier = "advanced"
)

// Provider names a hosted LLM backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Config maps model tiers to provider-specific model names.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the stock mapping for the default provider, Gemini.
func DefaultConfig() *Config {
	return geminiConfig()
}

// ConfigForProvider returns the stock tier mapping for a provider. Unknown
// provider names fall back to the default.
func ConfigForProvider(provider Provider) *Config {
	if provider == ProviderOpenAI {
		return openAIConfig()
	}
	return geminiConfig()
}

func geminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

func openAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		},
	}
}

// Model resolves the model name serving a tier, stepping down through
// standard and lite when the requested tier has no mapping. Empty means
// nothing is configured at all.
func (c *Config) Model(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}
