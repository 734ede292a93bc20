package llm

import "context"

// Client is the provider-neutral surface the pipeline talks to. Both methods
// return the model's text; GenerateJSON additionally recovers the JSON
// payload from whatever fencing or narration the model wrapped around it.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel reports the model name currently serving a tier.
	GetModel(tier ModelTier) string
	Close() error
}

// NewClient builds the client for the configured provider. A nil config gets
// the defaults.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Provider == ProviderOpenAI {
		return NewOpenAIClient(config, apiKey)
	}
	return NewGeminiClient(ctx, config, apiKey)
}
