package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_IsGemini(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.Model(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.Model(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.Model(TierAdvanced))
}

func TestConfigForProvider(t *testing.T) {
	assert.Equal(t, ProviderGemini, ConfigForProvider(ProviderGemini).Provider)
	assert.Equal(t, ProviderOpenAI, ConfigForProvider(ProviderOpenAI).Provider)

	// Unknown providers fall back to the default.
	assert.Equal(t, ProviderGemini, ConfigForProvider("mystery").Provider)
}

func TestConfigForProvider_OpenAIModels(t *testing.T) {
	config := ConfigForProvider(ProviderOpenAI)

	assert.Equal(t, "gpt-4o-mini", config.Model(TierLite))
	assert.Equal(t, "gpt-4o", config.Model(TierAdvanced))
}

func TestModel_StepsDownThroughTiers(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "only-model"},
	}

	// An unmapped tier steps down to standard, then lite.
	assert.Equal(t, "only-model", config.Model(TierAdvanced))
	assert.Equal(t, "only-model", config.Model("unknown"))
}

func TestModel_EmptyMapping(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.Model(TierLite))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	assert.Error(t, err)
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(ConfigForProvider(ProviderOpenAI), "")
	assert.Error(t, err)
}
