package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// openAIMaxTokens bounds completion length; verdict summaries are short.
const openAIMaxTokens = 1024

// OpenAIClient implements Client for OpenAI chat completions.
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient builds an OpenAI-backed client.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

// GenerateContent runs a plain-text completion on the tier's model.
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, prompt, tier, "")
}

// GenerateJSON runs a completion that must return bare JSON. OpenAI has no
// response MIME type knob on plain completions, so the system message demands
// bare JSON and the response is unwrapped from any markdown fences the model
// adds anyway.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, prompt, tier,
		"Respond with valid JSON only. No markdown, no explanation, no code blocks.")
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string, tier ModelTier, system string) (string, error) {
	modelName := c.config.Model(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelName),
		Messages:    messages,
		Temperature: openai.Float(generationTemperature),
		MaxTokens:   openai.Int(openAIMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GetModel reports the model name serving a tier.
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.Model(tier)
}

// Close is a no-op; the OpenAI client holds no connection state.
func (c *OpenAIClient) Close() error {
	return nil
}
