package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform_KnownHosts(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.producthunt.com/posts/rabbit-r1", PlatformProductHunt},
		{"https://github.com/langchain-ai/langchain", PlatformGitHub},
		{"https://huggingface.co/spaces/black-forest-labs/flux", PlatformHuggingFace},
		{"https://apps.apple.com/us/app/perplexity/id1668000334", PlatformAppStore},
		{"https://itunes.apple.com/app/id1668000334", PlatformAppStore},
		{"https://play.google.com/store/apps/details?id=ai.perplexity.app", PlatformPlayStore},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := DetectPlatform(tt.url)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDetectPlatform_Unknown(t *testing.T) {
	assert.Equal(t, PlatformUnknown, DetectPlatform("https://perplexity.ai"))
	assert.Equal(t, PlatformUnknown, DetectPlatform("not a url %%%"))
}

func TestPlatformContentSelectors(t *testing.T) {
	assert.Contains(t, PlatformContentSelectors(PlatformGitHub), "article.markdown-body")
	assert.Contains(t, PlatformContentSelectors(PlatformProductHunt), "[data-test='post-description']")
	// Unknown platforms fall back to the generic product selectors.
	assert.Equal(t, ProductPageSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformNoiseSelectors(t *testing.T) {
	github := PlatformNoiseSelectors(PlatformGitHub)
	assert.Contains(t, github, ".Layout-sidebar")
	assert.Contains(t, github, ".cookie-banner")

	generic := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, generic, ".cookie-banner")
	assert.NotContains(t, generic, ".Layout-sidebar")
}
