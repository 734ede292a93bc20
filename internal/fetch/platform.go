// Package fetch - platform.go provides listing-platform detection and
// platform-specific selectors for product pages.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known product listing platform.
type Platform string

const (
	// PlatformProductHunt is a Product Hunt launch page
	PlatformProductHunt Platform = "producthunt"
	// PlatformGitHub is a GitHub repository page
	PlatformGitHub Platform = "github"
	// PlatformHuggingFace is a Hugging Face model or space page
	PlatformHuggingFace Platform = "huggingface"
	// PlatformAppStore is an Apple App Store listing
	PlatformAppStore Platform = "appstore"
	// PlatformPlayStore is a Google Play listing
	PlatformPlayStore Platform = "playstore"
	// PlatformUnknown is an unrecognized platform (a plain product site)
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the listing platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "producthunt.com") {
		return PlatformProductHunt
	}
	if strings.Contains(host, "github.com") {
		return PlatformGitHub
	}
	if strings.Contains(host, "huggingface.co") {
		return PlatformHuggingFace
	}
	if strings.Contains(host, "apps.apple.com") ||
		strings.Contains(host, "itunes.apple.com") {
		return PlatformAppStore
	}
	if strings.Contains(host, "play.google.com") {
		return PlatformPlayStore
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a
// specific listing platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformProductHunt:
		return []string{
			"[data-test='post-description']",
			".post-description",
			".styles_description",
			"main",
			".content",
		}
	case PlatformGitHub:
		return []string{
			"article.markdown-body", // rendered README
			".markdown-body",
			"[itemprop='about']",
			"main",
		}
	case PlatformHuggingFace:
		return []string{
			".model-card-content",
			".prose",
			"main",
			"article",
		}
	case PlatformAppStore:
		return []string{
			".section__description",
			".we-truncate",
			"main",
		}
	case PlatformPlayStore:
		return []string{
			"[data-g-id='description']",
			".bARER",
			"main",
		}
	default:
		return ProductPageSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific
// listing platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise across listing platforms
	common := []string{
		// Comment and review widgets
		".comments",
		"#comments",
		".reviews",
		".review-list",

		// Related / similar product rails
		".related",
		".similar",
		".recommendations",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGitHub:
		return append(common,
			".file-navigation",
			".repository-lang-stats",
			".Layout-sidebar",
			".js-repo-nav",
		)
	case PlatformProductHunt:
		return append(common,
			"[data-test='launch-cta']",
			".upvote-button",
			".maker-section",
		)
	case PlatformAppStore, PlatformPlayStore:
		return append(common,
			".ratings-histogram",
			".app-privacy",
			".screenshots",
		)
	default:
		return common
	}
}
