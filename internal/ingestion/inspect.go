package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the page could not be fetched.
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when text extraction fails.
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// previewChars bounds the text preview carried in a SiteReport.
const previewChars = 400

// SiteReport summarizes a fetched product page: which listing platform served
// it, how much text survived extraction, and a short preview. Useful for
// eyeballing a candidate's website before it enters the pipeline.
type SiteReport struct {
	URL         string `json:"url"`
	Platform    string `json:"platform"`
	TextChars   int    `json:"text_chars"`
	UsedBrowser bool   `json:"used_browser,omitempty"`
	Hash        string `json:"hash"`
	Preview     string `json:"preview,omitempty"`
}

// InspectSite fetches a candidate's page and reports what the extractor sees.
// With useBrowser set, pages that render too little static HTML fall back to
// a headless browser pass. Verbose logs each stage.
func InspectSite(ctx context.Context, urlStr string, useBrowser, verbose bool) (*SiteReport, error) {
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(text))
	}

	usedBrowser := false
	if useBrowser && fetch.NeedsBrowserRender(text) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				len(text), fetch.MinStaticTextChars)
		}
		browserHTML, browserErr := fetch.RenderPage(ctx, urlStr, 0, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else if rendered, renderErr := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...); renderErr == nil {
			text = rendered
			usedBrowser = true
			if verbose {
				log.Printf("[VERBOSE] Browser extracted text: %d chars", len(text))
			}
		}
	}

	return &SiteReport{
		URL:         urlStr,
		Platform:    string(platform),
		TextChars:   len(text),
		UsedBrowser: usedBrowser,
		Hash:        computeHash([]byte(text)),
		Preview:     preview(text),
	}, nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewChars {
		return text
	}
	return string(runes[:previewChars]) + "..."
}
