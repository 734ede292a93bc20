// Package fetch is the HTTP plumbing under the signal collectors and the
// site inspector: plain page fetches, paced JSON requests with rate-limit
// backoff, platform-aware HTML extraction, and a headless-browser fallback
// for script-rendered pages.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the pipeline to the sites it fetches.
const DefaultUserAgent = "Mozilla/5.0 (compatible; WeeklyAI/1.0)"

// baseNoiseSelector strips the chrome every page shares before extraction:
// navigation, scripts, ads, cookie walls.
const baseNoiseSelector = "nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// Result is one fetched page.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error carries the URL a fetch failed on alongside the failure itself.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func fetchErr(urlStr, message string, cause error) *Error {
	return &Error{URL: urlStr, Message: message, Cause: cause}
}

// Options adjust a single fetch. Zero values fall back to the package
// defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// URL fetches a page over plain HTTP. A non-2xx status returns both the
// filled Result and an error, so callers can still inspect the body and
// status code.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	agent := opts.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fetchErr(urlStr, "invalid URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fetchErr(urlStr, "failed to create request", err)
	}
	req.Header.Set("User-Agent", agent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fetchErr(urlStr, "HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fetchErr(urlStr, "failed to read response body", err)
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, fetchErr(urlStr, fmt.Sprintf("HTTP status %d", resp.StatusCode), nil)
	}
	return result, nil
}

// ExtractMainText reduces an HTML page to its main copy. Noise selectors
// are removed first, then the first matching content selector wins; pages
// where nothing matches fall back to the whole body.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(baseNoiseSelector).Remove()
	if extra := strings.Join(noiseSelectors, ", "); extra != "" {
		doc.Find(extra).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if match := doc.Find(selector); match.Length() > 0 {
			content = match.First()
			break
		}
	}
	return cleanWhitespace(content.Text()), nil
}

// StripTags flattens an HTML fragment (such as a Hacker News comment body)
// into plain text.
func StripTags(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanWhitespace(fragment)
	}
	return cleanWhitespace(doc.Text())
}

// ProductPageSelectors returns selectors for product landing pages (hero
// copy, feature sections, about blocks).
func ProductPageSelectors() []string {
	return []string{
		"main",
		"article",
		".hero",
		"#hero",
		".features",
		".about-content",
		".content",
		"#content",
	}
}

// cleanWhitespace trims every line and drops the blank ones.
func cleanWhitespace(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
