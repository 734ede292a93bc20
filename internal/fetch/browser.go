// Package fetch - browser.go renders JavaScript-heavy product pages through
// headless Chrome when the static HTML comes back as an empty shell.
package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinStaticTextChars is the extracted-text length below which a page is
// assumed to be a client-rendered shell worth a browser pass.
const MinStaticTextChars = 500

// DefaultRenderTimeout bounds one headless render.
const DefaultRenderTimeout = 30 * time.Second

// renderSettleDelay gives client-side frameworks time to paint after load.
const renderSettleDelay = 3 * time.Second

// NeedsBrowserRender reports whether the statically extracted text is too
// thin to describe a product from.
func NeedsBrowserRender(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinStaticTextChars
}

// RenderPage loads the URL in headless Chrome and returns the rendered HTML.
// A zero timeout uses DefaultRenderTimeout. Requires a Chrome or Chromium
// binary on the host.
func RenderPage(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	if verbose {
		log.Printf("[BROWSER] rendering %s", url)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderSettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Best-effort cookie banner dismissal; misses are fine.
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible).Do(ctx)
			return nil
		}),
		chromedp.Sleep(time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[BROWSER] rendered %d bytes", len(html))
	}
	return html, nil
}
