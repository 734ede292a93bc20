// Package fetch - retry.go provides request pacing and rate-limit backoff
// for the external signal APIs.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Backoff behavior on HTTP 429: exponential starting at baseBackoff,
// giving up after maxAttempts.
const (
	maxAttempts = 3
	baseBackoff = 1 * time.Second
)

// Pacer enforces a fixed minimum delay between successive outbound calls.
// One pacer guards one upstream API; collectors share it across goroutines.
type Pacer struct {
	mu    sync.Mutex
	last  time.Time
	delay time.Duration
}

// NewPacer returns a pacer with the given inter-request delay. A zero or
// negative delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks until the pacing delay since the previous call has elapsed,
// or the context is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.delay <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.delay)
	if next.Before(now) {
		next = now
	}
	p.last = next
	p.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DoWithBackoff executes an HTTP request, retrying on 429 with exponential
// backoff (1s, 2s, 4s). build must return a fresh request per attempt so
// retries never reuse a consumed body.
func DoWithBackoff(ctx context.Context, client *http.Client, build func() (*http.Request, error)) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var resp *http.Response
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}

		resp, err = client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited; drain and retry unless this was the last attempt.
		if attempt < maxAttempts-1 {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}

	return resp, &Error{
		URL:     requestURL(resp),
		Message: fmt.Sprintf("rate limited after %d attempts", maxAttempts),
	}
}

// GetJSON performs a paced GET and decodes the JSON response into out.
func GetJSON(ctx context.Context, client *http.Client, pacer *Pacer, urlStr string, headers map[string]string, out any) error {
	if err := pacer.Wait(ctx); err != nil {
		return err
	}

	resp, err := DoWithBackoff(ctx, client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", DefaultUserAgent)
		req.Header.Set("Accept", "application/json")
		for key, value := range headers {
			req.Header.Set(key, value)
		}
		return req, nil
	})
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			URL:     urlStr,
			Message: "failed to decode JSON response",
			Cause:   err,
		}
	}
	return nil
}

func requestURL(resp *http.Response) string {
	if resp != nil && resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return ""
}
