package signals

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/fetch"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// DefaultWorkers bounds concurrent per-product signal collection.
const DefaultWorkers = 4

// Options configures a Collector bundle.
type Options struct {
	// WindowDays is the lookback window for all collectors. Zero means 7.
	WindowDays int
	// Workers bounds concurrent product fetches. Zero means DefaultWorkers.
	Workers int
	// CacheTTL for the per-run signal cache. Zero means DefaultCacheTTL.
	CacheTTL time.Duration
	// PacingDelay is the fixed delay between outbound API calls.
	PacingDelay time.Duration

	// HTTPClient is shared by the HN and GitHub collectors. Nil gets a
	// default client with DefaultTimeout.
	HTTPClient *http.Client

	// GitHubTokens authenticates GitHub calls; nil means unauthenticated.
	GitHubTokens TokenSource

	// SearchAPIKey and SearchCX configure Google Programmable Search for
	// the X collector. Empty disables it (signals report skipped).
	SearchAPIKey string
	SearchCX     string

	// Official X handle mappings, by domain and by product name.
	DomainHandles map[string]string
	NameHandles   map[string]string
}

// Collector bundles the HN, X, and GitHub collectors behind a shared
// per-run cache.
type Collector struct {
	hn     *HNCollector
	x      *XCollector
	github *GitHubCollector
	cache  *Cache

	workers int
	now     func() time.Time
}

// NewCollector wires the three sub-collectors with shared pacing and cache.
func NewCollector(ctx context.Context, opts Options) (*Collector, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: fetch.DefaultTimeout}
	}
	pacer := fetch.NewPacer(opts.PacingDelay)

	x, err := NewXCollector(ctx, opts.SearchAPIKey, opts.SearchCX, opts.DomainHandles, opts.NameHandles)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Collector{
		hn:      NewHNCollector(client, pacer, opts.WindowDays),
		x:       x,
		github:  NewGitHubCollector(client, pacer, opts.WindowDays, opts.GitHubTokens),
		cache:   NewCache(opts.CacheTTL),
		workers: workers,
		now:     time.Now,
	}, nil
}

// Cache exposes the per-run signal cache, mainly for invalidation between
// logical runs that share a Collector.
func (c *Collector) Cache() *Cache {
	return c.cache
}

// Collect gathers all three signals for one product, read-through cached by
// normalized name and domain. Individual collector failures land in the
// signal's status field; Collect itself never fails.
func (c *Collector) Collect(ctx context.Context, p *types.Product) *types.DemandPayload {
	key := CacheKey(p.Name, p.Website)
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}

	payload := &types.DemandPayload{
		CollectedAt: c.now().UTC().Format(time.RFC3339),
	}
	payload.HN = c.hn.Collect(ctx, p.Name, p.Website)
	payload.X = c.x.Collect(ctx, p.Name, p.Website)

	repo, _ := RepoFromProduct(p)
	payload.GitHub = c.github.Collect(ctx, repo)

	c.cache.Put(key, payload)
	return payload
}

// CollectAll fans products out to a bounded worker pool and attaches each
// payload to its product. Products are independent, so the only shared
// state is the cache, which handles its own locking.
func (c *Collector) CollectAll(ctx context.Context, products []*types.Product) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for _, p := range products {
		product := p
		g.Go(func() error {
			product.Demand = c.Collect(gCtx, product)
			return nil
		})
	}

	// Workers never return errors; signal failures are statuses.
	_ = g.Wait()
}
