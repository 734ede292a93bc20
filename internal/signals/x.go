package signals

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/canonical"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

const (
	// xMaxSamples caps the sampled status URLs per product.
	xMaxSamples = 5

	xResultCount = 10
)

// statusURLPattern matches x.com/twitter.com permalink URLs and captures
// the author and status id.
var statusURLPattern = regexp.MustCompile(`(?i)(?:x|twitter)\.com/([A-Za-z0-9_]{1,15})/status/(\d+)`)

// xSearcher abstracts the search backend.
type xSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// googleSearcher runs queries through Google Programmable Search,
// restricted to the last 7 days.
type googleSearcher struct {
	svc *customsearch.Service
	cx  string
}

func (g *googleSearcher) Search(ctx context.Context, query string) ([]string, error) {
	resp, err := g.svc.Cse.List().Cx(g.cx).Q(query).Num(xResultCount).DateRestrict("d7").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	links := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	return links, nil
}

// XCollector counts non-official X (Twitter) chatter about a product.
// It only runs when an official handle is configured for the product;
// guessing handles would poison the exclusion filter and count the
// company's own posts as demand.
type XCollector struct {
	searcher xSearcher

	// Handle mappings, keyed by bare domain and by normalized name.
	domainHandles map[string]string
	nameHandles   map[string]string
}

// NewXCollector builds an X collector backed by Google Programmable Search.
// An empty apiKey or cx yields a collector whose Collect always reports
// skipped, so callers need not special-case missing credentials.
func NewXCollector(ctx context.Context, apiKey, cx string, domainHandles, nameHandles map[string]string) (*XCollector, error) {
	c := &XCollector{
		domainHandles: normalizeDomainHandles(domainHandles),
		nameHandles:   normalizeNameHandles(nameHandles),
	}
	if apiKey == "" || cx == "" {
		return c, nil
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	c.searcher = &googleSearcher{svc: svc, cx: cx}
	return c, nil
}

func normalizeDomainHandles(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for domain, handle := range in {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
		handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
		if domain != "" && handle != "" {
			out[domain] = handle
		}
	}
	return out
}

func normalizeNameHandles(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for name, handle := range in {
		key := canonical.NormalizeName(name)
		handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
		if key != "" && handle != "" {
			out[key] = handle
		}
	}
	return out
}

// OfficialHandle resolves the configured handle for a product: domain
// mapping first, then normalized name. No mapping means no handle —
// handles are never inferred.
func (x *XCollector) OfficialHandle(name, website string) (string, bool) {
	if domain := domainOf(website); domain != "" {
		if handle, ok := x.domainHandles[domain]; ok {
			return handle, true
		}
	}
	if key := canonical.NormalizeName(name); key != "" {
		if handle, ok := x.nameHandles[key]; ok {
			return handle, true
		}
	}
	return "", false
}

// Collect searches for recent mentions of the product outside its official
// handle. Missing handle or credentials produce a skipped signal; search
// failures produce an error signal. Neither aborts the batch.
func (x *XCollector) Collect(ctx context.Context, name, website string) types.XSignal {
	handle, ok := x.OfficialHandle(name, website)
	if !ok {
		return types.XSignal{
			Status:        types.SignalSkipped,
			SkippedReason: "official_handle_missing",
		}
	}

	signal := types.XSignal{OfficialHandle: handle, Status: types.SignalOK}
	if x.searcher == nil {
		signal.Status = types.SignalSkipped
		signal.SkippedReason = "search_api_not_configured"
		return signal
	}

	query := fmt.Sprintf(`"%s" (site:x.com OR site:twitter.com) -from:%s`, name, handle)
	links, err := x.searcher.Search(ctx, query)
	if err != nil {
		signal.Status = types.SignalError
		signal.SkippedReason = err.Error()
		return signal
	}

	countMentions(links, handle, &signal)
	return signal
}

// countMentions dedupes status permalinks, drops the official handle's own
// posts even when the -from: exclusion let them through, and samples up to
// xMaxSamples URLs.
func countMentions(links []string, officialHandle string, signal *types.XSignal) {
	lowerOfficial := strings.ToLower(officialHandle)
	seen := make(map[string]bool)
	authors := make(map[string]bool)

	for _, link := range links {
		m := statusURLPattern.FindStringSubmatch(link)
		if m == nil {
			continue
		}
		author, statusID := m[1], m[2]
		lowerAuthor := strings.ToLower(author)
		if lowerAuthor == lowerOfficial {
			continue
		}
		key := lowerAuthor + "/" + statusID
		if seen[key] {
			continue
		}
		seen[key] = true
		authors[lowerAuthor] = true
		if len(signal.SampleStatusURLs) < xMaxSamples {
			signal.SampleStatusURLs = append(signal.SampleStatusURLs,
				fmt.Sprintf("https://x.com/%s/status/%s", author, statusID))
		}
	}

	signal.NonOfficialMentions7d = len(seen)
	signal.UniqueAuthors7d = len(authors)
}
