package signals

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/fetch"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

const (
	defaultHNBaseURL = "https://hn.algolia.com/api/v1"

	// maxSampleComments caps the comment texts sampled for summarization.
	maxSampleComments = 10

	// Controversy heuristic: a discussion much deeper than its upvotes.
	controversialMinComments = 20
	controversialMinRatio    = 1.0

	hnHitsPerPage = 50
)

// HNCollector gathers Hacker News discussion evidence via the Algolia API.
type HNCollector struct {
	client     *http.Client
	pacer      *fetch.Pacer
	baseURL    string
	windowDays int

	// now is overridable for deterministic windows in tests.
	now func() time.Time
}

// NewHNCollector builds an HN collector. Zero windowDays means 7.
func NewHNCollector(client *http.Client, pacer *fetch.Pacer, windowDays int) *HNCollector {
	if client == nil {
		client = &http.Client{Timeout: fetch.DefaultTimeout}
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &HNCollector{
		client:     client,
		pacer:      pacer,
		baseURL:    defaultHNBaseURL,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// hnSearchResponse is the Algolia search envelope.
type hnSearchResponse struct {
	Hits []hnHit `json:"hits"`
}

type hnHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	StoryText   string `json:"story_text"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAtI  int64  `json:"created_at_i"`
}

// hnItem is one node of the Algolia item tree.
type hnItem struct {
	ID       int64    `json:"id"`
	Type     string   `json:"type"`
	Text     string   `json:"text"`
	Children []hnItem `json:"children"`
}

// Collect searches recent stories mentioning the product by name or domain,
// picks the strongest discussion, and samples its leaf comments. API
// failures come back as Status=error; they never propagate as an error.
func (h *HNCollector) Collect(ctx context.Context, name, website string) types.HNSignal {
	signal := types.HNSignal{Status: types.SignalOK}

	domain := domainOf(website)
	hits, err := h.searchWindow(ctx, name, domain)
	if err != nil {
		signal.Status = types.SignalError
		signal.SkippedReason = err.Error()
		return signal
	}

	matched := filterHits(hits, name, domain)
	signal.StoryCount = len(matched)
	if len(matched) == 0 {
		return signal
	}

	best := bestStory(matched)
	signal.Points = best.Points
	signal.Comments = best.NumComments
	signal.EngagementDepthRatio = depthRatio(best.NumComments, best.Points)
	signal.IsControversial = best.NumComments >= controversialMinComments &&
		signal.EngagementDepthRatio >= controversialMinRatio

	samples, err := h.sampleComments(ctx, best.ObjectID)
	if err != nil {
		// Keep the story stats; only the comment sampling failed.
		signal.SkippedReason = fmt.Sprintf("comment fetch failed: %v", err)
		return signal
	}
	signal.SampleComments = samples
	return signal
}

// searchWindow queries Algolia by product name and, when available, by
// domain, merging the hit sets.
func (h *HNCollector) searchWindow(ctx context.Context, name, domain string) ([]hnHit, error) {
	cutoff := h.now().AddDate(0, 0, -h.windowDays).Unix()

	queries := []string{name}
	if domain != "" && !strings.EqualFold(domain, name) {
		queries = append(queries, domain)
	}

	seen := make(map[string]bool)
	var hits []hnHit
	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		var resp hnSearchResponse
		searchURL := fmt.Sprintf("%s/search_by_date?query=%s&tags=story&hitsPerPage=%d&numericFilters=created_at_i>%d",
			h.baseURL, url.QueryEscape(q), hnHitsPerPage, cutoff)
		if err := fetch.GetJSON(ctx, h.client, h.pacer, searchURL, nil, &resp); err != nil {
			return nil, err
		}
		for _, hit := range resp.Hits {
			if hit.ObjectID == "" || seen[hit.ObjectID] {
				continue
			}
			seen[hit.ObjectID] = true
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

// filterHits keeps stories that genuinely reference the product: name in
// the title or story text, or the story URL on the product's domain.
func filterHits(hits []hnHit, name, domain string) []hnHit {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	var matched []hnHit
	for _, hit := range hits {
		if lowerName != "" {
			if strings.Contains(strings.ToLower(hit.Title), lowerName) ||
				strings.Contains(strings.ToLower(hit.StoryText), lowerName) {
				matched = append(matched, hit)
				continue
			}
		}
		if domain != "" && strings.Contains(strings.ToLower(hit.URL), domain) {
			matched = append(matched, hit)
		}
	}
	return matched
}

// bestStory ranks by comments, then points, then recency.
func bestStory(hits []hnHit) hnHit {
	sorted := make([]hnHit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].NumComments != sorted[j].NumComments {
			return sorted[i].NumComments > sorted[j].NumComments
		}
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].CreatedAtI > sorted[j].CreatedAtI
	})
	return sorted[0]
}

// sampleComments fetches the story's comment tree and returns up to
// maxSampleComments leaf comment texts, HTML stripped.
func (h *HNCollector) sampleComments(ctx context.Context, storyID string) ([]string, error) {
	var item hnItem
	itemURL := fmt.Sprintf("%s/items/%s", h.baseURL, url.PathEscape(storyID))
	if err := fetch.GetJSON(ctx, h.client, h.pacer, itemURL, nil, &item); err != nil {
		return nil, err
	}

	var samples []string
	collectLeafComments(item.Children, &samples)
	return samples, nil
}

// collectLeafComments walks the tree depth-first gathering leaf comments
// until the sample cap is reached. Leaves end threads, so they tend to hold
// settled opinions rather than back-and-forth.
func collectLeafComments(items []hnItem, out *[]string) {
	for i := range items {
		if len(*out) >= maxSampleComments {
			return
		}
		node := &items[i]
		if len(node.Children) == 0 {
			text := fetch.StripTags(node.Text)
			if text != "" {
				*out = append(*out, text)
			}
			continue
		}
		collectLeafComments(node.Children, out)
	}
}

func depthRatio(comments, points int) float64 {
	if points < 1 {
		points = 1
	}
	return float64(comments) / float64(points)
}

// domainOf extracts the bare host from a website URL, without www.
func domainOf(website string) string {
	website = strings.TrimSpace(strings.ToLower(website))
	if website == "" {
		return ""
	}
	website = strings.TrimPrefix(website, "https://")
	website = strings.TrimPrefix(website, "http://")
	website = strings.TrimPrefix(website, "www.")
	if i := strings.IndexAny(website, "/?#"); i >= 0 {
		website = website[:i]
	}
	if i := strings.LastIndex(website, ":"); i >= 0 {
		website = website[:i]
	}
	if !strings.Contains(website, ".") {
		return ""
	}
	return website
}
