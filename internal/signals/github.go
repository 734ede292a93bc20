package signals

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/fetch"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

const (
	defaultGitHubBaseURL = "https://api.github.com"

	// starPageSize and maxStarPages bound the stargazer walk. Three pages
	// of 100 covers any realistic 7-day delta for the products tracked here.
	starPageSize = 100
	maxStarPages = 3
)

// TokenSource yields a GitHub API token. Implementations cover static
// personal tokens and GitHub App installation tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a fixed personal access token.
type StaticToken string

// Token returns the static token.
func (s StaticToken) Token(_ context.Context) (string, error) {
	return string(s), nil
}

// GitHubCollector pulls star totals and recent star velocity for a repo.
type GitHubCollector struct {
	client     *http.Client
	pacer      *fetch.Pacer
	baseURL    string
	windowDays int
	tokens     TokenSource

	now func() time.Time
}

// NewGitHubCollector builds a GitHub collector. tokens may be nil for
// unauthenticated access (60 req/h, fine for small batches).
func NewGitHubCollector(client *http.Client, pacer *fetch.Pacer, windowDays int, tokens TokenSource) *GitHubCollector {
	if client == nil {
		client = &http.Client{Timeout: fetch.DefaultTimeout}
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &GitHubCollector{
		client:     client,
		pacer:      pacer,
		baseURL:    defaultGitHubBaseURL,
		windowDays: windowDays,
		tokens:     tokens,
		now:        time.Now,
	}
}

// RepoFromProduct resolves an "owner/name" slug from a product's explicit
// fields. Repos are never guessed from the product name.
func RepoFromProduct(p *types.Product) (string, bool) {
	if p == nil {
		return "", false
	}
	if repo := normalizeRepoSlug(p.GitHubRepo); repo != "" {
		return repo, true
	}
	for _, key := range []string{"github_repo", "github", "repo"} {
		if raw, ok := p.ExtraString(key); ok {
			if repo := normalizeRepoSlug(raw); repo != "" {
				return repo, true
			}
		}
	}
	if repo := normalizeRepoSlug(p.Website); repo != "" {
		return repo, true
	}
	return "", false
}

// normalizeRepoSlug accepts "owner/name", a github.com URL, or anything
// else (rejected), returning a clean "owner/name" slug.
func normalizeRepoSlug(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if i := strings.Index(strings.ToLower(raw), "github.com/"); i >= 0 {
		raw = raw[i+len("github.com/"):]
	} else if strings.Contains(raw, "://") || strings.Contains(raw, ".") && !strings.Contains(raw, "/") {
		// A non-GitHub URL or a bare domain is not a repo reference.
		return ""
	}
	raw = strings.Trim(raw, "/")
	parts := strings.Split(raw, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	name := strings.TrimSuffix(parts[1], ".git")
	if name == "" {
		return ""
	}
	return parts[0] + "/" + name
}

type repoResponse struct {
	FullName        string `json:"full_name"`
	StargazersCount int    `json:"stargazers_count"`
}

type stargazerEntry struct {
	StarredAt time.Time `json:"starred_at"`
}

// Collect fetches star totals plus the recent-window star delta for the
// repo slug. An empty slug is a skip, not an error: most products simply
// have no public repo.
func (g *GitHubCollector) Collect(ctx context.Context, repo string) types.GitHubSignal {
	if repo == "" {
		return types.GitHubSignal{
			Status:        types.SignalSkipped,
			SkippedReason: "no_repo_configured",
		}
	}

	signal := types.GitHubSignal{Repo: repo, Status: types.SignalOK}

	headers, err := g.headers(ctx, "application/vnd.github+json")
	if err != nil {
		signal.Status = types.SignalError
		signal.SkippedReason = err.Error()
		return signal
	}

	var info repoResponse
	repoURL := fmt.Sprintf("%s/repos/%s", g.baseURL, repo)
	if err := fetch.GetJSON(ctx, g.client, g.pacer, repoURL, headers, &info); err != nil {
		signal.Status = types.SignalError
		signal.SkippedReason = err.Error()
		return signal
	}
	signal.StarsTotal = info.StargazersCount
	signal.IsOpenSource = true

	delta, err := g.recentStarDelta(ctx, repo, info.StargazersCount)
	if err != nil {
		// Star totals still stand; only the delta walk failed.
		signal.SkippedReason = fmt.Sprintf("star delta unavailable: %v", err)
		return signal
	}
	signal.Stars7dDelta = delta
	signal.StarsVelocityPerDay = float64(delta) / float64(g.windowDays)
	return signal
}

// recentStarDelta counts stars gained inside the window by reading the
// stargazer list newest-first: the newest entries live on the LAST page,
// so the walk starts there and moves backward until an entry falls outside
// the window or the page budget runs out.
func (g *GitHubCollector) recentStarDelta(ctx context.Context, repo string, totalStars int) (int, error) {
	if totalStars == 0 {
		return 0, nil
	}

	headers, err := g.headers(ctx, "application/vnd.github.star+json")
	if err != nil {
		return 0, err
	}

	cutoff := g.now().AddDate(0, 0, -g.windowDays)
	lastPage := (totalStars + starPageSize - 1) / starPageSize

	delta := 0
	pagesWalked := 0
	for page := lastPage; page >= 1 && pagesWalked < maxStarPages; page-- {
		pagesWalked++
		var entries []stargazerEntry
		pageURL := fmt.Sprintf("%s/repos/%s/stargazers?per_page=%d&page=%d", g.baseURL, repo, starPageSize, page)
		if err := fetch.GetJSON(ctx, g.client, g.pacer, pageURL, headers, &entries); err != nil {
			return 0, err
		}
		pageHadRecent := false
		for _, entry := range entries {
			if !entry.StarredAt.IsZero() && !entry.StarredAt.Before(cutoff) {
				delta++
				pageHadRecent = true
			}
		}
		// Pages are ordered oldest-first, so a page with no recent stars
		// means every earlier page is older still.
		if !pageHadRecent {
			break
		}
	}
	return delta, nil
}

func (g *GitHubCollector) headers(ctx context.Context, accept string) (map[string]string, error) {
	headers := map[string]string{
		"Accept":               accept,
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if g.tokens != nil {
		token, err := g.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("github auth: %w", err)
		}
		if token != "" {
			headers["Authorization"] = "Bearer " + token
		}
	}
	return headers, nil
}
