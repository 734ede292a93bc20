package signals

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/fetch"
)

const (
	// appJWTLifetime stays under GitHub's 10-minute maximum.
	appJWTLifetime = 9 * time.Minute

	// appJWTBackdate absorbs clock drift between us and GitHub.
	appJWTBackdate = 60 * time.Second

	// tokenRefreshMargin renews installation tokens before they lapse
	// mid-batch.
	tokenRefreshMargin = 2 * time.Minute
)

// AppTokenSource authenticates as a GitHub App installation: it signs a
// short-lived RS256 JWT with the App's private key, exchanges it for an
// installation access token, and caches that token until near expiry.
type AppTokenSource struct {
	appID          string
	installationID string
	key            *rsa.PrivateKey
	client         *http.Client
	baseURL        string

	mu      sync.Mutex
	token   string
	expires time.Time

	now func() time.Time
}

// NewAppTokenSource parses the PEM-encoded App private key and returns a
// ready token source.
func NewAppTokenSource(appID, installationID string, pemKey []byte, client *http.Client) (*AppTokenSource, error) {
	if appID == "" || installationID == "" {
		return nil, fmt.Errorf("github app id and installation id are required")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse github app private key: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: fetch.DefaultTimeout}
	}
	return &AppTokenSource{
		appID:          appID,
		installationID: installationID,
		key:            key,
		client:         client,
		baseURL:        defaultGitHubBaseURL,
		now:            time.Now,
	}, nil
}

// Token returns a valid installation token, minting a new one when the
// cached token is absent or close to expiry.
func (a *AppTokenSource) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && a.now().Before(a.expires.Add(-tokenRefreshMargin)) {
		return a.token, nil
	}

	appJWT, err := a.signAppJWT()
	if err != nil {
		return "", err
	}

	token, expires, err := a.exchangeToken(ctx, appJWT)
	if err != nil {
		return "", err
	}
	a.token = token
	a.expires = expires
	return a.token, nil
}

func (a *AppTokenSource) signAppJWT() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
		Issuer:    a.appID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign app jwt: %w", err)
	}
	return signed, nil
}

type installationTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *AppTokenSource) exchangeToken(ctx context.Context, appJWT string) (string, time.Time, error) {
	url := fmt.Sprintf("%s/app/installations/%s/access_tokens", a.baseURL, a.installationID)

	resp, err := fetch.DoWithBackoff(ctx, a.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+appJWT)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		return req, nil
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("installation token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("installation token request returned %d", resp.StatusCode)
	}

	var body installationTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode installation token: %w", err)
	}
	if body.Token == "" {
		return "", time.Time{}, fmt.Errorf("installation token response missing token")
	}
	return body.Token, body.ExpiresAt, nil
}
