package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// Config holds the OAuth2 client settings for the Google backend.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// TokenFile is where the exchanged token is persisted. Empty means the
	// default path under the user cache directory.
	TokenFile string
}

// GoogleGate implements Gate backed by a token file on disk. The gate moves
// from unauthenticated to authenticated when Exchange persists a token.
type GoogleGate struct {
	conf      *oauth2.Config
	tokenFile string
}

// NewGoogleGate creates a gate for the given OAuth client.
func NewGoogleGate(cfg Config) (*GoogleGate, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("google OAuth client id and secret are required")
	}

	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user cache dir: %w", err)
		}
		tokenFile = filepath.Join(cacheDir, "calmcp", "google.token")
	}

	redirectURL := cfg.RedirectURL
	if redirectURL == "" {
		redirectURL = "urn:ietf:wg:oauth:2.0:oob"
	}

	return &GoogleGate{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendar.CalendarScope},
		},
		tokenFile: tokenFile,
	}, nil
}

// IsAuthenticated reports whether a stored token exists and parses.
func (g *GoogleGate) IsAuthenticated() bool {
	_, err := g.loadToken()
	return err == nil
}

// AuthorizationURL returns the Google consent page entry point. The offline
// access type is required so the exchange yields a refresh token.
func (g *GoogleGate) AuthorizationURL() string {
	return g.conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// Exchange redeems an authorization code for tokens and persists them.
func (g *GoogleGate) Exchange(ctx context.Context, authCode string) error {
	token, err := g.conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return g.saveToken(token)
}

// TokenSource returns a refreshing token source for the stored token.
func (g *GoogleGate) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := g.loadToken()
	if err != nil {
		return nil, fmt.Errorf("no usable Google OAuth token: %w", err)
	}
	return g.conf.TokenSource(ctx, token), nil
}

func (g *GoogleGate) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(g.tokenFile)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", g.tokenFile, err)
	}
	if token.RefreshToken == "" && token.AccessToken == "" {
		return nil, fmt.Errorf("token file %s holds no credential", g.tokenFile)
	}
	return &token, nil
}

func (g *GoogleGate) saveToken(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(g.tokenFile), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(g.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
