// Package auth resolves the OAuth access token sent with every call and
// normalizes customer identifiers.
package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// DefaultTokenURL is Google's OAuth2 token endpoint.
const DefaultTokenURL = "https://oauth2.googleapis.com/token"

// Config carries the credentials used to resolve an access token. An
// explicit AccessToken wins; otherwise the refresh-token grant runs.
type Config struct {
	AccessToken  string
	ClientID     string
	ClientSecret string
	RefreshToken string
	// TokenURL overrides the token endpoint, for tests.
	TokenURL string
}

// ResolveAccessToken returns the configured token verbatim, or exchanges
// the refresh token for a fresh access token.
func ResolveAccessToken(ctx context.Context, cfg Config) (string, error) {
	if tok := strings.TrimSpace(cfg.AccessToken); tok != "" {
		return tok, nil
	}
	if cfg.ClientID == "" {
		return "", fmt.Errorf("GOOGLE_ADS_CLIENT_ID missing")
	}
	if cfg.ClientSecret == "" {
		return "", fmt.Errorf("GOOGLE_ADS_CLIENT_SECRET missing")
	}
	if cfg.RefreshToken == "" {
		return "", fmt.Errorf("GOOGLE_ADS_REFRESH_TOKEN missing")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}

	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	return tok.AccessToken, nil
}

// NormalizeCustomerID strips every non-digit character:
// "123-456-7890" -> "1234567890".
func NormalizeCustomerID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
