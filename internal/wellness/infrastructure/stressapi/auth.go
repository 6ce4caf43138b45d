package stressapi

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Credentials configures how the client authenticates.
type Credentials struct {
	// Token is a static bearer token.
	Token string
	// Client credentials grant; takes precedence over Token when complete.
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// TokenSource returns the token source for creds, or nil when no
// authentication is configured.
func TokenSource(ctx context.Context, creds Credentials) oauth2.TokenSource {
	if creds.ClientID != "" && creds.ClientSecret != "" && creds.TokenURL != "" {
		cfg := clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
		}
		return cfg.TokenSource(ctx)
	}
	if creds.Token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token, TokenType: "Bearer"})
	}
	return nil
}
