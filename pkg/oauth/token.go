package oauth

import (
	"errors"
	"time"
)

// Token holds the credentials returned by the token endpoint.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TokenResponse is the token endpoint body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenFromResponse converts a token endpoint body, anchoring the expiry at
// issued.
func TokenFromResponse(resp TokenResponse, issued time.Time) (Token, error) {
	if resp.AccessToken == "" {
		return Token{}, errors.New("oauth: token response has no access_token")
	}
	token := Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		Scope:        resp.Scope,
	}
	if resp.ExpiresIn > 0 {
		token.ExpiresAt = issued.Add(time.Duration(resp.ExpiresIn) * time.Second).UTC()
	}
	return token, nil
}

// ExpiredAt reports whether the token is expired at now. A zero ExpiresAt
// never expires.
func (t Token) ExpiredAt(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(t.ExpiresAt)
}

// Expired reports whether the token is expired now.
func (t Token) Expired() bool {
	return t.ExpiredAt(time.Now())
}

// Refreshable reports whether a refresh token is present.
func (t Token) Refreshable() bool {
	return t.RefreshToken != ""
}
