package oauth

import (
	"errors"
	"net/url"

	"github.com/google/uuid"
)

// DefaultAuthorizeURL is the platform consent page.
const DefaultAuthorizeURL = "https://discord.com/oauth2/authorize"

// Config identifies the application to the platform.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Scopes requested in addition to DefaultScopes.
	Scopes       []Scope
	AuthorizeURL string
}

// Validate checks the members every OAuth call needs.
func (c Config) Validate() error {
	var errs []error
	if c.ClientID == "" {
		errs = append(errs, errors.New("oauth: client id is required"))
	}
	if c.ClientSecret == "" {
		errs = append(errs, errors.New("oauth: client secret is required"))
	}
	if c.RedirectURI == "" {
		errs = append(errs, errors.New("oauth: redirect uri is required"))
	}
	return errors.Join(errs...)
}

// AuthorizationURL returns the consent URL and the random state the callback
// must echo back. extra scopes are appended to the defaults.
func (c Config) AuthorizationURL(extra ...Scope) (string, string, error) {
	if c.ClientID == "" || c.RedirectURI == "" {
		return "", "", errors.New("oauth: client id and redirect uri are required")
	}

	base := c.AuthorizeURL
	if base == "" {
		base = DefaultAuthorizeURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", "", err
	}

	scopes := append(DefaultScopes(), c.Scopes...)
	scopes = append(scopes, extra...)
	state := uuid.NewString()

	query := url.Values{}
	query.Set("client_id", c.ClientID)
	query.Set("redirect_uri", c.RedirectURI)
	query.Set("response_type", "code")
	query.Set("state", state)
	query.Set("scope", JoinScopes(scopes))
	query.Set("prompt", "consent")
	u.RawQuery = query.Encode()

	return u.String(), state, nil
}
