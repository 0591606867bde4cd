// Package client talks to the platform's OAuth2 and role-connection
// endpoints. The client holds no per-user state and is safe for concurrent
// use; callers own token storage and refresh policy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

const maxResponseSize = 1 << 20

// Client is the platform HTTP client for one application and one metadata
// Definition.
type Client struct {
	http          *http.Client
	baseURL       string
	oauth         oauth.Config
	botToken      string
	applicationID string
	def           *metadata.Definition
	logger        zerolog.Logger
	observer      Observer
	now           func() time.Time
	lenient       bool
}

// New validates the OAuth configuration and returns a client bound to def.
func New(cfg oauth.Config, def *metadata.Definition, options ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	if def == nil {
		return nil, errors.New("client: metadata definition is required")
	}

	c := &Client{
		http:          &http.Client{Timeout: 10 * time.Second},
		baseURL:       DefaultBaseURL,
		oauth:         cfg,
		applicationID: cfg.ClientID,
		def:           def,
		logger:        zerolog.Nop(),
		now:           time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c, nil
}

// Definition returns the metadata definition the client serializes.
func (c *Client) Definition() *metadata.Definition { return c.def }

// AuthorizationURL returns the consent URL and its state value.
func (c *Client) AuthorizationURL(extra ...oauth.Scope) (string, string, error) {
	return c.oauth.AuthorizationURL(extra...)
}

// ExchangeCode trades an authorization code for a token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (oauth.Token, error) {
	if code == "" {
		return oauth.Token{}, errors.New("client: authorization code is required")
	}
	form := c.clientForm()
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.oauth.RedirectURI)
	return c.tokenRequest(ctx, "token_exchange", form)
}

// RefreshToken returns a new token for token's refresh token.
func (c *Client) RefreshToken(ctx context.Context, token oauth.Token) (oauth.Token, error) {
	if !token.Refreshable() {
		return oauth.Token{}, errors.New("client: token has no refresh token")
	}
	form := c.clientForm()
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", token.RefreshToken)
	return c.tokenRequest(ctx, "token_refresh", form)
}

// RevokeToken revokes token's access token.
func (c *Client) RevokeToken(ctx context.Context, token oauth.Token) error {
	form := c.clientForm()
	form.Set("token", token.AccessToken)
	form.Set("token_type_hint", "access_token")
	return c.do(ctx, request{
		endpoint:    "token_revoke",
		method:      http.MethodPost,
		path:        "/oauth2/token/revoke",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, nil)
}

// CurrentAuthorization returns the authorization behind token.
func (c *Client) CurrentAuthorization(ctx context.Context, token oauth.Token) (Authorization, error) {
	auth, err := c.bearer(token)
	if err != nil {
		return Authorization{}, err
	}
	var out Authorization
	err = c.do(ctx, request{
		endpoint:      "current_authorization",
		method:        http.MethodGet,
		path:          "/oauth2/@me",
		authorization: auth,
	}, &out)
	return out, err
}

// RegisterSchema replaces the application's metadata schema with the
// definition's descriptor and returns what the platform stored.
func (c *Client) RegisterSchema(ctx context.Context) ([]metadata.SchemaEntry, error) {
	if c.botToken == "" {
		return nil, ErrBotTokenRequired
	}
	body, err := json.Marshal(c.def.ToSchema())
	if err != nil {
		return nil, fmt.Errorf("client: encode schema: %w", err)
	}

	var out []metadata.SchemaEntry
	err = c.do(ctx, request{
		endpoint:      "schema_register",
		method:        http.MethodPut,
		path:          c.schemaPath(),
		body:          bytes.NewReader(body),
		contentType:   "application/json",
		authorization: "Bot " + c.botToken,
	}, &out)
	return out, err
}

// GetSchema returns the application's registered metadata schema.
func (c *Client) GetSchema(ctx context.Context) ([]metadata.SchemaEntry, error) {
	if c.botToken == "" {
		return nil, ErrBotTokenRequired
	}
	var out []metadata.SchemaEntry
	err := c.do(ctx, request{
		endpoint:      "schema_get",
		method:        http.MethodGet,
		path:          c.schemaPath(),
		authorization: "Bot " + c.botToken,
	}, &out)
	return out, err
}

// PushMetadata sets the user's role connection to inst and returns the
// connection the platform stored.
func (c *Client) PushMetadata(ctx context.Context, token oauth.Token, inst *metadata.Instance) (*metadata.Instance, error) {
	if inst == nil {
		return nil, errors.New("client: metadata instance is required")
	}
	if inst.Definition() != c.def {
		return nil, errors.New("client: instance was built from another definition")
	}
	auth, err := c.bearer(token)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(inst.ToMetadataPayload())
	if err != nil {
		return nil, fmt.Errorf("client: encode metadata: %w", err)
	}

	var response map[string]any
	err = c.do(ctx, request{
		endpoint:      "metadata_push",
		method:        http.MethodPut,
		path:          c.connectionPath(),
		body:          bytes.NewReader(body),
		contentType:   "application/json",
		authorization: auth,
	}, &response)
	if err != nil {
		return nil, err
	}
	return c.instanceFromResponse(response)
}

// GetMetadata returns the user's current role connection.
func (c *Client) GetMetadata(ctx context.Context, token oauth.Token) (*metadata.Instance, error) {
	auth, err := c.bearer(token)
	if err != nil {
		return nil, err
	}

	var response map[string]any
	err = c.do(ctx, request{
		endpoint:      "metadata_get",
		method:        http.MethodGet,
		path:          c.connectionPath(),
		authorization: auth,
	}, &response)
	if err != nil {
		return nil, err
	}
	if response["platform_name"] == nil && isEmptyObject(response["metadata"]) {
		return nil, ErrNotConnected
	}
	return c.instanceFromResponse(response)
}

func (c *Client) instanceFromResponse(response map[string]any) (*metadata.Instance, error) {
	if c.lenient {
		response = normalizeResponse(c.def, response)
	}
	inst, err := c.def.FromResponse(response)
	if err != nil {
		return nil, fmt.Errorf("client: parse role connection: %w", err)
	}
	return inst, nil
}

func (c *Client) tokenRequest(ctx context.Context, endpoint string, form url.Values) (oauth.Token, error) {
	issued := c.now()
	var resp oauth.TokenResponse
	err := c.do(ctx, request{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        "/oauth2/token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &resp)
	if err != nil {
		return oauth.Token{}, err
	}
	token, err := oauth.TokenFromResponse(resp, issued)
	if err != nil {
		return oauth.Token{}, fmt.Errorf("client: %w", err)
	}
	return token, nil
}

func (c *Client) bearer(token oauth.Token) (string, error) {
	if token.AccessToken == "" {
		return "", errors.New("client: access token is required")
	}
	if token.ExpiredAt(c.now()) {
		return "", ErrCredentialExpired
	}
	return "Bearer " + token.AccessToken, nil
}

func (c *Client) clientForm() url.Values {
	form := url.Values{}
	form.Set("client_id", c.oauth.ClientID)
	form.Set("client_secret", c.oauth.ClientSecret)
	return form
}

func (c *Client) schemaPath() string {
	return "/applications/" + url.PathEscape(c.applicationID) + "/role-connections/metadata"
}

func (c *Client) connectionPath() string {
	return "/users/@me/applications/" + url.PathEscape(c.applicationID) + "/role-connection"
}

type request struct {
	endpoint      string
	method        string
	path          string
	body          io.Reader
	contentType   string
	authorization string
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil.
// Numbers decode as json.Number so metadata integers keep their precision.
func (c *Client) do(ctx context.Context, req request, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return fmt.Errorf("client: build %s request: %w", req.endpoint, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.authorization != "" {
		httpReq.Header.Set("Authorization", req.authorization)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req, 0, start)
		return fmt.Errorf("client: %s: %w", req.endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.observe(req, resp.StatusCode, start)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("client: read %s response: %w", req.endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			Method:     req.method,
			Endpoint:   req.path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("client: decode %s response: %w", req.endpoint, err)
	}
	return nil
}

func (c *Client) observe(req request, status int, start time.Time) {
	elapsed := time.Since(start)
	c.logger.Debug().
		Str("endpoint", req.endpoint).
		Str("method", req.method).
		Int("status", status).
		Dur("elapsed", elapsed).
		Msg("platform request")
	if c.observer != nil {
		c.observer.ObserveRequest(req.endpoint, status, elapsed)
	}
}

func isEmptyObject(v any) bool {
	switch m := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(m) == 0
	default:
		return false
	}
}
