package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the versioned platform API root.
const DefaultBaseURL = "https://discord.com/api/v10"

// Observer receives one call per completed platform request. status is 0 when
// the request failed before a response arrived.
type Observer interface {
	ObserveRequest(endpoint string, status int, elapsed time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithBotToken sets the bot token used by schema registration.
func WithBotToken(token string) Option {
	return func(c *Client) {
		c.botToken = token
	}
}

// WithApplicationID overrides the application id, which defaults to the
// OAuth client id.
func WithApplicationID(id string) Option {
	return func(c *Client) {
		c.applicationID = id
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver registers a request observer, typically Prometheus metrics.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLenientValues converts the string-encoded metadata values some
// platform responses carry into the typed forms FromResponse accepts.
// Without it, such responses fail with metadata.ErrValueTypeMismatch.
func WithLenientValues() Option {
	return func(c *Client) {
		c.lenient = true
	}
}
