package client

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialExpired is returned before any request when the access
	// token has expired. Refresh it with RefreshToken first.
	ErrCredentialExpired = errors.New("client: credential expired")
	// ErrNotConnected is returned by GetMetadata when the user has never
	// pushed a role connection.
	ErrNotConnected = errors.New("client: user has no role connection")
	// ErrBotTokenRequired is returned by schema calls when no bot token is
	// configured.
	ErrBotTokenRequired = errors.New("client: bot token is required")
)

// RequestError reports a non-2xx platform response.
type RequestError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("client: %s %s returned %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request could succeed.
func (e *RequestError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// StatusCode extracts the platform status from err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
