// Package tokenstore persists OAuth tokens per platform user id.
package tokenstore

import (
	"context"
	"errors"

	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

// ErrNotFound is returned by Get and Delete for unknown user ids.
var ErrNotFound = errors.New("tokenstore: token not found")

// Store keeps the latest token for each user. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, userID string) (oauth.Token, error)
	Put(ctx context.Context, userID string, token oauth.Token) error
	Delete(ctx context.Context, userID string) error
}

func validateUserID(userID string) error {
	if userID == "" {
		return errors.New("tokenstore: user id is required")
	}
	return nil
}
