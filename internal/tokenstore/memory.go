package tokenstore

import (
	"context"
	"sync"

	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]oauth.Token
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]oauth.Token)}
}

func (m *Memory) Get(ctx context.Context, userID string) (oauth.Token, error) {
	if err := ctx.Err(); err != nil {
		return oauth.Token{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.tokens[userID]
	if !ok {
		return oauth.Token{}, ErrNotFound
	}
	return token, nil
}

func (m *Memory) Put(ctx context.Context, userID string, token oauth.Token) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[userID] = token
	return nil
}

func (m *Memory) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[userID]; !ok {
		return ErrNotFound
	}
	delete(m.tokens, userID)
	return nil
}
