// Package credential holds the bearer token used by the API client. The token
// lives in a key-value backend under a fixed key; it is written by login flows
// (or the CLI) and cleared by the client when the backend answers 401.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TokenKey is the key the bearer token is stored under.
const TokenKey = "token"

// Backend is a persistent string key-value store.
type Backend interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

type Store struct {
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Token returns the stored token, or "" when none is set.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, ok, err := s.backend.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	if err := s.backend.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
