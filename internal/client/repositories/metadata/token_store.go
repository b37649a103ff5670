package metadata

import (
	"context"
)

// TokenKey is the single durable key that holds the bearer token.
const TokenKey = "token"

// TokenStore persists the session token on top of a Repository.
// Presence of the key means "logged in" for persistence purposes only;
// the profile is never stored.
type TokenStore struct {
	repo Repository
}

func NewTokenStore(repo Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

// LoadToken returns the persisted token or "" when none is stored.
func (s *TokenStore) LoadToken(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *TokenStore) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return s.DeleteToken(ctx)
	}
	return s.repo.Set(ctx, TokenKey, []byte(token))
}

func (s *TokenStore) DeleteToken(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey)
}
