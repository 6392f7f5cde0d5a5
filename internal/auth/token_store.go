package auth

import (
	"context"
	"time"

	"eduhub/internal/cache"
)

const revokedKeyPrefix = "revoked:credential:"

// TokenStoreInterface defines the interface for credential revocation.
type TokenStoreInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// TokenStore keeps revoked credential ids in Redis until they would expire anyway.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks a credential id as unusable for ttl.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked checks if a credential id was revoked. Redis failures read as not revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	return s.cache.Exists(ctx, revokedKeyPrefix+tokenID)
}
