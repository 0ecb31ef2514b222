package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nxtrix/account-service/pkg/database"
)

// RevocationCache answers whether a session token hash has been revoked.
type RevocationCache interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// SessionRevocationCache keeps revoked session token hashes in Redis so
// authentication can reject a logged-out token without a database read. The
// persisted revoked flag on the session row remains the authority.
type SessionRevocationCache struct {
	redis *database.Redis
}

// NewSessionRevocationCache creates a new session revocation cache
func NewSessionRevocationCache(redis *database.Redis) *SessionRevocationCache {
	return &SessionRevocationCache{redis: redis}
}

// Revoke records a revoked token hash until the session would have expired
// anyway
func (c *SessionRevocationCache) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	key := fmt.Sprintf("revoked:session:%s", tokenHash)
	err := c.redis.Client.Set(ctx, key, "1", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache session revocation: %w", err)
	}
	return nil
}

// IsRevoked checks whether a token hash has been revoked
func (c *SessionRevocationCache) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	key := fmt.Sprintf("revoked:session:%s", tokenHash)
	exists, err := c.redis.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}
