package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "jwt:blacklist:"

// TokenBlacklist keeps revoked tokens until their natural expiration.
// It prefers redis and falls back to process memory when no client is configured.
type TokenBlacklist struct {
	rc *redis.Client

	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewTokenBlacklist creates a blacklist; rc may be nil.
func NewTokenBlacklist(rc *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rc: rc, entries: map[string]time.Time{}, now: time.Now}
}

// Revoke stores a token until expiresAt to support logout semantics.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return b.rc.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
	}
	b.mu.Lock()
	b.entries[token] = expiresAt
	b.mu.Unlock()
	return nil
}

// IsRevoked checks if a token was revoked before natural expiration.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := b.rc.Exists(ctx, blacklistPrefix+token).Result()
		if err != nil {
			// Fail open to avoid locking everybody out when redis is down
			Sugar.Warnf("token blacklist lookup failed: %v", err)
			return false
		}
		return n > 0
	}

	b.mu.RLock()
	expiresAt, ok := b.entries[token]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	if b.now().After(expiresAt) {
		b.mu.Lock()
		delete(b.entries, token)
		b.mu.Unlock()
		return false
	}
	return true
}
