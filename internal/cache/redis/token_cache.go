package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

// TokenCache implements domain.TokenCache. Each token is stored as a JSON
// string at "token:{address}" and expires after the configured TTL.
type TokenCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTokenCache creates a TokenCache backed by the given Client.
func NewTokenCache(c *Client, ttl time.Duration) *TokenCache {
	return &TokenCache{rdb: c.Underlying(), ttl: ttl}
}

func tokenKey(address string) string { return "token:" + address }

// SetToken stores token metadata with the cache TTL.
func (tc *TokenCache) SetToken(ctx context.Context, token domain.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("redis: marshal token %s: %w", token.Address, err)
	}
	if err := tc.rdb.Set(ctx, tokenKey(token.Address), data, tc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set token %s: %w", token.Address, err)
	}
	return nil
}

// GetToken returns cached metadata for address, or domain.ErrNotFound.
func (tc *TokenCache) GetToken(ctx context.Context, address string) (domain.Token, error) {
	data, err := tc.rdb.Get(ctx, tokenKey(address)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Token{}, domain.ErrNotFound
		}
		return domain.Token{}, fmt.Errorf("redis: get token %s: %w", address, err)
	}

	var token domain.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return domain.Token{}, fmt.Errorf("redis: unmarshal token %s: %w", address, err)
	}
	return token, nil
}

// Compile-time interface check.
var _ domain.TokenCache = (*TokenCache)(nil)
