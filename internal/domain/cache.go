package domain

import (
	"context"
	"time"
)

// TokenCache provides fast token metadata lookups. Get returns ErrNotFound on
// a miss.
type TokenCache interface {
	GetToken(ctx context.Context, address string) (Token, error)
	SetToken(ctx context.Context, token Token) error
}

// PriceCache holds recently fetched pair prices. Get returns ErrNotFound on a
// miss.
type PriceCache interface {
	GetPrice(ctx context.Context, pair PricePair) (Price, error)
	GetPrices(ctx context.Context, pairs []PricePair) (map[string]Price, error)
	SetPrice(ctx context.Context, price Price) error
}

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
